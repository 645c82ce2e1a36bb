package model

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is a customer engagement. Customer and department are free-text copies.
type Project struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ProjectName     Text               `json:"project_name" bson:"project_name"`
	CustomerName    Text               `json:"customer_name" bson:"customer_name"`
	ProjectCategory Text               `json:"project_category" bson:"project_category"`
	Department      Text               `json:"department" bson:"department"`
	HOD             Text               `json:"hod" bson:"hod"`
	PM              Text               `json:"pm" bson:"pm"`
	Year            Text               `json:"year" bson:"year"`
	Phase           Text               `json:"phase" bson:"phase"`
	ProjectCode     Text               `json:"project_code" bson:"project_code"`
}

func (p Project) Identifier() string { return hexOrEmpty(p.ID) }

func (p Project) UpdateSet() bson.D {
	return bson.D{
		{Key: "project_name", Value: string(p.ProjectName)},
		{Key: "customer_name", Value: string(p.CustomerName)},
		{Key: "project_category", Value: string(p.ProjectCategory)},
		{Key: "department", Value: string(p.Department)},
		{Key: "hod", Value: string(p.HOD)},
		{Key: "pm", Value: string(p.PM)},
		{Key: "year", Value: string(p.Year)},
		{Key: "phase", Value: string(p.Phase)},
		{Key: "project_code", Value: string(p.ProjectCode)},
	}
}

func hexOrEmpty(id primitive.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.Hex()
}
