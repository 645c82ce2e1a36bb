package model

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Department struct {
	ID               primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	DepartmentName   Text               `json:"department_name" bson:"department_name"`
	DepartmentStatus Text               `json:"department_status" bson:"department_status"`
}

func (d Department) Identifier() string { return hexOrEmpty(d.ID) }

func (d Department) UpdateSet() bson.D {
	return bson.D{
		{Key: "department_name", Value: string(d.DepartmentName)},
		{Key: "department_status", Value: string(d.DepartmentStatus)},
	}
}
