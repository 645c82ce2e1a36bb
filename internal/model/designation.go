package model

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Designation struct {
	ID                primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Designation       Text               `json:"designation" bson:"designation"`
	DesignationStatus Text               `json:"designation_status" bson:"designation_status"`
}

func (d Designation) Identifier() string { return hexOrEmpty(d.ID) }

func (d Designation) UpdateSet() bson.D {
	return bson.D{
		{Key: "designation", Value: string(d.Designation)},
		{Key: "designation_status", Value: string(d.DesignationStatus)},
	}
}
