package model

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Customer is unique by name
type Customer struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name    Text               `json:"name" bson:"name"`
	Phone   Text               `json:"phone" bson:"phone"`
	Email   Text               `json:"email" bson:"email"`
	Address Text               `json:"address" bson:"address"`
	Status  Text               `json:"status" bson:"status"`
}

func (c Customer) Identifier() string { return hexOrEmpty(c.ID) }

func (c Customer) UpdateSet() bson.D {
	return bson.D{
		{Key: "name", Value: string(c.Name)},
		{Key: "phone", Value: string(c.Phone)},
		{Key: "email", Value: string(c.Email)},
		{Key: "address", Value: string(c.Address)},
		{Key: "status", Value: string(c.Status)},
	}
}
