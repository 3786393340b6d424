package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Address struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserEmail  string             `bson:"user_email" json:"userEmail"`
	FirstName  string             `bson:"first_name" json:"firstName"`
	LastName   string             `bson:"last_name" json:"lastName"`
	Street     string             `bson:"street" json:"street"`
	City       string             `bson:"city" json:"city"`
	State      string             `bson:"state" json:"state"`
	PostalCode string             `bson:"postal_code" json:"postalCode"`
	Country    string             `bson:"country" json:"country"`
	Phone      string             `bson:"phone" json:"phone"`
	IsDefault  bool               `bson:"is_default" json:"isDefault"`
}
