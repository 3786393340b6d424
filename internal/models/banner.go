package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HeroSlide est une slide du carrousel d'accueil, gérée par le back-office
type HeroSlide struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Subtitle  string             `bson:"subtitle,omitempty" json:"subtitle,omitempty"`
	Image     string             `bson:"image" json:"image"`
	Link      string             `bson:"link,omitempty" json:"link,omitempty"`
	Position  int                `bson:"position" json:"position"`
	IsActive  bool               `bson:"is_active" json:"isActive"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// BannerMessage est le bandeau d'annonce au-dessus de la boutique
type BannerMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Message   string             `bson:"message" json:"message"`
	IsActive  bool               `bson:"is_active" json:"isActive"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}
