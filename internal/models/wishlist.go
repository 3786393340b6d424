package models

import "time"

type WishlistItem struct {
	ProductID string    `bson:"product_id" json:"productId"`
	AddedAt   time.Time `bson:"added_at" json:"addedAt"`
}

// Wishlist est un document par utilisateur, clé user_email
type Wishlist struct {
	UserEmail string         `bson:"_id" json:"userEmail"`
	Items     []WishlistItem `bson:"items" json:"items"`
	UpdatedAt time.Time      `bson:"updated_at" json:"updatedAt"`
}
