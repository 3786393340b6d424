package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
)

const (
	ProductCacheTTL  = 10 * time.Minute
	WishlistCacheTTL = 10 * time.Minute
	BannerCacheTTL   = 5 * time.Minute
)

// GetProduct récupère un produit depuis Redis, sinon MongoDB (cache-aside)
func GetProduct(ctx context.Context, productID primitive.ObjectID) (*models.Product, error) {
	key := "product:" + productID.Hex()

	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var product models.Product
		if json.Unmarshal([]byte(data), &product) == nil {
			return &product, nil
		}
	}

	var product models.Product
	if err := database.Products().FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
		return nil, err
	}

	if jsonData, err := json.Marshal(product); err == nil {
		database.Redis.Set(ctx, key, jsonData, ProductCacheTTL)
	}
	return &product, nil
}

// InvalidateProduct invalide le cache d'un produit
func InvalidateProduct(ctx context.Context, productID primitive.ObjectID) {
	database.Redis.Del(ctx, "product:"+productID.Hex())
}

// InvalidateWishlist invalide le cache wishlist d'un client
func InvalidateWishlist(ctx context.Context, userEmail string) {
	database.Redis.Del(ctx, "wishlist:"+userEmail)
}

// InvalidateBanners invalide le cache des bannières publiques
func InvalidateBanners(ctx context.Context) {
	database.Redis.Del(ctx, "banners:public")
}
