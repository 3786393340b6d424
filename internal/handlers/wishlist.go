package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"velora_back_end/internal/cache"
	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
)

// ✅ GET /api/wishlist — cache Redis d'abord, MongoDB sinon
func GetWishlist(c *gin.Context) {
	email := c.GetString("email")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	cacheKey := "wishlist:" + email
	cached, err := database.Redis.Get(ctx, cacheKey).Result()
	if err == nil {
		var wishlist models.Wishlist
		if json.Unmarshal([]byte(cached), &wishlist) == nil {
			c.JSON(http.StatusOK, wishlist)
			return
		}
	}

	var wishlist models.Wishlist
	err = database.Wishlists().FindOne(ctx, bson.M{"_id": email}).Decode(&wishlist)
	if err == mongo.ErrNoDocuments {
		wishlist = models.Wishlist{UserEmail: email, Items: []models.WishlistItem{}}
	} else if err != nil {
		log.Printf("❌ Erreur lecture wishlist: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture wishlist"})
		return
	}
	if wishlist.Items == nil {
		wishlist.Items = []models.WishlistItem{}
	}

	if data, err := json.Marshal(wishlist); err == nil {
		database.Redis.Set(ctx, cacheKey, data, cache.WishlistCacheTTL)
	}

	c.JSON(http.StatusOK, wishlist)
}

// ✅ POST /api/wishlist — ajoute un produit
func AddToWishlist(c *gin.Context) {
	email := c.GetString("email")

	var req struct {
		ProductID string `json:"productId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	// filtre sur items.product_id pour ne pas dupliquer l'entrée
	item := models.WishlistItem{ProductID: req.ProductID, AddedAt: time.Now()}
	filter := bson.M{"_id": email, "items.product_id": bson.M{"$ne": req.ProductID}}
	update := bson.M{
		"$push": bson.M{"items": item},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := database.Wishlists().UpdateOne(ctx, filter, update, opts); err != nil && !mongo.IsDuplicateKeyError(err) {
		log.Printf("❌ Erreur ajout wishlist: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout wishlist"})
		return
	}

	cache.InvalidateWishlist(ctx, email)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ✅ DELETE /api/wishlist/:productId — retire un produit
func RemoveFromWishlist(c *gin.Context) {
	email := c.GetString("email")
	productID := c.Param("productId")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	update := bson.M{
		"$pull": bson.M{"items": bson.M{"product_id": productID}},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	if _, err := database.Wishlists().UpdateOne(ctx, bson.M{"_id": email}, update); err != nil {
		log.Printf("❌ Erreur retrait wishlist: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur retrait wishlist"})
		return
	}

	cache.InvalidateWishlist(ctx, email)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
