package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
)

// ✅ GET /api/products/:id/reviews — avis + note moyenne
func GetProductReviews(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := database.Reviews().Find(ctx, bson.M{"product_id": productID}, opts)
	if err != nil {
		log.Printf("❌ Erreur lecture avis: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture avis"})
		return
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage avis"})
		return
	}

	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	rating := models.ProductRating{ProductID: productID, TotalReviews: int64(len(reviews))}
	if len(reviews) > 0 {
		rating.AverageRating = float64(sum) / float64(len(reviews))
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "rating": rating})
}

// ✅ POST /api/products/:id/reviews — un avis par client et par produit (upsert)
func UpsertReview(c *gin.Context) {
	email := c.GetString("email")
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var req struct {
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Comment string `json:"comment" binding:"max=2000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"rating":     req.Rating,
			"comment":    req.Comment,
			"user_name":  c.GetString("name"),
			"updated_at": now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := database.Reviews().UpdateOne(ctx,
		bson.M{"product_id": productID, "user_email": email}, update, opts); err != nil {
		log.Printf("❌ Erreur enregistrement avis: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement avis"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ✅ DELETE /api/products/:id/reviews — supprime son propre avis
func DeleteReview(c *gin.Context) {
	email := c.GetString("email")
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	res, err := database.Reviews().DeleteOne(ctx, bson.M{"product_id": productID, "user_email": email})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression avis"})
		return
	}
	if res.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Avis introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
