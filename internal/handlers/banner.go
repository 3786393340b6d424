package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"velora_back_end/internal/cache"
	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
)

// ✅ GET /api/banners — slides actives + message bannière (public, mis en cache)
func GetBanners(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	const cacheKey = "banners:public"
	if cached, err := database.Redis.Get(ctx, cacheKey).Result(); err == nil {
		var payload gin.H
		if json.Unmarshal([]byte(cached), &payload) == nil {
			c.JSON(http.StatusOK, payload)
			return
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := database.HeroSlides().Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		log.Printf("❌ Erreur lecture slides: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture bannières"})
		return
	}
	defer cursor.Close(ctx)

	slides := []models.HeroSlide{}
	if err := cursor.All(ctx, &slides); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage bannières"})
		return
	}

	var message *models.BannerMessage
	var msg models.BannerMessage
	err = database.BannerMessages().FindOne(ctx, bson.M{"is_active": true}).Decode(&msg)
	if err == nil {
		message = &msg
	} else if err != mongo.ErrNoDocuments {
		log.Printf("⚠️ Erreur lecture message bannière: %v", err)
	}

	payload := gin.H{"slides": slides, "message": message}
	if data, err := json.Marshal(payload); err == nil {
		database.Redis.Set(ctx, cacheKey, data, cache.BannerCacheTTL)
	}

	c.JSON(http.StatusOK, payload)
}

// ✅ POST /api/admin/banners/slides
func AdminCreateHeroSlide(c *gin.Context) {
	var slide models.HeroSlide
	if err := c.ShouldBindJSON(&slide); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}
	if slide.Title == "" || slide.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Titre et image requis"})
		return
	}

	slide.ID = primitive.NewObjectID()
	slide.CreatedAt = time.Now()
	slide.UpdatedAt = slide.CreatedAt

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, err := database.HeroSlides().InsertOne(ctx, slide); err != nil {
		log.Printf("❌ Erreur création slide: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création slide"})
		return
	}

	cache.InvalidateBanners(ctx)
	c.JSON(http.StatusCreated, gin.H{"success": true, "slide": slide})
}

// ✅ PUT /api/admin/banners/slides/:id
func AdminUpdateHeroSlide(c *gin.Context) {
	slideID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID slide invalide"})
		return
	}

	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	delete(patch, "_id")
	delete(patch, "id")
	delete(patch, "created_at")
	patch["updated_at"] = time.Now()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	res, err := database.HeroSlides().UpdateOne(ctx, bson.M{"_id": slideID}, bson.M{"$set": patch})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour slide"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Slide introuvable"})
		return
	}

	cache.InvalidateBanners(ctx)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ✅ DELETE /api/admin/banners/slides/:id
func AdminDeleteHeroSlide(c *gin.Context) {
	slideID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID slide invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	res, err := database.HeroSlides().DeleteOne(ctx, bson.M{"_id": slideID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression slide"})
		return
	}
	if res.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Slide introuvable"})
		return
	}

	cache.InvalidateBanners(ctx)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ✅ PUT /api/admin/banners/message — remplace le message bannière courant
func AdminSetBannerMessage(c *gin.Context) {
	var req struct {
		Message  string `json:"message" binding:"required"`
		IsActive bool   `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	// un seul message actif : on désactive les autres puis upsert
	if _, err := database.BannerMessages().UpdateMany(ctx,
		bson.M{}, bson.M{"$set": bson.M{"is_active": false}}); err != nil {
		log.Printf("⚠️ Erreur désactivation messages: %v", err)
	}

	msg := models.BannerMessage{
		ID:        primitive.NewObjectID(),
		Message:   req.Message,
		IsActive:  req.IsActive,
		UpdatedAt: time.Now(),
	}
	if _, err := database.BannerMessages().InsertOne(ctx, msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement message"})
		return
	}

	cache.InvalidateBanners(ctx)
	c.JSON(http.StatusOK, gin.H{"success": true, "banner": msg})
}
