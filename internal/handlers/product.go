package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
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

// ✅ GET /api/products — listing par filtres simples (pas de moteur de recherche)
func GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := bson.M{"is_active": true}
	if category := c.Query("category"); category != "" {
		filter["category"] = category
	}
	if size := c.Query("size"); size != "" {
		filter["sizes"] = size
	}
	if c.Query("sale") == "true" {
		filter["on_sale"] = true
	}
	priceFilter := bson.M{}
	if min, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		priceFilter["$gte"] = min
	}
	if max, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
		priceFilter["$lte"] = max
	}
	if len(priceFilter) > 0 {
		filter["price"] = priceFilter
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	total, err := database.Products().CountDocuments(ctx, filter)
	if err != nil {
		log.Printf("❌ Erreur comptage produits: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits"})
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := database.Products().Find(ctx, filter, opts)
	if err != nil {
		log.Printf("❌ Erreur lecture produits: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits"})
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage produits"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":   products,
		"pagination": models.NewPagination(page, limit, total),
	})
}

// ✅ GET /api/products/:id — lecture unitaire, cache-aside Redis
func GetProductByID(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	product, err := cache.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
			return
		}
		log.Printf("❌ Erreur lecture produit %s: %v", productID.Hex(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produit"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// ✅ POST /api/admin/products — création produit (back-office)
func AdminCreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}
	if product.Name == "" || product.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nom et prix requis"})
		return
	}

	product.ID = primitive.NewObjectID()
	product.IsActive = true
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, err := database.Products().InsertOne(ctx, product); err != nil {
		log.Printf("❌ Erreur création produit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit"})
		return
	}

	log.Printf("🆕 Produit créé: %s (%s)", product.Name, product.ID.Hex())
	c.JSON(http.StatusCreated, gin.H{"success": true, "product": product})
}

// ✅ PUT /api/admin/products/:id — mise à jour produit
func AdminUpdateProduct(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
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

	res, err := database.Products().UpdateOne(ctx, bson.M{"_id": productID}, bson.M{"$set": patch})
	if err != nil {
		log.Printf("❌ Erreur mise à jour produit %s: %v", productID.Hex(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	cache.InvalidateProduct(ctx, productID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ✅ DELETE /api/admin/products/:id — désactivation (soft delete)
func AdminDeleteProduct(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	res, err := database.Products().UpdateOne(ctx,
		bson.M{"_id": productID},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now()}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression produit"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	cache.InvalidateProduct(ctx, productID)
	log.Printf("🗑️ Produit désactivé: %s", productID.Hex())
	c.JSON(http.StatusOK, gin.H{"success": true})
}
