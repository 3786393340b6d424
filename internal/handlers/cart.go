package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
)

const cartTTL = 30 * 24 * time.Hour

func cartKey(email string) string { return "cart:" + email }

// ✅ GET /api/cart — panier serveur (source de vérité pour les connectés)
func GetCart(c *gin.Context) {
	email := c.GetString("email")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	data, err := database.RedisClient.Get(ctx, cartKey(email)).Result()
	if err != nil || data == "" {
		c.JSON(http.StatusOK, gin.H{"items": []models.CartItem{}}) // panier vide
		return
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ✅ PUT /api/cart — synchronisation idempotente : le client envoie l'état
// complet, le serveur remplace. Rejouer la même requête ne change rien.
func SyncCart(c *gin.Context) {
	email := c.GetString("email")

	var req struct {
		Items []models.CartItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if req.Items == nil {
		req.Items = []models.CartItem{}
	}

	for _, item := range req.Items {
		if item.ProductID == "" || item.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Article de panier invalide"})
			return
		}
	}

	data, err := json.Marshal(req.Items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sérialisation panier"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := database.RedisClient.Set(ctx, cartKey(email), data, cartTTL).Err(); err != nil {
		log.Printf("❌ Erreur sauvegarde panier: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "items": req.Items})
}

// ✅ DELETE /api/cart — vide le panier (après commande par exemple)
func ClearCart(c *gin.Context) {
	email := c.GetString("email")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := database.RedisClient.Del(ctx, cartKey(email)).Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
