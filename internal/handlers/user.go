package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
)

// ✅ GET /api/me — profil de l'utilisateur connecté
func GetMe(c *gin.Context) {
	email := c.GetString("email")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		// Premier passage: profil minimal depuis le token
		user = models.User{Email: email, CreatedAt: time.Now(), UpdatedAt: time.Now()}
		if name, ok := c.Get("name"); ok {
			user.FirstName, _ = name.(string)
		}
		c.JSON(http.StatusOK, user)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// ✅ PUT /api/me — mise à jour du profil (upsert sur l'email de session)
func UpdateMe(c *gin.Context) {
	email := c.GetString("email")

	var input struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Phone     string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	now := time.Now()
	_, err := database.Users().UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{
			"$set": bson.M{
				"first_name": input.FirstName,
				"last_name":  input.LastName,
				"phone":      input.Phone,
				"updated_at": now,
			},
			"$setOnInsert": bson.M{"email": email, "created_at": now},
		},
		options.Update().SetUpsert(true))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour du profil"})
		return
	}

	var user models.User
	if err := database.Users().FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, user)
}
