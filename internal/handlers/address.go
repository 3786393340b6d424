package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
)

// ✅ GET /api/addresses — carnet d'adresses du client
func GetAddresses(c *gin.Context) {
	email := c.GetString("email")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	cursor, err := database.Addresses().Find(ctx, bson.M{"user_email": email})
	if err != nil {
		log.Printf("❌ Erreur lecture adresses: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture adresses"})
		return
	}
	defer cursor.Close(ctx)

	addresses := []models.Address{}
	if err := cursor.All(ctx, &addresses); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage adresses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

// ✅ POST /api/addresses
func CreateAddress(c *gin.Context) {
	email := c.GetString("email")

	var address models.Address
	if err := c.ShouldBindJSON(&address); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}
	address.ID = primitive.NewObjectID()
	address.UserEmail = email

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	// une seule adresse par défaut à la fois
	if address.IsDefault {
		if _, err := database.Addresses().UpdateMany(ctx,
			bson.M{"user_email": email},
			bson.M{"$set": bson.M{"is_default": false}}); err != nil {
			log.Printf("⚠️ Erreur réinitialisation adresse par défaut: %v", err)
		}
	}

	if _, err := database.Addresses().InsertOne(ctx, address); err != nil {
		log.Printf("❌ Erreur création adresse: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création adresse"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "address": address})
}

// ✅ PUT /api/addresses/:id — mise à jour, filtrée par propriétaire
func UpdateAddress(c *gin.Context) {
	email := c.GetString("email")
	addressID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID adresse invalide"})
		return
	}

	var address models.Address
	if err := c.ShouldBindJSON(&address); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if address.IsDefault {
		if _, err := database.Addresses().UpdateMany(ctx,
			bson.M{"user_email": email},
			bson.M{"$set": bson.M{"is_default": false}}); err != nil {
			log.Printf("⚠️ Erreur réinitialisation adresse par défaut: %v", err)
		}
	}

	set := bson.M{
		"first_name":  address.FirstName,
		"last_name":   address.LastName,
		"street":      address.Street,
		"city":        address.City,
		"state":       address.State,
		"postal_code": address.PostalCode,
		"country":     address.Country,
		"phone":       address.Phone,
		"is_default":  address.IsDefault,
	}
	res, err := database.Addresses().UpdateOne(ctx,
		bson.M{"_id": addressID, "user_email": email},
		bson.M{"$set": set})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour adresse"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Adresse introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ✅ DELETE /api/addresses/:id
func DeleteAddress(c *gin.Context) {
	email := c.GetString("email")
	addressID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID adresse invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	res, err := database.Addresses().DeleteOne(ctx, bson.M{"_id": addressID, "user_email": email})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression adresse"})
		return
	}
	if res.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Adresse introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
