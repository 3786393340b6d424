package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"velora_back_end/internal/models"
	"velora_back_end/internal/orders"
	"velora_back_end/internal/utils"
)

// ✅ GET /api/admin/orders — liste filtrée + statistiques (back-office)
func AdminListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	filter := orders.SearchFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	list, stats, pagination, err := OrderService.AdminList(ctx, filter, page, limit)
	if err != nil {
		if errors.Is(err, orders.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Statut invalide"})
			return
		}
		log.Printf("❌ Erreur liste admin: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	if list == nil {
		list = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"orders":     list,
		"stats":      stats,
		"pagination": pagination,
	})
}

// ✅ GET /api/admin/orders/:id — détail complet, sans restriction de propriétaire
func AdminGetOrder(c *gin.Context) {
	orderID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	order, err := OrderService.AdminGet(ctx, orderID)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
			return
		}
		log.Printf("❌ Erreur lecture admin %s: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commande"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// ✅ PUT /api/admin/orders/:id — patch partiel {status?, estimatedDelivery?, notes?}
func AdminUpdateOrder(c *gin.Context) {
	orderID := c.Param("id")

	var req struct {
		Status            *string    `json:"status"`
		EstimatedDelivery *time.Time `json:"estimatedDelivery"`
		Notes             *string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}
	if req.Status == nil && req.EstimatedDelivery == nil && req.Notes == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucun champ à modifier"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	order, err := OrderService.AdminUpdate(ctx, orderID, orders.AdminPatch{
		Status:            req.Status,
		EstimatedDelivery: req.EstimatedDelivery,
		Notes:             req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		case errors.Is(err, orders.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Statut invalide",
				"valid_statuses": []string{
					models.StatusPending, models.StatusConfirmed, models.StatusProcessing,
					models.StatusShipped, models.StatusDelivered, models.StatusCancelled,
				},
			})
		case errors.Is(err, orders.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			log.Printf("❌ Erreur mise à jour admin %s: %v", orderID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour commande"})
		}
		return
	}

	log.Printf("✅ Commande %s mise à jour par %s", orderID, c.GetString("email"))

	if req.Status != nil {
		go func(o models.Order) {
			if err := utils.SendOrderStatusEmail(o); err != nil {
				log.Printf("⚠️ Erreur envoi e-mail statut: %v", err)
			}
		}(*order)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
