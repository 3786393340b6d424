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

// OrderService est injecté au démarrage par routes.RegisterRoutes
var OrderService *orders.Service

// ✅ POST /api/orders — crée la commande depuis la confirmation de paiement
func CreateOrder(c *gin.Context) {
	email := c.GetString("email")

	var req struct {
		Items             []models.OrderItem    `json:"items" binding:"required"`
		Subtotal          float64               `json:"subtotal"`
		Shipping          float64               `json:"shipping"`
		Taxes             float64               `json:"taxes"`
		Discount          float64               `json:"discount"`
		DiscountCode      string                `json:"discountCode"`
		ShippingAddress   models.ShippingAddress `json:"shippingAddress" binding:"required"`
		Payment           models.PaymentDetails `json:"paymentDetails" binding:"required"`
		EstimatedDelivery *time.Time            `json:"estimatedDelivery"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	order, err := OrderService.Create(ctx, orders.CreateInput{
		UserEmail:         email,
		Items:             req.Items,
		Subtotal:          req.Subtotal,
		Shipping:          req.Shipping,
		Taxes:             req.Taxes,
		Discount:          req.Discount,
		DiscountCode:      req.DiscountCode,
		ShippingAddress:   req.ShippingAddress,
		Payment:           req.Payment,
		EstimatedDelivery: req.EstimatedDelivery,
	})
	if err != nil {
		if errors.Is(err, orders.ErrPaymentNotConfirmed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Paiement non confirmé"})
			return
		}
		log.Printf("❌ Erreur création commande: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création commande"})
		return
	}

	log.Printf("🛍️ Commande créée: %s (%.2f) pour %s", order.OrderID, order.OrderSummary.Total, email)

	// E-mail de confirmation en asynchrone, jamais bloquant
	go func(o models.Order) {
		if err := utils.SendOrderConfirmationEmail(o); err != nil {
			log.Printf("⚠️ Erreur envoi e-mail confirmation: %v", err)
		}
	}(*order)

	c.JSON(http.StatusCreated, gin.H{"success": true, "order": order})
}

// ✅ GET /api/orders — commandes du client connecté, paginées
func GetMyOrders(c *gin.Context) {
	email := c.GetString("email")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	list, pagination, err := OrderService.ListForUser(ctx, email, page, limit)
	if err != nil {
		log.Printf("❌ Erreur récupération commandes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}

	if list == nil {
		list = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": list, "pagination": pagination})
}

// ✅ GET /api/orders/:id — 404 si absente OU appartenant à un autre client
func GetOrderByID(c *gin.Context) {
	email := c.GetString("email")
	orderID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	order, err := OrderService.GetForUser(ctx, orderID, email)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
			return
		}
		log.Printf("❌ Erreur lecture commande %s: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commande"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// ✅ POST /api/orders/:id/cancel — workflow d'annulation + remboursement
func CancelOrder(c *gin.Context) {
	email := c.GetString("email")
	orderID := c.Param("id")

	var req struct {
		Reason string `json:"reason"`
	}
	// corps optionnel
	_ = c.ShouldBindJSON(&req)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	result, err := OrderService.Cancel(ctx, orderID, email, req.Reason)
	if err != nil {
		respondCancelError(c, orderID, err)
		return
	}

	log.Printf("🧾 Commande %s annulée (remboursement: %s)", orderID, result.RefundDetails.Status)

	go func(o models.Order, manual bool) {
		if err := utils.SendCancellationEmail(o, manual); err != nil {
			log.Printf("⚠️ Erreur envoi e-mail annulation: %v", err)
		}
	}(*result.Order, result.ManualRefund)

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        result.Message,
		"refund_details": result.RefundDetails,
	})
}

func respondCancelError(c *gin.Context, orderID string, err error) {
	var refundErr *orders.RefundFailedError

	switch {
	case errors.Is(err, orders.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
	case errors.Is(err, orders.ErrAlreadyCancelled),
		errors.Is(err, orders.ErrNotCancellable),
		errors.Is(err, orders.ErrTooCloseToDelivery):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, orders.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &refundErr):
		log.Printf("❌ Remboursement bloqué pour %s: %s", orderID, refundErr.Description)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Échec du remboursement, commande non annulée",
			"details": refundErr.Description,
		})
	default:
		log.Printf("❌ Erreur annulation %s: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur annulation commande"})
	}
}
