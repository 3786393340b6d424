package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"velora_back_end/internal/orders"
	"velora_back_end/internal/utils"
)

// ✅ GET /api/orders/:id/invoice — facture PDF (propriétaire uniquement)
func GetOrderInvoice(c *gin.Context) {
	email := c.GetString("email")
	orderID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	order, err := OrderService.GetForUser(ctx, orderID, email)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	pdf, err := utils.RenderInvoicePDF(ctx, order.OrderID)
	if err != nil {
		log.Printf("❌ Erreur génération facture %s: %v", order.OrderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération de la facture"})
		return
	}

	filename := fmt.Sprintf("facture_%s.pdf", order.OrderID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ✅ GET /api/orders/:id/payment-qr — QR code UPI pour paiement manuel
func GetOrderPaymentQR(c *gin.Context) {
	email := c.GetString("email")
	orderID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	order, err := OrderService.GetForUser(ctx, orderID, email)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	png, err := utils.GenerateUPIQR(order.OrderID, order.OrderSummary.Total)
	if err != nil {
		log.Printf("❌ Erreur génération QR %s: %v", order.OrderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération du QR code"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
