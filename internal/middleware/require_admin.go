package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"velora_back_end/internal/config"
)

// RequireAdmin vérifie l'appartenance de l'email de session à la liste
// blanche ADMIN_EMAILS. Unique point de contrôle admin, posé sur le groupe
// de routes avant tout corps de handler — aucun effet de bord avant refus.
func RequireAdmin(c *gin.Context) {
	email := c.GetString("email")
	if email == "" || !config.AdminEmails()[email] {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Accès réservé aux administrateurs"})
		c.Abort()
		return
	}
	c.Next()
}
