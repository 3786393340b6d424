package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

func Load() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé — on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
}

// AdminEmails retourne la liste blanche des administrateurs (ADMIN_EMAILS, séparés par des virgules)
func AdminEmails() map[string]bool {
	admins := make(map[string]bool)
	for _, email := range strings.Split(os.Getenv("ADMIN_EMAILS"), ",") {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			admins[email] = true
		}
	}
	return admins
}

// InitialOrderStatus retourne le statut initial d'une commande après capture du paiement.
// "confirmed" par défaut : la commande n'est créée qu'après un paiement capturé.
func InitialOrderStatus() string {
	status := os.Getenv("ORDER_INITIAL_STATUS")
	if status != "pending" && status != "confirmed" {
		return "confirmed"
	}
	return status
}
