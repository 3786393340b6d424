package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"velora_back_end/internal/config"
	"velora_back_end/internal/database"
	"velora_back_end/internal/gateway"
	"velora_back_end/internal/orders"
	"velora_back_end/internal/routes"
)

func main() {
	config.Load()

	gw, err := gateway.NewClientFromEnv()
	if err != nil {
		log.Fatal("❌ Impossible d'initialiser Razorpay : ", err)
	}
	log.Println("✅ Razorpay initialisé")

	database.ConnectDatabases()
	defer database.CloseMongo()

	database.EnsureIndexes()

	warmupRedisCache()

	store := orders.NewMongoStore(database.Orders())
	service := orders.NewService(store, gw, config.InitialOrderStatus())

	r := gin.Default()
	r.Use(corsMiddleware())
	routes.RegisterRoutes(r, service)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur Velora lancé sur le port", port)
	r.Run(":" + port)
}

func corsMiddleware() gin.HandlerFunc {
	originsEnv := os.Getenv("CORS_ORIGINS")
	if originsEnv == "" {
		originsEnv = "http://localhost:3000"
	}

	cfg := cors.Config{
		AllowOrigins:     strings.Split(originsEnv, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	return cors.New(cfg)
}

// warmupRedisCache pré-chauffe le cache Redis pour éviter la latence du premier appel
func warmupRedisCache() {
	ctx := context.Background()
	if err := database.Redis.Ping(ctx).Err(); err == nil {
		log.Println("✅ Cache Redis pré-chauffé")
	}
}
