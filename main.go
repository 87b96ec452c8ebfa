package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/Edunzz/monedillo/config"
	"github.com/Edunzz/monedillo/routes"
	"github.com/Edunzz/monedillo/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	gin.SetMode(cfg.GinMode)

	client, err := config.InitMongo(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB: ", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("❌ Mongo disconnect failed: %v", err)
		}
	}()

	log.Println("✅ MongoDB connected successfully")

	router := gin.Default()

	// The export feed is read from browser/Sheets contexts; the webhook
	// is server-to-server, so GET is all CORS needs to cover.
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type"},
		MaxAge:          24 * time.Hour,
	}))

	router.Use(requestLogger())

	routes.SetupWebhookRoutes(router, cfg, client)
	routes.SetupExportRoutes(router, cfg, client)

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Bot activo con MongoDB y OpenRouter ✅"})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("🚀 Server starting on port %s...", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown failed: %v", err)
	}
}

// requestLogger logs one line per request. Paths go through the masking
// helper because the webhook path contains the bot token.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set("request_id", requestID)

		c.Next()

		utils.SafeLog("📨 [%s] %s %s from %s - %d (%v)",
			requestID[:8],
			c.Request.Method,
			utils.MaskPath(c.Request.URL.Path),
			c.ClientIP(),
			c.Writer.Status(),
			time.Since(start),
		)
	}
}
