package routes

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/Edunzz/monedillo/config"
	"github.com/Edunzz/monedillo/handlers"
	"github.com/Edunzz/monedillo/middleware"
	"github.com/Edunzz/monedillo/services"
)

// SetupWebhookRoutes mounts the Telegram webhook. The path embeds the bot
// token, matching how the webhook is registered with Telegram. Bot tokens
// contain ':', which gin would read as a route parameter, so the route is
// declared as a wildcard segment and the token is matched exactly in the
// guard below.
func SetupWebhookRoutes(router *gin.Engine, cfg *config.Config, client *mongo.Client) {
	store := services.NewMovementStore(client, cfg)
	extractor := services.NewExtractorService(cfg)
	notifier := services.NewTelegramNotifier(cfg)
	formatter := services.NewReportFormatter(cfg.SheetURL)

	h := handlers.NewWebhookHandler(store, extractor, notifier, formatter)

	router.POST("/:token", requireToken(cfg.BotToken, h.HandleWebhook))
}

// requireToken admits a request only when the path segment equals the bot
// token exactly. Anything else gets a bare 404, indistinguishable from an
// unknown route.
func requireToken(token string, next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if subtle.ConstantTimeCompare([]byte(c.Param("token")), []byte(token)) != 1 {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		next(c)
	}
}

// SetupExportRoutes mounts the read-only export feed, rate limited per IP.
func SetupExportRoutes(router *gin.Engine, cfg *config.Config, client *mongo.Client) {
	store := services.NewMovementStore(client, cfg)
	h := handlers.NewExportHandler(store, cfg.ExportPass)

	router.GET("/exportar", middleware.RateLimiter(), h.Export)
}
