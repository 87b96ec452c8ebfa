package handlers

import (
	"context"
	"log"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Edunzz/monedillo/models"
	"github.com/Edunzz/monedillo/services"
)

// Collaborator interfaces so tests can swap in fakes.

type Extractor interface {
	Extract(ctx context.Context, texto string) services.ExtractionResult
}

type MovementStore interface {
	Insert(ctx context.Context, chatID int64, tipo string, monto float64, categoria, mensajeOriginal string) error
	Saldo(ctx context.Context, chatID int64, categoria string) (float64, error)
	ReporteGeneral(ctx context.Context, chatID int64) ([]models.CategoriaBalance, error)
}

type Notifier interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type WebhookHandler struct {
	Store     MovementStore
	Extractor Extractor
	Notifier  Notifier
	Formatter *services.ReportFormatter
}

func NewWebhookHandler(store MovementStore, extractor Extractor, notifier Notifier, formatter *services.ReportFormatter) *WebhookHandler {
	return &WebhookHandler{
		Store:     store,
		Extractor: extractor,
		Notifier:  notifier,
		Formatter: formatter,
	}
}

// telegramUpdate is the slice of the Bot API update payload this bot
// cares about.
type telegramUpdate struct {
	Message struct {
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		Text string `json:"text"`
	} `json:"message"`
}

type intentKind int

const (
	intentEmpty intentKind = iota
	intentReporteGeneral
	intentReporteCategoria
	intentRegistrarMovimiento
)

type messageIntent struct {
	kind      intentKind
	categoria string
}

// classifyMessage decides, once, which path a message takes. Matching is
// case-insensitive over the trimmed text; anything that is not a report
// request goes to the extraction path.
func classifyMessage(text string) messageIntent {
	trimmed := strings.ToLower(strings.TrimSpace(text))

	switch trimmed {
	case "":
		return messageIntent{kind: intentEmpty}
	case "reporte", "reporte general", "todo":
		return messageIntent{kind: intentReporteGeneral}
	}

	if strings.HasPrefix(trimmed, "reporte de ") {
		categoria := strings.TrimSpace(strings.TrimPrefix(trimmed, "reporte de "))
		return messageIntent{kind: intentReporteCategoria, categoria: categoria}
	}

	return messageIntent{kind: intentRegistrarMovimiento}
}

// HandleWebhook processes one Telegram update end to end: classify,
// query or record, reply. The notifier outcome is deliberately not
// surfaced to Telegram's webhook delivery; store failures are.
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	var update telegramUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		log.Printf("❌ Invalid webhook payload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)
	intent := classifyMessage(text)

	if intent.kind == intentEmpty {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	msg, err := h.buildReply(c.Request.Context(), chatID, text, intent)
	if err != nil {
		log.Printf("❌ Webhook processing failed (chat %d): %v", chatID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Fire-and-forget: a lost reply is acceptable, a webhook retry loop
	// from Telegram is not.
	if err := h.Notifier.SendMessage(c.Request.Context(), chatID, msg); err != nil {
		log.Printf("⚠️ Failed to notify chat %d: %v", chatID, err)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *WebhookHandler) buildReply(ctx context.Context, chatID int64, text string, intent messageIntent) (string, error) {
	switch intent.kind {
	case intentReporteGeneral:
		saldos, err := h.Store.ReporteGeneral(ctx, chatID)
		if err != nil {
			return "", err
		}
		return h.Formatter.ReporteGeneral(saldos), nil

	case intentReporteCategoria:
		if !models.IsValidCategoria(intent.categoria) {
			return h.Formatter.CategoriaInvalida(), nil
		}
		saldo, err := h.Store.Saldo(ctx, chatID, intent.categoria)
		if err != nil {
			return "", err
		}
		return h.Formatter.SaldoCategoria(intent.categoria, saldo), nil

	default:
		return h.recordMovement(ctx, chatID, text)
	}
}

func (h *WebhookHandler) recordMovement(ctx context.Context, chatID int64, text string) (string, error) {
	result := h.Extractor.Extract(ctx, text)
	if !result.OK() {
		log.Printf("⚠️ Extraction failed (chat %d): %v | raw: %q", chatID, result.Err, result.RawText)
		return h.Formatter.NoInterpretado(), nil
	}
	if !models.IsValidCategoria(result.Categoria) {
		log.Printf("⚠️ Extraction returned unknown category %q (chat %d)", result.Categoria, chatID)
		return h.Formatter.NoInterpretado(), nil
	}

	// Sign is carried by tipo alone; monto is always stored positive.
	monto := math.Abs(result.Monto)
	tipo := models.TipoGasto
	if result.Tipo == models.TipoIngreso {
		tipo = models.TipoIngreso
	}

	if err := h.Store.Insert(ctx, chatID, tipo, monto, result.Categoria, text); err != nil {
		return "", err
	}
	log.Printf("💾 Guardado: %s S/ %.2f en %s (%d)", tipo, monto, result.Categoria, chatID)

	saldo, err := h.Store.Saldo(ctx, chatID, result.Categoria)
	if err != nil {
		return "", err
	}
	return h.Formatter.MovimientoRegistrado(tipo, monto, result.Categoria, saldo), nil
}
