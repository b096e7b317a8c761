package controllers

import (
	"net/http"
	"strconv"

	"github.com/suportekambafy-lab/checkout-service/repository"
	"github.com/suportekambafy-lab/checkout-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultEventLimit = 50

// WebhookController is the integrator-facing delivery dashboard: recent
// events, aggregate counters and manual resend. It reads the same rows the
// dispatcher writes; there is no separate bookkeeping.
type WebhookController struct {
	webhookRepo repository.WebhookRepository
	dispatcher  *services.WebhookDispatcher
}

func NewWebhookController(webhookRepo repository.WebhookRepository, dispatcher *services.WebhookDispatcher) *WebhookController {
	return &WebhookController{
		webhookRepo: webhookRepo,
		dispatcher:  dispatcher,
	}
}

// ListEvents returns the most recent delivery records for one integrator.
func (wc *WebhookController) ListEvents(ctx *gin.Context) {
	userID, ok := integratorID(ctx)
	if !ok {
		return
	}

	limit := defaultEventLimit
	if l, err := strconv.Atoi(ctx.DefaultQuery("limit", "50")); err == nil && l > 0 && l <= 200 {
		limit = l
	}

	events, err := wc.webhookRepo.ListRecentByIntegrator(ctx.Request.Context(), userID, limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch webhook events"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"events": events})
}

// Stats returns the aggregate delivery counters for one integrator.
func (wc *WebhookController) Stats(ctx *gin.Context) {
	userID, ok := integratorID(ctx)
	if !ok {
		return
	}

	stats, err := wc.webhookRepo.StatsByIntegrator(ctx.Request.Context(), userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute webhook stats"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"stats": stats})
}

// Resend re-attempts delivery of one recorded event. Operator-triggered
// only; there is no automatic retry loop behind this.
func (wc *WebhookController) Resend(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID format"})
		return
	}

	result := wc.dispatcher.Resend(ctx.Request.Context(), eventID)
	if !result.Success {
		ctx.JSON(http.StatusBadGateway, result)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func integratorID(ctx *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(ctx.Query("user_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return uuid.Nil, false
	}
	return userID, true
}
