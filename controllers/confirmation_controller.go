package controllers

import (
	"errors"
	"net/http"

	"github.com/suportekambafy-lab/checkout-service/repository"
	"github.com/suportekambafy-lab/checkout-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ConfirmationController struct {
	completionService *services.CompletionService
	logger            *zap.Logger
}

func NewConfirmationController(completionService *services.CompletionService, logger *zap.Logger) *ConfirmationController {
	return &ConfirmationController{
		completionService: completionService,
		logger:            logger,
	}
}

type paymentConfirmationRequest struct {
	OrderID uuid.UUID `json:"order_id" binding:"required"`
	Status  string    `json:"status" binding:"required"`
}

// ConfirmPayment consumes a payment confirmation from the external payment
// collaborator and drives the order state machine.
func (cc *ConfirmationController) ConfirmPayment(ctx *gin.Context) {
	var req paymentConfirmationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	result, err := cc.completionService.CompleteOrder(ctx.Request.Context(), req.OrderID, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		if result != nil {
			// Transitioned, but ledger or entitlement did not land. The
			// confirmation must not be acked as fully processed.
			cc.logger.Error("Completion post-processing failed",
				zap.String("order_id", req.OrderID.String()),
				zap.Error(err),
			)
			ctx.JSON(http.StatusInternalServerError, gin.H{
				"error":  "Order completed but processing failed",
				"result": result,
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process confirmation"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"result": result})
}
