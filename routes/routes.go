package routes

import (
	"net/http"

	"github.com/suportekambafy-lab/checkout-service/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.Engine,
	oc *controllers.OrderController,
	cc *controllers.ConfirmationController,
	wc *controllers.WebhookController,
) {
	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	orders := r.Group("/orders")
	orders.POST("", oc.CreateOrder)
	orders.GET("/:code", oc.GetOrderByCode)

	r.GET("/accesses", oc.ListCustomerAccess)

	// Payment confirmation callback (no auth; collaborator-facing)
	r.POST("/payments/confirmation", cc.ConfirmPayment)

	webhooks := r.Group("/webhooks")
	webhooks.GET("", wc.ListEvents)
	webhooks.GET("/stats", wc.Stats)
	webhooks.POST("/:id/resend", wc.Resend)
}
