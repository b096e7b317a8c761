package controllers

import (
	"errors"
	"net/http"

	"github.com/suportekambafy-lab/checkout-service/repository"
	"github.com/suportekambafy-lab/checkout-service/services"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orderService *services.OrderService
}

func NewOrderController(orderService *services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// CreateOrder creates a pending order awaiting payment confirmation.
func (oc *OrderController) CreateOrder(ctx *gin.Context) {
	var req services.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, err := oc.orderService.CreateOrder(ctx.Request.Context(), &req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"order": order})
}

// GetOrderByCode returns one order by its human-shareable code.
func (oc *OrderController) GetOrderByCode(ctx *gin.Context) {
	order, err := oc.orderService.GetOrderByCode(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// ListCustomerAccess returns the access grants for a customer email.
func (oc *OrderController) ListCustomerAccess(ctx *gin.Context) {
	email := ctx.Query("email")
	if email == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	accesses, err := oc.orderService.ListCustomerAccess(ctx.Request.Context(), email)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch accesses"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"accesses": accesses})
}
