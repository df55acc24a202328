package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kits249/storefront-api/internal/order"
	"github.com/kits249/storefront-api/internal/payment"
	"github.com/kits249/storefront-api/internal/pricing"
)

func writeWorkflowError(c *gin.Context, err error) {
	var gwErr *payment.GatewayError
	switch {
	case errors.Is(err, order.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &gwErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": gwErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// createPaymentIntentHandler godoc
// @Summary     Create a payment intent for a prospective order
// @Description Prices the items and shipping, reserves the charge with the payment provider and returns the client secret. Nothing is persisted.
// @Accept      json
// @Produce     json
// @Param       order body order.CreateOrderRequest true "order to price"
// @Success     200 {object} map[string]string
// @Failure     400 {object} map[string]string
// @Failure     502 {object} map[string]string
// @Router      /create-payment-intent [post]
func createPaymentIntentHandler(wf *order.Workflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		secret, err := wf.QuoteIntent(c.Request.Context(), req)
		if err != nil {
			writeWorkflowError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"client_secret": secret})
	}
}

// createOrderHandler godoc
// @Summary     Create an order
// @Description Prices the order, secures a payment intent when the request does not already carry one, and persists the order with its items atomically.
// @Accept      json
// @Produce     json
// @Param       order body order.CreateOrderRequest true "order payload"
// @Success     201 {object} order.OrderResponse
// @Failure     400 {object} map[string]string
// @Failure     502 {object} map[string]string
// @Router      /orders [post]
func createOrderHandler(wf *order.Workflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		o, _, clientSecret, err := wf.Create(c.Request.Context(), req)
		if err != nil {
			writeWorkflowError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order.NewOrderResponse(o, clientSecret))
	}
}

// getOrderHandler godoc
// @Summary  Fetch one order with its items
// @Produce  json
// @Param    id path int true "order id"
// @Success  200 {object} order.OrderDetailResponse
// @Failure  404 {object} map[string]string
// @Router   /orders/{id} [get]
func getOrderHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}
		o, items, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, order.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, order.NewOrderDetailResponse(o, items))
	}
}

// listOrdersHandler godoc
// @Summary  List orders for a customer email
// @Produce  json
// @Param    email query string true "customer email"
// @Success  200 {array} order.OrderResponse
// @Failure  400 {object} map[string]string
// @Router   /orders [get]
func listOrdersHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Query("email")
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
			return
		}
		orders, err := repo.ListByEmail(c.Request.Context(), email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		out := make([]order.OrderResponse, 0, len(orders))
		for i := range orders {
			out = append(out, order.NewOrderResponse(&orders[i], ""))
		}
		c.JSON(http.StatusOK, out)
	}
}

// shippingZonesHandler godoc
// @Summary  List shipping zones and flat rates
// @Produce  json
// @Success  200 {array} pricing.Zone
// @Router   /shipping-zones [get]
func shippingZonesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, pricing.Zones())
	}
}

// stripeWebhookHandler godoc
// @Summary     Receive Stripe payment events
// @Description Verifies the signature and reconciles the referenced order. Unmatched or unrecognised events are acknowledged with success so the provider does not retry them.
// @Accept      json
// @Produce     json
// @Success     200 {object} map[string]string
// @Failure     400 {object} map[string]string
// @Router      /stripe-webhook [post]
func stripeWebhookHandler(wf *order.Workflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read body"})
			return
		}
		sig := c.GetHeader("Stripe-Signature")
		if err := wf.ApplyPaymentEvent(c.Request.Context(), payload, sig); err != nil {
			if errors.Is(err, payment.ErrInvalidSignature) || errors.Is(err, payment.ErrMalformedPayload) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	}
}
