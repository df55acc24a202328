package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderItem payload for one purchased line.
// swagger:model CreateOrderItem
type CreateOrderItem struct {
	ProductType string          `json:"product_type" binding:"required" example:"jersey"`
	Color       string          `json:"color"        binding:"required" example:"#0b7a3e"`
	ColorName   string          `json:"color_name"   binding:"required" example:"Forest Green"`
	Size        string          `json:"size"         binding:"required" example:"M"`
	Quantity    int             `json:"quantity"     binding:"required,min=1" example:"2"`
	Price       decimal.Decimal `json:"price" swaggertype:"number" example:"25.00"`
}

// CreateOrderRequest payload for order creation.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	CustomerName  string `json:"customer_name"  binding:"required" example:"Jane Doe"`
	CustomerEmail string `json:"customer_email" binding:"required,email" example:"jane@example.com"`
	CustomerPhone string `json:"customer_phone" example:"+1 555 0100"`

	AddressLine1 string `json:"address_line1" binding:"required" example:"1 Main St"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" binding:"required" example:"Portland"`
	State        string `json:"state" example:"OR"`
	PostalCode   string `json:"postal_code" example:"97201"`
	// Country defaults to "Sudan" when left empty.
	Country string `json:"country" example:"US"`

	// PaymentIntentID lets the frontend reuse an intent it already created
	// through /api/create-payment-intent.
	PaymentIntentID string `json:"payment_intent_id" example:"pi_3MtwBwLkdIwHu7ix28a3tqPa"`

	Items []CreateOrderItem `json:"items" binding:"required,min=1,dive"`
}

// OrderResponse is the client-facing view of a stored order.
// swagger:model OrderResponse
type OrderResponse struct {
	ID              int64           `json:"id" example:"42"`
	CustomerName    string          `json:"customer_name" example:"Jane Doe"`
	CustomerEmail   string          `json:"customer_email" example:"jane@example.com"`
	TotalAmount     decimal.Decimal `json:"total_amount" swaggertype:"number" example:"60.00"`
	OrderStatus     OrderStatus     `json:"order_status" example:"pending"`
	PaymentStatus   PaymentStatus   `json:"payment_status" example:"pending"`
	PaymentIntentID string          `json:"payment_intent_id,omitempty"`
	// ClientSecret is only present right after creation, when this service
	// created the payment intent itself.
	ClientSecret string    `json:"client_secret,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// OrderDetailResponse is an order plus its line items.
// swagger:model OrderDetailResponse
type OrderDetailResponse struct {
	OrderResponse
	Items []Item `json:"items"`
}

func NewOrderDetailResponse(o *Order, items []Item) OrderDetailResponse {
	return OrderDetailResponse{OrderResponse: NewOrderResponse(o, ""), Items: items}
}

func NewOrderResponse(o *Order, clientSecret string) OrderResponse {
	return OrderResponse{
		ID:              o.ID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		TotalAmount:     o.TotalAmount,
		OrderStatus:     o.OrderStatus,
		PaymentStatus:   o.PaymentStatus,
		PaymentIntentID: o.PaymentIntentID,
		ClientSecret:    clientSecret,
		CreatedAt:       o.CreatedAt,
	}
}
