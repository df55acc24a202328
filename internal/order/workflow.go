package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kits249/storefront-api/internal/payment"
	"github.com/kits249/storefront-api/internal/pricing"
)

// DefaultCountry is applied when an order arrives without a country.
const DefaultCountry = "Sudan"

const currency = "usd"

// ErrValidation flags a malformed order request. Nothing is persisted and no
// gateway call is made when validation fails.
var ErrValidation = errors.New("invalid order request")

// Gateway is the slice of the payment provider the workflow needs.
type Gateway interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*payment.Intent, error)
	VerifyWebhook(payload []byte, sigHeader string) (*payment.Event, error)
}

// Workflow orchestrates pricing, the payment gateway and the order store.
type Workflow struct {
	repo Repository
	gw   Gateway
}

func NewWorkflow(repo Repository, gw Gateway) *Workflow {
	return &Workflow{repo: repo, gw: gw}
}

func validate(req *CreateOrderRequest) error {
	switch {
	case strings.TrimSpace(req.CustomerName) == "":
		return fmt.Errorf("%w: customer_name is required", ErrValidation)
	case strings.TrimSpace(req.CustomerEmail) == "":
		return fmt.Errorf("%w: customer_email is required", ErrValidation)
	case strings.TrimSpace(req.AddressLine1) == "":
		return fmt.Errorf("%w: address_line1 is required", ErrValidation)
	case strings.TrimSpace(req.City) == "":
		return fmt.Errorf("%w: city is required", ErrValidation)
	case len(req.Items) == 0:
		return fmt.Errorf("%w: at least one item is required", ErrValidation)
	}
	for i, it := range req.Items {
		if it.ProductType == "" || it.Color == "" || it.ColorName == "" || it.Size == "" {
			return fmt.Errorf("%w: item %d is missing a descriptive field", ErrValidation, i)
		}
		if it.Quantity < 1 {
			return fmt.Errorf("%w: item %d quantity must be positive", ErrValidation, i)
		}
		if it.Price.IsNegative() {
			return fmt.Errorf("%w: item %d price must not be negative", ErrValidation, i)
		}
	}
	if strings.TrimSpace(req.Country) == "" {
		req.Country = DefaultCountry
	}
	return nil
}

func lineItems(items []CreateOrderItem) []pricing.LineItem {
	out := make([]pricing.LineItem, len(items))
	for i, it := range items {
		out[i] = pricing.LineItem{UnitPrice: it.Price, Quantity: it.Quantity}
	}
	return out
}

// QuoteIntent prices the request and creates a payment intent for the total
// without persisting anything. The returned client secret drives the
// frontend's payment UI.
func (w *Workflow) QuoteIntent(ctx context.Context, req CreateOrderRequest) (string, error) {
	if err := validate(&req); err != nil {
		return "", err
	}
	totals, err := pricing.ComputeTotals(lineItems(req.Items), req.Country)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	in, err := w.gw.CreateIntent(ctx, payment.AmountInCents(totals.Total), currency, map[string]string{
		"customer_email": req.CustomerEmail,
		"customer_name":  req.CustomerName,
	})
	if err != nil {
		return "", err
	}
	log.Printf("[workflow] payment intent %s created for %s %s", in.ID, totals.Total, currency)
	return in.ClientSecret, nil
}

// Create prices the request, secures a payment intent and persists the order
// with its items in one transaction. When the gateway call fails nothing is
// persisted: a pending order nobody can pay for must not exist.
//
// The returned client secret is empty when the request carried a pre-existing
// payment_intent_id.
func (w *Workflow) Create(ctx context.Context, req CreateOrderRequest) (*Order, []Item, string, error) {
	if err := validate(&req); err != nil {
		return nil, nil, "", err
	}
	totals, err := pricing.ComputeTotals(lineItems(req.Items), req.Country)
	if err != nil {
		return nil, nil, "", fmt.Errorf("%w: %v", ErrValidation, err)
	}

	intentID := req.PaymentIntentID
	clientSecret := ""
	if intentID == "" {
		in, err := w.gw.CreateIntent(ctx, payment.AmountInCents(totals.Total), currency, map[string]string{
			"customer_email": req.CustomerEmail,
			"customer_name":  req.CustomerName,
		})
		if err != nil {
			return nil, nil, "", err
		}
		intentID = in.ID
		clientSecret = in.ClientSecret
	}

	o := &Order{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		AddressLine1:    req.AddressLine1,
		AddressLine2:    req.AddressLine2,
		City:            req.City,
		State:           req.State,
		PostalCode:      req.PostalCode,
		Country:         req.Country,
		Subtotal:        totals.Subtotal,
		ShippingCost:    totals.Shipping,
		TaxAmount:       totals.Tax,
		TotalAmount:     totals.Total,
		OrderStatus:     OrderStatusPending,
		PaymentStatus:   PaymentStatusPending,
		PaymentIntentID: intentID,
	}
	items := make([]Item, len(req.Items))
	for i, it := range req.Items {
		items[i] = Item{
			ProductType: it.ProductType,
			Color:       it.Color,
			ColorName:   it.ColorName,
			Size:        it.Size,
			Quantity:    it.Quantity,
			UnitPrice:   it.Price,
			TotalPrice:  it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
		}
	}

	if err := w.repo.Create(ctx, o, items); err != nil {
		return nil, nil, "", fmt.Errorf("persisting order: %w", err)
	}
	log.Printf("[workflow] order %d created for %s total=%s intent=%s", o.ID, o.CustomerEmail, o.TotalAmount, intentID)
	return o, items, clientSecret, nil
}

// ApplyPaymentEvent verifies an inbound provider notification and transitions
// the referenced order. Every path other than signature/payload failure and a
// store failure reports success, so provider retries are not triggered by
// events we have no order for.
//
// A failed payment marks payment_status=failed but leaves the order pending,
// matching the storefront's historical behaviour: the customer may retry the
// charge for the same order.
func (w *Workflow) ApplyPaymentEvent(ctx context.Context, payload []byte, sigHeader string) error {
	ev, err := w.gw.VerifyWebhook(payload, sigHeader)
	if err != nil {
		return err
	}

	switch ev.Kind {
	case payment.KindPaymentSucceeded:
		return w.reconcile(ctx, ev, PaymentStatusPaid, OrderStatusPaid)
	case payment.KindPaymentFailed:
		return w.reconcile(ctx, ev, PaymentStatusFailed, OrderStatusPending)
	default:
		log.Printf("[workflow] ignoring webhook event type=%s", ev.Type)
		return nil
	}
}

func (w *Workflow) reconcile(ctx context.Context, ev *payment.Event, payStatus PaymentStatus, ordStatus OrderStatus) error {
	o, err := w.repo.ApplyPaymentOutcome(ctx, ev.IntentID, payStatus, ordStatus)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Printf("[workflow] WARNING: no order for payment intent %s (event %s), acknowledging anyway", ev.IntentID, ev.Type)
			return nil
		}
		return fmt.Errorf("applying %s for intent %s: %w", ev.Type, ev.IntentID, err)
	}
	log.Printf("[workflow] order %d payment_status=%s order_status=%s (intent %s)", o.ID, o.PaymentStatus, o.OrderStatus, ev.IntentID)
	return nil
}
