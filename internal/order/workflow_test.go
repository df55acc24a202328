package order

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/kits249/storefront-api/internal/payment"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// memRepo implements Repository in memory, with an optional injected create
// failure to simulate a broken store.
type memRepo struct {
	nextID     int64
	orders     map[int64]*Order
	items      map[int64][]Item
	failCreate error
}

func newMemRepo() *memRepo {
	return &memRepo{nextID: 1, orders: map[int64]*Order{}, items: map[int64][]Item{}}
}

func (m *memRepo) Create(ctx context.Context, o *Order, items []Item) error {
	if m.failCreate != nil {
		// all-or-nothing: nothing becomes visible
		return m.failCreate
	}
	o.ID = m.nextID
	m.nextID++
	cp := *o
	m.orders[o.ID] = &cp
	for i := range items {
		items[i].OrderID = o.ID
	}
	m.items[o.ID] = append([]Item(nil), items...)
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, id int64) (*Order, []Item, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, nil, ErrNotFound
	}
	cp := *o
	return &cp, m.items[id], nil
}

func (m *memRepo) ListByEmail(ctx context.Context, email string) ([]Order, error) {
	var out []Order
	for _, o := range m.orders {
		if o.CustomerEmail == email {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memRepo) ApplyPaymentOutcome(ctx context.Context, intentID string, payStatus PaymentStatus, ordStatus OrderStatus) (*Order, error) {
	for _, o := range m.orders {
		if o.PaymentIntentID == intentID {
			if o.PaymentStatus != PaymentStatusPending {
				cp := *o
				return &cp, nil
			}
			o.PaymentStatus = payStatus
			o.OrderStatus = ordStatus
			cp := *o
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// fakeGateway counts intent creations and replays webhook payloads unverified.
type fakeGateway struct {
	intents    int
	lastCents  int64
	failIntent error
}

func (f *fakeGateway) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*payment.Intent, error) {
	if f.failIntent != nil {
		return nil, f.failIntent
	}
	f.intents++
	f.lastCents = amountCents
	id := fmt.Sprintf("pi_fake_%d", f.intents)
	return &payment.Intent{ID: id, ClientSecret: id + "_secret"}, nil
}

func (f *fakeGateway) VerifyWebhook(payload []byte, sigHeader string) (*payment.Event, error) {
	c := payment.NewClient(payment.Config{}) // dev mode: decode only
	return c.VerifyWebhook(payload, sigHeader)
}

func validRequest() CreateOrderRequest {
	return CreateOrderRequest{
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		AddressLine1:  "1 Main St",
		City:          "Portland",
		Country:       "US",
		Items: []CreateOrderItem{
			{ProductType: "jersey", Color: "#0b7a3e", ColorName: "Green", Size: "M", Quantity: 2, Price: d("25.00")},
		},
	}
}

func succeededEvent(intentID string) []byte {
	return []byte(fmt.Sprintf(`{"type":"payment_intent.succeeded","data":{"object":{"id":"%s"}}}`, intentID))
}

func failedEvent(intentID string) []byte {
	return []byte(fmt.Sprintf(`{"type":"payment_intent.payment_failed","data":{"object":{"id":"%s"}}}`, intentID))
}

func TestCreateComputesTotals(t *testing.T) {
	repo, gw := newMemRepo(), &fakeGateway{}
	w := NewWorkflow(repo, gw)

	o, items, secret, err := w.Create(context.Background(), validRequest())
	require.NoError(t, err)
	require.True(t, o.Subtotal.Equal(d("50.00")))
	require.True(t, o.ShippingCost.Equal(d("10.00")))
	require.True(t, o.TaxAmount.IsZero())
	require.True(t, o.TotalAmount.Equal(d("60.00")))
	require.Equal(t, OrderStatusPending, o.OrderStatus)
	require.Equal(t, PaymentStatusPending, o.PaymentStatus)
	require.Len(t, items, 1)
	require.True(t, items[0].TotalPrice.Equal(d("50.00")))
	require.NotEmpty(t, o.PaymentIntentID)
	require.NotEmpty(t, secret)
	require.Equal(t, int64(6000), gw.lastCents)
}

func TestCreateRestOfWorldShipping(t *testing.T) {
	repo, gw := newMemRepo(), &fakeGateway{}
	w := NewWorkflow(repo, gw)

	req := validRequest()
	req.Country = "France"
	o, _, _, err := w.Create(context.Background(), req)
	require.NoError(t, err)
	require.True(t, o.ShippingCost.Equal(d("20.00")))
	require.True(t, o.TotalAmount.Equal(d("70.00")))
}

func TestCreateDefaultsCountry(t *testing.T) {
	repo, gw := newMemRepo(), &fakeGateway{}
	w := NewWorkflow(repo, gw)

	req := validRequest()
	req.Country = ""
	o, _, _, err := w.Create(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, DefaultCountry, o.Country)
	require.True(t, o.ShippingCost.Equal(d("20.00")))
}

func TestCreateReusesProvidedIntent(t *testing.T) {
	repo, gw := newMemRepo(), &fakeGateway{}
	w := NewWorkflow(repo, gw)

	req := validRequest()
	req.PaymentIntentID = "pi_from_frontend"
	o, _, secret, err := w.Create(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "pi_from_frontend", o.PaymentIntentID)
	require.Empty(t, secret)
	require.Zero(t, gw.intents)
}

func TestCreateGatewayFailureNothingPersisted(t *testing.T) {
	repo := newMemRepo()
	gw := &fakeGateway{failIntent: &payment.GatewayError{Message: "stripe down"}}
	w := NewWorkflow(repo, gw)

	_, _, _, err := w.Create(context.Background(), validRequest())
	var gwErr *payment.GatewayError
	require.ErrorAs(t, err, &gwErr)
	require.Empty(t, repo.orders)
}

func TestCreateStoreFailureSurfaced(t *testing.T) {
	repo := newMemRepo()
	repo.failCreate = fmt.Errorf("connection reset")
	w := NewWorkflow(repo, &fakeGateway{})

	_, _, _, err := w.Create(context.Background(), validRequest())
	require.Error(t, err)
	// atomic: the failed write left nothing visible
	got, _ := repo.ListByEmail(context.Background(), "jane@example.com")
	require.Empty(t, got)
}

func TestCreateValidation(t *testing.T) {
	w := NewWorkflow(newMemRepo(), &fakeGateway{})

	tests := []func(*CreateOrderRequest){
		func(r *CreateOrderRequest) { r.CustomerName = "" },
		func(r *CreateOrderRequest) { r.CustomerEmail = "" },
		func(r *CreateOrderRequest) { r.AddressLine1 = "" },
		func(r *CreateOrderRequest) { r.City = "" },
		func(r *CreateOrderRequest) { r.Items = nil },
		func(r *CreateOrderRequest) { r.Items[0].Quantity = 0 },
		func(r *CreateOrderRequest) { r.Items[0].Price = d("-5.00") },
		func(r *CreateOrderRequest) { r.Items[0].Size = "" },
	}
	for i, mutate := range tests {
		req := validRequest()
		mutate(&req)
		_, _, _, err := w.Create(context.Background(), req)
		require.ErrorIsf(t, err, ErrValidation, "case %d", i)
	}
}

func TestQuoteIntent(t *testing.T) {
	gw := &fakeGateway{}
	w := NewWorkflow(newMemRepo(), gw)

	secret, err := w.QuoteIntent(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotEmpty(t, secret)
	require.Equal(t, int64(6000), gw.lastCents)
}

func TestApplyPaymentSucceeded(t *testing.T) {
	repo, gw := newMemRepo(), &fakeGateway{}
	w := NewWorkflow(repo, gw)

	o, _, _, err := w.Create(context.Background(), validRequest())
	require.NoError(t, err)

	require.NoError(t, w.ApplyPaymentEvent(context.Background(), succeededEvent(o.PaymentIntentID), ""))

	got, _, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	require.Equal(t, OrderStatusPaid, got.OrderStatus)
	require.Equal(t, PaymentStatusPaid, got.PaymentStatus)
}

func TestApplyPaymentSucceededIdempotent(t *testing.T) {
	repo, gw := newMemRepo(), &fakeGateway{}
	w := NewWorkflow(repo, gw)

	o, _, _, err := w.Create(context.Background(), validRequest())
	require.NoError(t, err)

	ev := succeededEvent(o.PaymentIntentID)
	require.NoError(t, w.ApplyPaymentEvent(context.Background(), ev, ""))
	require.NoError(t, w.ApplyPaymentEvent(context.Background(), ev, ""))

	got, _, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	require.Equal(t, OrderStatusPaid, got.OrderStatus)
	require.Equal(t, PaymentStatusPaid, got.PaymentStatus)
}

func TestApplyPaymentFailedLeavesOrderPending(t *testing.T) {
	repo, gw := newMemRepo(), &fakeGateway{}
	w := NewWorkflow(repo, gw)

	o, _, _, err := w.Create(context.Background(), validRequest())
	require.NoError(t, err)

	require.NoError(t, w.ApplyPaymentEvent(context.Background(), failedEvent(o.PaymentIntentID), ""))

	got, _, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	require.Equal(t, PaymentStatusFailed, got.PaymentStatus)
	require.Equal(t, OrderStatusPending, got.OrderStatus)
}

func TestApplyPaymentFailedThenSucceededIsNoop(t *testing.T) {
	repo, gw := newMemRepo(), &fakeGateway{}
	w := NewWorkflow(repo, gw)

	o, _, _, err := w.Create(context.Background(), validRequest())
	require.NoError(t, err)

	require.NoError(t, w.ApplyPaymentEvent(context.Background(), failedEvent(o.PaymentIntentID), ""))
	require.NoError(t, w.ApplyPaymentEvent(context.Background(), succeededEvent(o.PaymentIntentID), ""))

	got, _, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	require.Equal(t, PaymentStatusFailed, got.PaymentStatus)
}

func TestApplyPaymentUnknownIntentAcknowledged(t *testing.T) {
	repo, gw := newMemRepo(), &fakeGateway{}
	w := NewWorkflow(repo, gw)

	require.NoError(t, w.ApplyPaymentEvent(context.Background(), failedEvent("pi_nobody"), ""))
	require.Empty(t, repo.orders)
}

func TestApplyPaymentIgnoresOtherEventKinds(t *testing.T) {
	repo, gw := newMemRepo(), &fakeGateway{}
	w := NewWorkflow(repo, gw)

	o, _, _, err := w.Create(context.Background(), validRequest())
	require.NoError(t, err)

	payload := []byte(fmt.Sprintf(`{"type":"charge.refunded","data":{"object":{"id":"%s"}}}`, o.PaymentIntentID))
	require.NoError(t, w.ApplyPaymentEvent(context.Background(), payload, ""))

	got, _, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	require.Equal(t, PaymentStatusPending, got.PaymentStatus)
}

func TestApplyPaymentMalformedPayload(t *testing.T) {
	w := NewWorkflow(newMemRepo(), &fakeGateway{})
	err := w.ApplyPaymentEvent(context.Background(), []byte("not json"), "")
	require.ErrorIs(t, err, payment.ErrMalformedPayload)
}
