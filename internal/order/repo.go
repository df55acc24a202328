// Package order owns the order records and the payment-reconciliation
// workflow around them.
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("order not found")
)

type Repository interface {
	// Create persists the order and its items atomically and fills in the
	// assigned id and creation time.
	Create(ctx context.Context, o *Order, items []Item) error
	GetByID(ctx context.Context, id int64) (*Order, []Item, error)
	ListByEmail(ctx context.Context, email string) ([]Order, error)
	// ApplyPaymentOutcome locates the order holding intentID and moves it to
	// the given statuses, all under one row lock so concurrent provider
	// retries serialize. An order whose payment status already left pending
	// is returned unchanged. Returns ErrNotFound when no order references
	// intentID.
	ApplyPaymentOutcome(ctx context.Context, intentID string, payStatus PaymentStatus, ordStatus OrderStatus) (*Order, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const orderColumns = `
    id, customer_name, customer_email, customer_phone,
    address_line1, address_line2, city, state, postal_code, country,
    subtotal::text, shipping_cost::text, tax_amount::text, total_amount::text,
    order_status, payment_status, COALESCE(payment_intent_id, ''), created_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var sub, ship, tax, total string
	if err := row.Scan(
		&o.ID, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
		&o.AddressLine1, &o.AddressLine2, &o.City, &o.State, &o.PostalCode, &o.Country,
		&sub, &ship, &tax, &total,
		&o.OrderStatus, &o.PaymentStatus, &o.PaymentIntentID, &o.CreatedAt,
	); err != nil {
		return nil, err
	}
	var err error
	if o.Subtotal, err = decimal.NewFromString(sub); err != nil {
		return nil, fmt.Errorf("bad subtotal %q: %w", sub, err)
	}
	if o.ShippingCost, err = decimal.NewFromString(ship); err != nil {
		return nil, fmt.Errorf("bad shipping_cost %q: %w", ship, err)
	}
	if o.TaxAmount, err = decimal.NewFromString(tax); err != nil {
		return nil, fmt.Errorf("bad tax_amount %q: %w", tax, err)
	}
	if o.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("bad total_amount %q: %w", total, err)
	}
	return &o, nil
}

func (r *PGRepo) Create(ctx context.Context, o *Order, items []Item) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.QueryRow(ctx, `
    INSERT INTO orders (
      customer_name, customer_email, customer_phone,
      address_line1, address_line2, city, state, postal_code, country,
      subtotal, shipping_cost, tax_amount, total_amount,
      order_status, payment_status, payment_intent_id, created_at
    ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,NULLIF($16,''),NOW())
    RETURNING id, created_at
  `,
		o.CustomerName, o.CustomerEmail, o.CustomerPhone,
		o.AddressLine1, o.AddressLine2, o.City, o.State, o.PostalCode, o.Country,
		o.Subtotal.String(), o.ShippingCost.String(), o.TaxAmount.String(), o.TotalAmount.String(),
		string(o.OrderStatus), string(o.PaymentStatus), o.PaymentIntentID,
	).Scan(&o.ID, &o.CreatedAt); err != nil {
		return err
	}

	for i := range items {
		items[i].OrderID = o.ID
		if err := tx.QueryRow(ctx, `
      INSERT INTO order_items (order_id, product_type, color, color_name, size, quantity, unit_price, total_price)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
      RETURNING id
    `, o.ID, items[i].ProductType, items[i].Color, items[i].ColorName, items[i].Size,
			items[i].Quantity, items[i].UnitPrice.String(), items[i].TotalPrice.String(),
		).Scan(&items[i].ID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*Order, []Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT`+orderColumns+` FROM orders WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	rows, err := r.db.Query(ctx, `
    SELECT id, order_id, product_type, color, color_name, size, quantity, unit_price::text, total_price::text
    FROM order_items WHERE order_id=$1
  `, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		var unit, total string
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductType, &it.Color, &it.ColorName,
			&it.Size, &it.Quantity, &unit, &total); err != nil {
			return nil, nil, err
		}
		if it.UnitPrice, err = decimal.NewFromString(unit); err != nil {
			return nil, nil, err
		}
		if it.TotalPrice, err = decimal.NewFromString(total); err != nil {
			return nil, nil, err
		}
		items = append(items, it)
	}
	return o, items, rows.Err()
}

func (r *PGRepo) ListByEmail(ctx context.Context, email string) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT`+orderColumns+` FROM orders WHERE customer_email=$1`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *PGRepo) ApplyPaymentOutcome(ctx context.Context, intentID string, payStatus PaymentStatus, ordStatus OrderStatus) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o, err := scanOrder(tx.QueryRow(ctx,
		`SELECT`+orderColumns+` FROM orders WHERE payment_intent_id=$1 FOR UPDATE`, intentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// Re-delivered events see a non-pending payment status and change nothing.
	if o.PaymentStatus != PaymentStatusPending {
		return o, tx.Commit(ctx)
	}

	if _, err := tx.Exec(ctx, `
    UPDATE orders SET payment_status=$2, order_status=$3 WHERE id=$1
  `, o.ID, string(payStatus), string(ordStatus)); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	o.PaymentStatus = payStatus
	o.OrderStatus = ordStatus
	return o, nil
}
