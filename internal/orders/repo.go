package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

var ErrNotFound = errors.New("order not found")

const orderColumns = `id, store_slug, order_number, customer_name, customer_phone, customer_email,
	items, total_cents, currency, status, notes, created_at, updated_at, completed_at`

// Create persists a new pending order inside one transaction. The ticket
// sequence comes from an upsert-increment on order_counters keyed by
// (store_slug, day), so two concurrent submissions for the same store can
// never mint the same order_number.
func (r *Repo) Create(ctx context.Context, p CreateParams) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var seq int
	err = tx.QueryRow(ctx, `
		INSERT INTO order_counters (store_slug, day, seq)
		VALUES ($1, CURRENT_DATE, 1)
		ON CONFLICT (store_slug, day) DO UPDATE SET seq = order_counters.seq + 1
		RETURNING seq
	`, p.StoreSlug).Scan(&seq)
	if err != nil {
		return Order{}, fmt.Errorf("next order number: %w", err)
	}

	items, err := json.Marshal(p.Items)
	if err != nil {
		return Order{}, fmt.Errorf("encode items: %w", err)
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO orders (id, store_slug, order_number, customer_name, customer_phone,
			customer_email, items, total_cents, currency, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'pending')
		RETURNING `+orderColumns,
		uuid.NewString(), p.StoreSlug, FormatNumber(p.StoreSlug, seq),
		nullable(p.CustomerName), nullable(p.CustomerPhone), nullable(p.CustomerEmail),
		items, p.TotalCents, p.Currency, nullable(p.Notes),
	)
	o, err := scanOrder(row)
	if err != nil {
		return Order{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return o, nil
}

const updateStatusSQL = `
	UPDATE orders
	SET status = $2,
	    completed_at = CASE WHEN $2 = 'completed' THEN now() ELSE NULL END,
	    updated_at = now()
	WHERE id = $1
	RETURNING ` + orderColumns

// UpdateStatus replaces the status of an order. Moving into completed stamps
// completed_at; moving anywhere else clears it, including when a completed
// order is reopened.
func (r *Repo) UpdateStatus(ctx context.Context, id string, status Status) (Order, error) {
	row := r.DB.QueryRow(ctx, updateStatusSQL, id, string(status))
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return o, err
}

func (r *Repo) Get(ctx context.Context, id string) (Order, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return o, err
}

// List returns recent orders for the staff board, newest first.
func (r *Repo) List(ctx context.Context, f ListFilter) ([]Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	var args []any
	if f.StoreSlug != "" {
		args = append(args, f.StoreSlug)
		q += fmt.Sprintf(" AND store_slug = $%d", len(args))
	}
	if len(f.Statuses) > 0 {
		args = append(args, f.Statuses)
		q += fmt.Sprintf(" AND status = ANY($%d)", len(args))
	}
	q += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

// History runs the count and page queries over the same predicate so the
// returned total always matches the filter.
func (r *Repo) History(ctx context.Context, f HistoryFilter) (HistoryPage, error) {
	where, args := historyPredicate(f)

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return HistoryPage{}, err
	}

	pageArgs := append(args, f.Limit, f.Offset)
	q := fmt.Sprintf(`SELECT `+orderColumns+` FROM orders`+where+
		` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := r.DB.Query(ctx, q, pageArgs...)
	if err != nil {
		return HistoryPage{}, err
	}
	defer rows.Close()

	out, err := collectOrders(rows)
	if err != nil {
		return HistoryPage{}, err
	}
	return HistoryPage{Orders: out, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

func historyPredicate(f HistoryFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where += fmt.Sprintf(" AND "+cond, len(args))
	}
	if f.Start != nil {
		add("created_at >= $%d", *f.Start)
	}
	if f.End != nil {
		add("created_at <= $%d", *f.End)
	}
	if f.StoreSlug != "" {
		add("store_slug = $%d", f.StoreSlug)
	}
	if len(f.Statuses) > 0 {
		add("status = ANY($%d)", f.Statuses)
	}
	if f.OrderNumber != "" {
		add("order_number ILIKE $%d", "%"+f.OrderNumber+"%")
	}
	return where, args
}

func collectOrders(rows pgx.Rows) ([]Order, error) {
	out := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	var items []byte
	err := row.Scan(&o.ID, &o.StoreSlug, &o.OrderNumber, &o.CustomerName, &o.CustomerPhone,
		&o.CustomerEmail, &items, &o.TotalCents, &o.Currency, &o.Status, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt, &o.CompletedAt)
	if err != nil {
		return Order{}, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return Order{}, fmt.Errorf("decode items: %w", err)
	}
	return o, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
