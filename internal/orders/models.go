package orders

import "time"

type Order struct {
	ID            string      `json:"id"`
	StoreSlug     string      `json:"store_slug"`
	OrderNumber   string      `json:"order_number"`
	CustomerName  *string     `json:"customer_name"`
	CustomerPhone *string     `json:"customer_phone"`
	CustomerEmail *string     `json:"customer_email"`
	Items         []OrderItem `json:"items"`
	TotalCents    int64       `json:"total_cents"`
	Currency      string      `json:"currency"`
	Status        Status      `json:"status"`
	Notes         *string     `json:"notes"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	CompletedAt   *time.Time  `json:"completed_at"`
}

// OrderItem is one line of an order. Price is the unit price in minor
// currency units. The items array is immutable once the order is stored.
type OrderItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

type CreateParams struct {
	StoreSlug     string
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Items         []OrderItem
	TotalCents    int64
	Currency      string
	Notes         string
}

type ListFilter struct {
	StoreSlug string
	Statuses  []string
	Limit     int
}

type HistoryFilter struct {
	Start       *time.Time
	End         *time.Time
	StoreSlug   string
	Statuses    []string
	OrderNumber string
	Limit       int
	Offset      int
}

type HistoryPage struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}
