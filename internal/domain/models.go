// backend-go/internal/domain/models.go
package domain

import "time"

// ClientStatusActive is the status label of a client flagged active in the back office
const ClientStatusActive = "Actif"

// Product represents a catalog product with its current stock level
type Product struct {
	ID             string  `json:"id" db:"id"`
	Name           string  `json:"name" db:"name"`
	Stock          int     `json:"stock" db:"stock"`
	AlertThreshold int     `json:"alert_threshold" db:"alert_threshold"`
	BuyPrice       float64 `json:"buy_price" db:"buy_price"`
	SellPrice      float64 `json:"sell_price" db:"sell_price"`
	Category       string  `json:"category" db:"category"`
}

// SaleItem is a single product line of a sale. Product holds the product name.
type SaleItem struct {
	Product  string `json:"product" db:"product_name"`
	Quantity int    `json:"quantity" db:"quantity"`
}

// Sale represents a recorded sale. Total is sale-level and is not assumed
// to equal the sum of its items.
type Sale struct {
	ID    string     `json:"id" db:"id"`
	Date  time.Time  `json:"date" db:"sale_date"`
	Total float64    `json:"total" db:"total"`
	Items []SaleItem `json:"items" db:"-"`
}

// Client represents a customer with its lifetime order aggregates
type Client struct {
	ID          string     `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Status      string     `json:"status" db:"status"`
	TotalOrders int        `json:"total_orders" db:"total_orders"`
	TotalAmount float64    `json:"total_amount" db:"total_amount"`
	LastOrder   *time.Time `json:"last_order" db:"last_order"`
}

// IsActive reports whether the client carries the active status label
func (c Client) IsActive() bool {
	return c.Status == ClientStatusActive
}

// Snapshot is a read-only view of the three input collections
type Snapshot struct {
	Products []Product `json:"products"`
	Sales    []Sale    `json:"sales"`
	Clients  []Client  `json:"clients"`
}

// IsEmpty reports whether the snapshot holds no records at all
func (s Snapshot) IsEmpty() bool {
	return len(s.Products) == 0 && len(s.Sales) == 0 && len(s.Clients) == 0
}
