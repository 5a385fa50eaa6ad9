package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andresuchdata/smartgestion/backend-go/internal/domain"
	"github.com/andresuchdata/smartgestion/backend-go/internal/repository"
)

type productRow struct {
	ID             string              `db:"id"`
	Name           string              `db:"name"`
	Stock          int                 `db:"stock"`
	AlertThreshold int                 `db:"alert_threshold"`
	BuyPrice       decimal.NullDecimal `db:"buy_price"`
	SellPrice      decimal.NullDecimal `db:"sell_price"`
	Category       string              `db:"category"`
}

type saleRow struct {
	ID    string              `db:"id"`
	Date  time.Time           `db:"sale_date"`
	Total decimal.NullDecimal `db:"total"`
}

type saleItemRow struct {
	SaleID   string `db:"sale_id"`
	Product  string `db:"product_name"`
	Quantity int    `db:"quantity"`
}

type clientRow struct {
	ID          string              `db:"id"`
	Name        string              `db:"name"`
	Status      string              `db:"status"`
	TotalOrders int                 `db:"total_orders"`
	TotalAmount decimal.NullDecimal `db:"total_amount"`
	LastOrder   *time.Time          `db:"last_order"`
}

type snapshotRepository struct {
	db *DB
}

// NewSnapshotRepository reads products, sales and clients from Postgres
func NewSnapshotRepository(db *DB) repository.SnapshotProvider {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) GetProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT
			id::text AS id,
			name,
			COALESCE(stock, 0) AS stock,
			COALESCE(alert_threshold, 0) AS alert_threshold,
			buy_price,
			sell_price,
			COALESCE(category, '') AS category
		FROM products
		ORDER BY name
	`

	var rows []productRow
	err := r.db.withSlot(ctx, func() error {
		return r.db.SelectContext(ctx, &rows, query)
	})
	if err != nil {
		return nil, fmt.Errorf("error getting products: %w", err)
	}

	products := make([]domain.Product, len(rows))
	for i, row := range rows {
		products[i] = domain.Product{
			ID:             row.ID,
			Name:           row.Name,
			Stock:          row.Stock,
			AlertThreshold: row.AlertThreshold,
			BuyPrice:       decimalValue(row.BuyPrice),
			SellPrice:      decimalValue(row.SellPrice),
			Category:       row.Category,
		}
	}
	return products, nil
}

func (r *snapshotRepository) GetSales(ctx context.Context) ([]domain.Sale, error) {
	salesQuery := `
		SELECT id::text AS id, sale_date, total
		FROM sales
		ORDER BY sale_date
	`
	itemsQuery := `
		SELECT sale_id::text AS sale_id, product_name, quantity
		FROM sale_items
		ORDER BY sale_id
	`

	var saleRows []saleRow
	var itemRows []saleItemRow
	err := r.db.withSlot(ctx, func() error {
		if err := r.db.SelectContext(ctx, &saleRows, salesQuery); err != nil {
			return err
		}
		return r.db.SelectContext(ctx, &itemRows, itemsQuery)
	})
	if err != nil {
		return nil, fmt.Errorf("error getting sales: %w", err)
	}

	itemsBySale := make(map[string][]domain.SaleItem)
	for _, item := range itemRows {
		itemsBySale[item.SaleID] = append(itemsBySale[item.SaleID], domain.SaleItem{
			Product:  item.Product,
			Quantity: item.Quantity,
		})
	}

	sales := make([]domain.Sale, len(saleRows))
	for i, row := range saleRows {
		sales[i] = domain.Sale{
			ID:    row.ID,
			Date:  row.Date,
			Total: decimalValue(row.Total),
			Items: itemsBySale[row.ID],
		}
	}
	return sales, nil
}

func (r *snapshotRepository) GetClients(ctx context.Context) ([]domain.Client, error) {
	query := `
		SELECT
			id::text AS id,
			name,
			COALESCE(status, '') AS status,
			COALESCE(total_orders, 0) AS total_orders,
			total_amount,
			last_order
		FROM clients
		ORDER BY name
	`

	var rows []clientRow
	err := r.db.withSlot(ctx, func() error {
		return r.db.SelectContext(ctx, &rows, query)
	})
	if err != nil {
		return nil, fmt.Errorf("error getting clients: %w", err)
	}

	clients := make([]domain.Client, len(rows))
	for i, row := range rows {
		clients[i] = domain.Client{
			ID:          row.ID,
			Name:        row.Name,
			Status:      row.Status,
			TotalOrders: row.TotalOrders,
			TotalAmount: decimalValue(row.TotalAmount),
			LastOrder:   row.LastOrder,
		}
	}
	return clients, nil
}

// decimalValue maps a NULL amount to zero
func decimalValue(d decimal.NullDecimal) float64 {
	if !d.Valid {
		return 0
	}
	return d.Decimal.InexactFloat64()
}
