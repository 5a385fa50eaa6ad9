package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/andresuchdata/smartgestion/backend-go/internal/domain"
)

// WriteSnapshot replaces the snapshot tables with the given collections in a
// single transaction. Records without an id get a generated one.
func WriteSnapshot(ctx context.Context, db *DB, snapshot domain.Snapshot) error {
	return db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `TRUNCATE sale_items, sales, products, clients`); err != nil {
			return fmt.Errorf("error clearing snapshot tables: %w", err)
		}

		for _, p := range snapshot.Products {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO products (id, name, stock, alert_threshold, buy_price, sell_price, category)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				idOrNew(p.ID), p.Name, p.Stock, p.AlertThreshold,
				decimal.NewFromFloat(p.BuyPrice), decimal.NewFromFloat(p.SellPrice), p.Category,
			); err != nil {
				return fmt.Errorf("error inserting product %s: %w", p.Name, err)
			}
		}

		for _, s := range snapshot.Sales {
			saleID := idOrNew(s.ID)
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO sales (id, sale_date, total) VALUES ($1, $2, $3)`,
				saleID, s.Date, decimal.NewFromFloat(s.Total),
			); err != nil {
				return fmt.Errorf("error inserting sale %s: %w", saleID, err)
			}
			for _, item := range s.Items {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO sale_items (sale_id, product_name, quantity) VALUES ($1, $2, $3)`,
					saleID, item.Product, item.Quantity,
				); err != nil {
					return fmt.Errorf("error inserting item of sale %s: %w", saleID, err)
				}
			}
		}

		for _, c := range snapshot.Clients {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO clients (id, name, status, total_orders, total_amount, last_order)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				idOrNew(c.ID), c.Name, c.Status, c.TotalOrders, decimal.NewFromFloat(c.TotalAmount), c.LastOrder,
			); err != nil {
				return fmt.Errorf("error inserting client %s: %w", c.Name, err)
			}
		}

		log.Info().
			Int("products", len(snapshot.Products)).
			Int("sales", len(snapshot.Sales)).
			Int("clients", len(snapshot.Clients)).
			Msg("snapshot written")
		return nil
	})
}

func idOrNew(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}
