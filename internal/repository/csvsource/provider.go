// Package csvsource loads a snapshot from a directory of CSV exports:
// products.csv, sales.csv and clients.csv.
package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/andresuchdata/smartgestion/backend-go/internal/domain"
)

const (
	ProductsFile = "products.csv"
	SalesFile    = "sales.csv"
	ClientsFile  = "clients.csv"
)

// Files lists the snapshot files in load order
var Files = []string{ProductsFile, SalesFile, ClientsFile}

// Provider implements repository.SnapshotProvider over a local directory.
// A missing file yields an empty collection.
type Provider struct {
	dir string
}

func NewProvider(dir string) *Provider {
	return &Provider{dir: dir}
}

// row gives typed access to one CSV record through the header index
type row struct {
	line   int
	record []string
	colMap map[string]int
}

func (r row) value(col string) string {
	if idx, ok := r.colMap[col]; ok && idx < len(r.record) {
		return strings.TrimSpace(r.record[idx])
	}
	return ""
}

func (r row) intValue(col string) (int, error) {
	val := r.value(col)
	if val == "" {
		return 0, nil
	}
	// Handle float strings like "12.0"
	f, err := strconv.ParseFloat(val, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("line %d: invalid %s %q", r.line, col, val)
	}
	if f < 0 {
		return 0, fmt.Errorf("line %d: negative %s %q", r.line, col, val)
	}
	return int(f), nil
}

func (r row) amountValue(col string) (float64, error) {
	val := strings.ReplaceAll(r.value(col), " ", "")
	if val == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(strings.Replace(val, ",", ".", 1))
	if err != nil {
		return 0, fmt.Errorf("line %d: invalid %s %q", r.line, col, val)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("line %d: negative %s %q", r.line, col, val)
	}
	return d.InexactFloat64(), nil
}

func (r row) timeValue(col string) (*time.Time, error) {
	val := r.value(col)
	if val == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, val); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("line %d: invalid %s %q", r.line, col, val)
}

// readRows parses a CSV file and calls fn for every data row
func (p *Provider) readRows(ctx context.Context, name string, required []string, fn func(row) error) error {
	path := filepath.Join(p.dir, name)
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug().Str("file", path).Msg("snapshot file not found, using empty collection")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s header: %w", name, err)
	}

	// Map header to indices
	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))] = i
	}
	for _, col := range required {
		if _, ok := colMap[col]; !ok {
			return fmt.Errorf("%s: missing required column: %s", name, col)
		}
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read %s record: %w", name, err)
		}
		line++

		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(row{line: line, record: record, colMap: colMap}); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	return nil
}

func (p *Provider) GetProducts(ctx context.Context) ([]domain.Product, error) {
	products := make([]domain.Product, 0)
	err := p.readRows(ctx, ProductsFile, []string{"name"}, func(r row) error {
		var err error
		product := domain.Product{
			ID:       r.value("id"),
			Name:     r.value("name"),
			Category: r.value("category"),
		}
		if product.Stock, err = r.intValue("stock"); err != nil {
			return err
		}
		if product.AlertThreshold, err = r.intValue("alert_threshold"); err != nil {
			return err
		}
		if product.BuyPrice, err = r.amountValue("buy_price"); err != nil {
			return err
		}
		if product.SellPrice, err = r.amountValue("sell_price"); err != nil {
			return err
		}
		products = append(products, product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (p *Provider) GetSales(ctx context.Context) ([]domain.Sale, error) {
	sales := make([]domain.Sale, 0)
	err := p.readRows(ctx, SalesFile, []string{"date", "total"}, func(r row) error {
		date, err := r.timeValue("date")
		if err != nil {
			return err
		}
		if date == nil {
			return fmt.Errorf("line %d: missing date", r.line)
		}
		total, err := r.amountValue("total")
		if err != nil {
			return err
		}
		items, err := ParseItems(r.value("items"))
		if err != nil {
			return fmt.Errorf("line %d: %w", r.line, err)
		}

		sales = append(sales, domain.Sale{ID: r.value("id"), Date: *date, Total: total, Items: items})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sales, nil
}

func (p *Provider) GetClients(ctx context.Context) ([]domain.Client, error) {
	clients := make([]domain.Client, 0)
	err := p.readRows(ctx, ClientsFile, []string{"name"}, func(r row) error {
		var err error
		client := domain.Client{
			ID:     r.value("id"),
			Name:   r.value("name"),
			Status: r.value("status"),
		}
		if client.TotalOrders, err = r.intValue("total_orders"); err != nil {
			return err
		}
		if client.TotalAmount, err = r.amountValue("total_amount"); err != nil {
			return err
		}
		if client.LastOrder, err = r.timeValue("last_order"); err != nil {
			return err
		}
		clients = append(clients, client)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return clients, nil
}

// ParseItems decodes "Riz:2|Huile:1" into sale lines. A line without a
// quantity counts one unit; explicit quantities must be positive.
func ParseItems(raw string) ([]domain.SaleItem, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, "|")
	items := make([]domain.SaleItem, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, qtyStr, found := strings.Cut(part, ":")
		qty := 1
		if found {
			n, err := strconv.Atoi(strings.TrimSpace(qtyStr))
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid quantity in item %q", part)
			}
			qty = n
		}
		items = append(items, domain.SaleItem{Product: strings.TrimSpace(name), Quantity: qty})
	}
	return items, nil
}
