package csvsource

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/smartgestion/backend-go/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestProvider_LoadsSnapshot(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ProductsFile, "id,Name,stock,alert_threshold,buy_price,sell_price,category\n"+
		"p1,Riz,0,5,1200.50,\"1 500,00\",Epicerie\n"+
		"p2,Sel,12.0,2,,,\n")
	writeFile(t, dir, SalesFile, "id,date,total,items\n"+
		"s1,2026-10-01,3000,Riz:2|Sel:1\n"+
		"s2,2026-10-02T09:30:00Z,450.25,\n")
	writeFile(t, dir, ClientsFile, "id,name,status,total_orders,total_amount,last_order\n"+
		"c1,Awa,Actif,4,620000,2026-09-01\n"+
		"c2,Moussa,Inactif,0,,\n")

	p := NewProvider(dir)
	ctx := context.Background()

	products, err := p.GetProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, domain.Product{ID: "p1", Name: "Riz", Stock: 0, AlertThreshold: 5, BuyPrice: 1200.5, SellPrice: 1500, Category: "Epicerie"}, products[0])
	assert.Equal(t, 12, products[1].Stock)

	sales, err := p.GetSales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, []domain.SaleItem{{Product: "Riz", Quantity: 2}, {Product: "Sel", Quantity: 1}}, sales[0].Items)
	assert.Equal(t, time.Date(2026, 10, 2, 9, 30, 0, 0, time.UTC), sales[1].Date)
	assert.Nil(t, sales[1].Items)

	clients, err := p.GetClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	require.NotNil(t, clients[0].LastOrder)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), *clients[0].LastOrder)
	assert.True(t, clients[0].IsActive())
	assert.Nil(t, clients[1].LastOrder)
}

func TestProvider_MissingFilesAreEmpty(t *testing.T) {
	p := NewProvider(t.TempDir())

	products, err := p.GetProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)

	sales, err := p.GetSales(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestProvider_Errors(t *testing.T) {
	t.Run("missing required column", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, SalesFile, "id,total\ns1,10\n")

		_, err := NewProvider(dir).GetSales(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing required column: date")
	})

	t.Run("invalid amount reports the line", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, ProductsFile, "name,sell_price\nRiz,100\nSel,abc\n")

		_, err := NewProvider(dir).GetProducts(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 3")
	})
}

func TestProvider_RejectsInvalidCounts(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{
			name:    "negative stock",
			file:    ProductsFile,
			content: "name,stock,alert_threshold,buy_price,sell_price\nA,-3,5,10,20\n",
			wantErr: `line 2: negative stock "-3"`,
		},
		{
			name:    "negative threshold",
			file:    ProductsFile,
			content: "name,stock,alert_threshold\nA,4,-1\n",
			wantErr: `line 2: negative alert_threshold "-1"`,
		},
		{
			name:    "fractional stock",
			file:    ProductsFile,
			content: "name,stock\nA,1\nB,12.9\n",
			wantErr: `line 3: invalid stock "12.9"`,
		},
		{
			name:    "negative price",
			file:    ProductsFile,
			content: "name,buy_price\nA,-10\n",
			wantErr: `line 2: negative buy_price "-10"`,
		},
		{
			name:    "zero item quantity",
			file:    SalesFile,
			content: "date,total,items\n2026-10-01,100,A:-50|B:0\n",
			wantErr: "line 2: invalid quantity",
		},
		{
			name:    "negative total",
			file:    SalesFile,
			content: "date,total\n2026-10-01,-100\n",
			wantErr: `line 2: negative total "-100"`,
		},
		{
			name:    "negative order count",
			file:    ClientsFile,
			content: "name,total_orders\nAwa,-2\n",
			wantErr: `line 2: negative total_orders "-2"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)
			p := NewProvider(dir)

			var err error
			switch tt.file {
			case ProductsFile:
				_, err = p.GetProducts(context.Background())
			case SalesFile:
				_, err = p.GetSales(context.Background())
			case ClientsFile:
				_, err = p.GetClients(context.Background())
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseItems(t *testing.T) {
	tests := []struct {
		raw     string
		want    []domain.SaleItem
		wantErr bool
	}{
		{raw: "", want: nil},
		{raw: "Riz:2", want: []domain.SaleItem{{Product: "Riz", Quantity: 2}}},
		{raw: "Riz | Sel:3|", want: []domain.SaleItem{{Product: "Riz", Quantity: 1}, {Product: "Sel", Quantity: 3}}},
		{raw: "Riz:deux", wantErr: true},
		{raw: "Riz:0", wantErr: true},
		{raw: "Riz:2|Sel:-50", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseItems(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
