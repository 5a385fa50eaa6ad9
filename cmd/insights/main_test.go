package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/smartgestion/backend-go/internal/domain"
)

func writeSnapshot(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"products.csv": "id,name,stock,alert_threshold,buy_price,sell_price\np1,Riz,0,5,90,100\n",
		"sales.csv":    "id,date,total,items\ns1,2026-10-14,300,Riz:3\n",
		"clients.csv":  "id,name,status,total_orders,total_amount,last_order\nc1,Awa,Inactif,1,300,2026-10-14\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(&out).Run(append([]string{"insights"}, args...))
	return out.String(), err
}

func TestAlertsCommand(t *testing.T) {
	dir := writeSnapshot(t)

	out, err := run(t, "--data-dir", dir, "--now", "2026-10-15", "alerts")
	require.NoError(t, err)

	var alerts []domain.Alert
	require.NoError(t, json.Unmarshal([]byte(out), &alerts))

	ids := make([]string, len(alerts))
	for i, a := range alerts {
		ids[i] = a.ID
	}
	assert.Equal(t, []string{"stock-out", "clients-inactive", "margin-low"}, ids)
}

func TestForecastCommand(t *testing.T) {
	dir := writeSnapshot(t)

	out, err := run(t, "--data-dir", dir, "--now", "2026-10-15", "--seed", "7", "forecast", "--kind", "revenue")
	require.NoError(t, err)

	var points []domain.RevenuePoint
	require.NoError(t, json.Unmarshal([]byte(out), &points))
	require.Len(t, points, 12)
	assert.Equal(t, "2026-11", points[0].Month)

	_, err = run(t, "--data-dir", dir, "forecast", "--kind", "weekly")
	assert.Error(t, err)
}

func TestReportCommand(t *testing.T) {
	dir := writeSnapshot(t)

	out, err := run(t, "--data-dir", dir, "--now", "2026-10-15T08:00:00Z", "--seed", "1", "report")
	require.NoError(t, err)

	var report domain.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Len(t, report.Demand, 30)
	assert.NotEmpty(t, report.Insights)

	_, err = run(t, "--data-dir", dir, "report", "--upload")
	assert.Error(t, err)
}

func TestCommandErrors(t *testing.T) {
	_, err := run(t, "alerts")
	assert.ErrorContains(t, err, "snapshot source is required")

	_, err = run(t, "--data-dir", t.TempDir(), "seed")
	assert.ErrorContains(t, err, "--db-url")

	_, err = run(t, "--now", "yesterday", "alerts")
	assert.ErrorContains(t, err, "invalid --now")
}
