package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/smartgestion/backend-go/internal/cache"
	"github.com/andresuchdata/smartgestion/backend-go/internal/domain"
	"github.com/andresuchdata/smartgestion/backend-go/internal/insights"
	"github.com/andresuchdata/smartgestion/backend-go/internal/repository"
)

const defaultReportKey = "default"

// ProfitabilityReport lists every priced product margin with the derived insights
type ProfitabilityReport struct {
	Margins  []insights.ProductMargin `json:"margins"`
	Insights []domain.Insight         `json:"insights"`
}

// SegmentCounts is the size of each client segment
type SegmentCounts struct {
	VIP     int `json:"vip"`
	Active  int `json:"active"`
	Dormant int `json:"dormant"`
	AtRisk  int `json:"at_risk"`
}

type ClientReport struct {
	Segments SegmentCounts    `json:"segments"`
	Insights []domain.Insight `json:"insights"`
}

type SalesTrendReport struct {
	RecentAvg float64          `json:"recent_avg"`
	OlderAvg  float64          `json:"older_avg"`
	Growth    float64          `json:"growth"`
	ThisWeek  float64          `json:"this_week"`
	LastWeek  float64          `json:"last_week"`
	Insights  []domain.Insight `json:"insights"`
}

// RefreshResult describes one alert evaluation
type RefreshResult struct {
	Alerts    []domain.Alert `json:"alerts"`
	Signature string         `json:"signature"`
	Changed   bool           `json:"changed"`
	Notified  int            `json:"notified"`
}

type InsightService struct {
	provider      repository.SnapshotProvider
	notifications repository.NotificationRepository
	engine        *insights.Engine
	reports       cache.ReportCache
	state         cache.AlertStateStore
	now           func() time.Time

	// serializes alert refreshes so the signature check and save stay atomic
	refreshMu sync.Mutex
}

// NewInsightService wires the engine to its data sources. notifications may be
// nil, in which case alerts are never persisted.
func NewInsightService(
	provider repository.SnapshotProvider,
	notifications repository.NotificationRepository,
	engine *insights.Engine,
	reports cache.ReportCache,
	state cache.AlertStateStore,
) *InsightService {
	if reports == nil {
		reports = cache.NewNoopReportCache()
	}
	if state == nil {
		state = cache.NewMemoryAlertStateStore()
	}
	return &InsightService{
		provider:      provider,
		notifications: notifications,
		engine:        engine,
		reports:       reports,
		state:         state,
		now:           time.Now,
	}
}

// WithClock replaces the time source, used by tests and the CLI --now flag
func (s *InsightService) WithClock(now func() time.Time) *InsightService {
	s.now = now
	return s
}

// LoadSnapshot fetches the three collections concurrently
func (s *InsightService) LoadSnapshot(ctx context.Context) (domain.Snapshot, error) {
	var snapshot domain.Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		products, err := s.provider.GetProducts(gctx)
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}
		snapshot.Products = products
		return nil
	})
	g.Go(func() error {
		sales, err := s.provider.GetSales(gctx)
		if err != nil {
			return fmt.Errorf("load sales: %w", err)
		}
		snapshot.Sales = sales
		return nil
	})
	g.Go(func() error {
		clients, err := s.provider.GetClients(gctx)
		if err != nil {
			return fmt.Errorf("load clients: %w", err)
		}
		snapshot.Clients = clients
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.Snapshot{}, err
	}

	log.Debug().
		Int("products", len(snapshot.Products)).
		Int("sales", len(snapshot.Sales)).
		Int("clients", len(snapshot.Clients)).
		Msg("insights: snapshot loaded")

	return snapshot, nil
}

// Report returns the full report, from cache when available
func (s *InsightService) Report(ctx context.Context) (*domain.Report, error) {
	if report, ok, err := s.reports.GetReport(ctx, defaultReportKey); err == nil && ok {
		return report, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("insights: cache get report failed")
	}

	snapshot, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	report := s.engine.Run(snapshot, s.now())

	if err := s.reports.SetReport(ctx, defaultReportKey, &report); err != nil {
		log.Warn().Err(err).Msg("insights: cache set report failed")
	}

	return &report, nil
}

func (s *InsightService) StockInsights(ctx context.Context) ([]domain.Insight, error) {
	snapshot, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.engine.StockForecaster().Forecast(snapshot.Products, snapshot.Sales, s.now()), nil
}

func (s *InsightService) ProfitabilityReport(ctx context.Context) (*ProfitabilityReport, error) {
	products, err := s.provider.GetProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	analyzer := s.engine.ProfitabilityAnalyzer()
	return &ProfitabilityReport{
		Margins:  analyzer.Margins(products),
		Insights: analyzer.Analyze(products),
	}, nil
}

func (s *InsightService) ClientReport(ctx context.Context) (*ClientReport, error) {
	clients, err := s.provider.GetClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("load clients: %w", err)
	}

	now := s.now()
	segmenter := s.engine.ClientSegmenter()
	seg := segmenter.Segment(clients, now)

	return &ClientReport{
		Segments: SegmentCounts{
			VIP:     len(seg.VIP),
			Active:  len(seg.Active),
			Dormant: len(seg.Dormant),
			AtRisk:  len(seg.AtRisk),
		},
		Insights: segmenter.Analyze(clients, now),
	}, nil
}

func (s *InsightService) SalesTrendReport(ctx context.Context) (*SalesTrendReport, error) {
	sales, err := s.provider.GetSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}

	analyzer := s.engine.SalesTrendAnalyzer()
	trend := analyzer.Trend(insights.SortedByDate(sales))
	weekly := s.engine.AlertGenerator().WeekOverWeek(sales, s.now())

	return &SalesTrendReport{
		RecentAvg: trend.RecentAvg,
		OlderAvg:  trend.OlderAvg,
		Growth:    trend.Growth,
		ThisWeek:  weekly.ThisWeek,
		LastWeek:  weekly.LastWeek,
		Insights:  analyzer.Analyze(sales),
	}, nil
}

// RefreshAlerts evaluates the alerts on fresh data. Critical and warning
// alerts are persisted as notifications only when the set differs from the
// last notified one.
func (s *InsightService) RefreshAlerts(ctx context.Context) (*RefreshResult, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	snapshot, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	alerts := s.engine.AlertGenerator().Generate(snapshot, now)
	result := &RefreshResult{Alerts: alerts, Signature: cache.AlertSignature(alerts)}

	if err := s.reports.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("insights: cache invalidate failed")
	}

	previous, err := s.state.LoadSignature(ctx)
	if err != nil {
		return nil, fmt.Errorf("load alert state: %w", err)
	}
	if previous == result.Signature {
		log.Debug().Int("alerts", len(alerts)).Msg("insights: alert set unchanged")
		return result, nil
	}
	result.Changed = true

	notifications := make([]domain.Notification, 0)
	for _, a := range alerts {
		if a.Type.Notifiable() {
			notifications = append(notifications, domain.NotificationFromAlert(a, now))
		}
	}

	if s.notifications != nil && len(notifications) > 0 {
		if err := s.notifications.SaveNotifications(ctx, notifications); err != nil {
			return nil, fmt.Errorf("save notifications: %w", err)
		}
		result.Notified = len(notifications)
	}

	if err := s.state.SaveSignature(ctx, result.Signature); err != nil {
		return nil, fmt.Errorf("save alert state: %w", err)
	}

	log.Info().
		Int("alerts", len(alerts)).
		Int("notified", result.Notified).
		Str("signature", result.Signature).
		Msg("insights: alert set changed")

	return result, nil
}

// Notifications lists the most recent notifications
func (s *InsightService) Notifications(ctx context.Context, limit int) ([]domain.Notification, error) {
	if s.notifications == nil {
		return []domain.Notification{}, nil
	}
	return s.notifications.ListNotifications(ctx, limit)
}
