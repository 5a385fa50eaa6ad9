// backend-go/internal/repository/provider.go
package repository

import (
	"context"

	"github.com/andresuchdata/smartgestion/backend-go/internal/domain"
)

// SnapshotProvider loads the three input collections of the insights engine
type SnapshotProvider interface {
	GetProducts(ctx context.Context) ([]domain.Product, error)
	GetSales(ctx context.Context) ([]domain.Sale, error)
	GetClients(ctx context.Context) ([]domain.Client, error)
}

// NotificationRepository persists notifications raised from critical and warning alerts
type NotificationRepository interface {
	SaveNotifications(ctx context.Context, notifications []domain.Notification) error
	ListNotifications(ctx context.Context, limit int) ([]domain.Notification, error)
}
