package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/andresuchdata/smartgestion/backend-go/internal/domain"
	"github.com/andresuchdata/smartgestion/backend-go/internal/repository"
)

const defaultNotificationLimit = 50

type notificationRow struct {
	domain.Notification
	RawData []byte `db:"data"`
}

type notificationRepository struct {
	db *DB
}

func NewNotificationRepository(db *DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

// SaveNotifications inserts every notification in a single transaction.
// Missing identifiers are generated.
func (r *notificationRepository) SaveNotifications(ctx context.Context, notifications []domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	query := `
		INSERT INTO notifications (id, alert_id, title, description, type, category, data, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for i := range notifications {
			n := &notifications[i]
			if n.ID == "" {
				n.ID = uuid.NewString()
			}

			data, err := json.Marshal(n.Data)
			if err != nil {
				return fmt.Errorf("error encoding notification data for %s: %w", n.AlertID, err)
			}

			if _, err := tx.ExecContext(ctx, query,
				n.ID, n.AlertID, n.Title, n.Description, string(n.Type), string(n.Category), data, n.Read, n.CreatedAt,
			); err != nil {
				return fmt.Errorf("error inserting notification %s: %w", n.AlertID, err)
			}
		}
		return nil
	})
}

func (r *notificationRepository) ListNotifications(ctx context.Context, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 500 {
		limit = defaultNotificationLimit
	}

	query := `
		SELECT id::text AS id, alert_id, title, description, type, category, data, read, created_at
		FROM notifications
		ORDER BY created_at DESC
		LIMIT $1
	`

	var rows []notificationRow
	err := r.db.withSlot(ctx, func() error {
		return r.db.SelectContext(ctx, &rows, query, limit)
	})
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}

	notifications := make([]domain.Notification, len(rows))
	for i, row := range rows {
		n := row.Notification
		if len(row.RawData) > 0 {
			if err := json.Unmarshal(row.RawData, &n.Data); err != nil {
				return nil, fmt.Errorf("error decoding notification data for %s: %w", n.ID, err)
			}
		}
		notifications[i] = n
	}
	return notifications, nil
}
