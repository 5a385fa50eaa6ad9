package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/smartgestion/backend-go/internal/domain"
)

func TestNotificationRepository_SaveNotifications(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	t.Run("inserts in one transaction and assigns ids", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewNotificationRepository(db)

		notifications := []domain.Notification{
			{AlertID: "stock-out", Title: "1 produit(s) en rupture de stock", Type: domain.AlertCritical, Category: domain.CategoryStock, CreatedAt: now},
			{ID: "11111111-1111-1111-1111-111111111111", AlertID: "margin-low", Type: domain.AlertWarning, Category: domain.CategoryMargin, CreatedAt: now},
		}

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO notifications").
			WithArgs(sqlmock.AnyArg(), "stock-out", "1 produit(s) en rupture de stock", "", "critical", "stock", []byte("null"), false, now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO notifications").
			WithArgs("11111111-1111-1111-1111-111111111111", "margin-low", "", "", "warning", "margin", []byte("null"), false, now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.SaveNotifications(context.Background(), notifications)

		require.NoError(t, err)
		assert.NotEmpty(t, notifications[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewNotificationRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO notifications").WillReturnError(errors.New("duplicate key"))
		mock.ExpectRollback()

		err := repo.SaveNotifications(context.Background(), []domain.Notification{{AlertID: "stock-low"}})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "stock-low")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing to save", func(t *testing.T) {
		db, mock := newMockDB(t)

		require.NoError(t, NewNotificationRepository(db).SaveNotifications(context.Background(), nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNotificationRepository_ListNotifications(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationRepository(db)
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM notifications").
		WithArgs(defaultNotificationLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id", "alert_id", "title", "description", "type", "category", "data", "read", "created_at"}).
			AddRow("n1", "stock-out", "Rupture", "desc", "critical", "stock", []byte(`{"count":2}`), false, now).
			AddRow("n2", "sales-drop", "Baisse", "desc", "warning", "sales", nil, true, now))

	notifications, err := repo.ListNotifications(context.Background(), 0)

	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, domain.AlertCritical, notifications[0].Type)
	assert.Equal(t, domain.CategoryStock, notifications[0].Category)
	assert.Equal(t, 2.0, notifications[0].Data["count"])
	assert.Nil(t, notifications[1].Data)
	assert.True(t, notifications[1].Read)
	assert.NoError(t, mock.ExpectationsWereMet())
}
