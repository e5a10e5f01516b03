package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_database "github.com/opengestu/validele-sub000/internal/db/mocks"
	"github.com/opengestu/validele-sub000/internal/order"
	"github.com/opengestu/validele-sub000/internal/repository"
	"github.com/opengestu/validele-sub000/internal/repository/postgresql"
)

func payoutRow(now time.Time) *repository.Transaction {
	return &repository.Transaction{
		ID:              "tx-1",
		OrderID:         "order-123",
		TransactionType: "payout",
		Status:          "PENDING",
		Amount:          500000,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestTransactionRepo_CreateIfAbsent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tx := &order.Transaction{
		ID:        "tx-1",
		OrderID:   "order-123",
		Type:      order.TxPayout,
		Status:    order.TxPending,
		Amount:    decimal.NewFromInt(5000),
		CreatedAt: now,
		UpdatedAt: now,
	}

	t.Run("inserted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewTransactionRepo(mockDB)

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(),
			"tx-1", "order-123", "payout", "PENDING", int64(500000), "", "", gomock.Nil(), now, now,
		).DoAndReturn(func(_ context.Context, dest *repository.Transaction, _ string, _ ...interface{}) error {
			*dest = *payoutRow(now)
			return nil
		})

		got, created, err := repo.CreateIfAbsent(ctx, tx)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, order.TxPayout, got.Type)
		assert.True(t, got.Amount.Equal(decimal.NewFromInt(5000)))
	})

	t.Run("already exists", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewTransactionRepo(mockDB)

		existing := payoutRow(now)
		existing.ID = "tx-0"
		gomock.InOrder(
			mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(pgx.ErrNoRows),
			mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), "order-123", "payout").
				DoAndReturn(func(_ context.Context, dest *repository.Transaction, _ string, _ ...interface{}) error {
					*dest = *existing
					return nil
				}),
		)

		got, created, err := repo.CreateIfAbsent(ctx, tx)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "tx-0", got.ID)
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewTransactionRepo(mockDB)

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("boom"))

		_, _, err := repo.CreateIfAbsent(ctx, tx)
		assert.Error(t, err)
	})
}

func TestTransactionRepo_MarkApproved(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	t.Run("first approval", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewTransactionRepo(mockDB)

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), "tx-1", "PAY-42", now).
			DoAndReturn(func(_ context.Context, dest *repository.Transaction, query string, _ ...interface{}) error {
				assert.Contains(t, query, "approved_at IS NULL")
				row := payoutRow(now)
				row.ApprovedAt = &now
				row.ProviderRef = "PAY-42"
				*dest = *row
				return nil
			})

		got, err := repo.MarkApproved(ctx, "tx-1", "PAY-42", now)
		require.NoError(t, err)
		require.NotNil(t, got.ApprovedAt)
		assert.Equal(t, order.TxPending, got.Status)
	})

	t.Run("already approved", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewTransactionRepo(mockDB)

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(pgx.ErrNoRows)

		_, err := repo.MarkApproved(ctx, "tx-1", "", now)
		assert.ErrorIs(t, err, order.ErrConditionFailed)
	})
}

func TestTransactionRepo_ReleaseApproval(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	t.Run("approved payout", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewTransactionRepo(mockDB)

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), "tx-1", "FAILED", "provider down", now, "SUCCESSFUL").
			DoAndReturn(func(_ context.Context, dest *repository.Transaction, query string, _ ...interface{}) error {
				assert.Contains(t, query, "approved_at = NULL")
				assert.Contains(t, query, "approved_at IS NOT NULL")
				row := payoutRow(now)
				row.Status = "FAILED"
				row.Message = "provider down"
				*dest = *row
				return nil
			})

		got, err := repo.ReleaseApproval(ctx, "tx-1", "provider down", now)
		require.NoError(t, err)
		assert.Nil(t, got.ApprovedAt)
		assert.Equal(t, order.TxFailed, got.Status)
	})

	t.Run("settled or not approved", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewTransactionRepo(mockDB)

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(pgx.ErrNoRows)

		_, err := repo.ReleaseApproval(ctx, "tx-1", "", now)
		assert.ErrorIs(t, err, order.ErrConditionFailed)
	})
}

func TestTransactionRepo_Reopen(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	ctrl := gomock.NewController(t)
	mockDB := mock_database.NewMockDB(ctrl)
	repo := postgresql.NewTransactionRepo(mockDB)

	gomock.InOrder(
		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), "tx-1", "PENDING", "FAILED", now).
			DoAndReturn(func(_ context.Context, dest *repository.Transaction, query string, _ ...interface{}) error {
				assert.Contains(t, query, "status = $3")
				*dest = *payoutRow(now)
				return nil
			}),
		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), "tx-1", "PENDING", "FAILED", now).
			Return(pgx.ErrNoRows),
	)

	got, err := repo.Reopen(ctx, "tx-1", now)
	require.NoError(t, err)
	assert.Equal(t, order.TxPending, got.Status)

	_, err = repo.Reopen(ctx, "tx-1", now)
	assert.ErrorIs(t, err, order.ErrConditionFailed)
}

func TestTransactionRepo_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	ctrl := gomock.NewController(t)
	mockDB := mock_database.NewMockDB(ctrl)
	repo := postgresql.NewTransactionRepo(mockDB)

	mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), "missing", "FAILED", "", "declined", now).
		Return(pgx.ErrNoRows)

	_, err := repo.UpdateStatus(ctx, "missing", order.TxFailed, "", "declined", now)
	assert.ErrorIs(t, err, repository.ErrObjectNotFound)
}

func TestTransactionRepo_ListEligiblePayouts(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	ctrl := gomock.NewController(t)
	mockDB := mock_database.NewMockDB(ctrl)
	repo := postgresql.NewTransactionRepo(mockDB)

	mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), "payout", "PENDING", "FAILED", 20).
		DoAndReturn(func(_ context.Context, dest *[]*repository.Transaction, _ string, _ ...interface{}) error {
			bad := payoutRow(now)
			bad.Status = "LOST"
			*dest = []*repository.Transaction{payoutRow(now), bad}
			return nil
		})

	_, err := repo.ListEligiblePayouts(ctx, 20)
	assert.ErrorIs(t, err, order.ErrUnknownStatus)
}
