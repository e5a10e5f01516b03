package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/opengestu/validele-sub000/internal/db"
	"github.com/opengestu/validele-sub000/internal/order"
	"github.com/opengestu/validele-sub000/internal/repository"
	"github.com/opengestu/validele-sub000/internal/storage"
)

const transactionColumns = `id, order_id, transaction_type, status, amount, provider_ref, message,
    approved_at, created_at, updated_at`

type TransactionRepo struct {
	db db.DB
}

func NewTransactionRepo(db db.DB) storage.TransactionRepository {
	return &TransactionRepo{db: db}
}

// CreateIfAbsent relies on the unique (order_id, transaction_type) constraint:
// a concurrent or repeated insert reads back the existing row instead.
func (r *TransactionRepo) CreateIfAbsent(ctx context.Context, t *order.Transaction) (*order.Transaction, bool, error) {
	row := repository.FromTransaction(t)

	var inserted repository.Transaction
	err := r.db.Get(ctx, &inserted, `
        INSERT INTO transactions (`+transactionColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (order_id, transaction_type) DO NOTHING
        RETURNING `+transactionColumns,
		row.ID, row.OrderID, row.TransactionType, row.Status, row.Amount, row.ProviderRef, row.Message,
		row.ApprovedAt, row.CreatedAt, row.UpdatedAt)
	if err == nil {
		created, err := inserted.ToTransaction()
		return created, true, err
	}
	if !db.IsNoRows(err) {
		return nil, false, fmt.Errorf("failed to insert %s transaction for order %s: %w", t.Type, t.OrderID, err)
	}

	existing, err := r.Get(ctx, t.OrderID, t.Type)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *TransactionRepo) Get(ctx context.Context, orderID string, typ order.TxType) (*order.Transaction, error) {
	var row repository.Transaction
	err := r.db.Get(ctx, &row,
		"SELECT "+transactionColumns+" FROM transactions WHERE order_id = $1 AND transaction_type = $2",
		orderID, string(typ))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to get %s transaction for order %s: %w", typ, orderID, err)
	}
	return row.ToTransaction()
}

func (r *TransactionRepo) UpdateStatus(ctx context.Context, id string, status order.TxStatus, providerRef, message string, at time.Time) (*order.Transaction, error) {
	var row repository.Transaction
	err := r.db.Get(ctx, &row, `
        UPDATE transactions
        SET
            status = $2,
            provider_ref = COALESCE(NULLIF($3, ''), provider_ref),
            message = $4,
            updated_at = $5
        WHERE id = $1
        RETURNING `+transactionColumns,
		id, string(status), providerRef, message, at)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to update transaction %s: %w", id, err)
	}
	return row.ToTransaction()
}

func (r *TransactionRepo) MarkApproved(ctx context.Context, id string, providerRef string, at time.Time) (*order.Transaction, error) {
	var row repository.Transaction
	err := r.db.Get(ctx, &row, `
        UPDATE transactions
        SET
            approved_at = $3,
            provider_ref = COALESCE(NULLIF($2, ''), provider_ref),
            updated_at = $3
        WHERE id = $1 AND approved_at IS NULL
        RETURNING `+transactionColumns,
		id, providerRef, at)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, order.ErrConditionFailed
		}
		return nil, fmt.Errorf("failed to approve transaction %s: %w", id, err)
	}
	return row.ToTransaction()
}

func (r *TransactionRepo) ReleaseApproval(ctx context.Context, id string, message string, at time.Time) (*order.Transaction, error) {
	var row repository.Transaction
	err := r.db.Get(ctx, &row, `
        UPDATE transactions
        SET
            approved_at = NULL,
            status = $2,
            message = $3,
            updated_at = $4
        WHERE id = $1 AND approved_at IS NOT NULL AND status <> $5
        RETURNING `+transactionColumns,
		id, string(order.TxFailed), message, at, string(order.TxSuccessful))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, order.ErrConditionFailed
		}
		return nil, fmt.Errorf("failed to release approval of transaction %s: %w", id, err)
	}
	return row.ToTransaction()
}

func (r *TransactionRepo) Reopen(ctx context.Context, id string, at time.Time) (*order.Transaction, error) {
	var row repository.Transaction
	err := r.db.Get(ctx, &row, `
        UPDATE transactions
        SET
            status = $2,
            updated_at = $4
        WHERE id = $1 AND status = $3
        RETURNING `+transactionColumns,
		id, string(order.TxPending), string(order.TxFailed), at)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, order.ErrConditionFailed
		}
		return nil, fmt.Errorf("failed to reopen transaction %s: %w", id, err)
	}
	return row.ToTransaction()
}

// ListEligiblePayouts returns payouts awaiting approval, including ones whose
// provider request failed.
func (r *TransactionRepo) ListEligiblePayouts(ctx context.Context, limit int) ([]*order.Transaction, error) {
	var rows []*repository.Transaction
	err := r.db.Select(ctx, &rows, `
        SELECT `+transactionColumns+` FROM transactions
        WHERE transaction_type = $1 AND status IN ($2, $3) AND approved_at IS NULL
        ORDER BY created_at ASC
        LIMIT $4
    `, string(order.TxPayout), string(order.TxPending), string(order.TxFailed), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible payouts: %w", err)
	}

	txs := make([]*order.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := row.ToTransaction()
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, nil
}
