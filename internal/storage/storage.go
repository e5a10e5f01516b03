//go:generate mockgen -source ./storage.go -destination=./mocks/storage.go -package=mock_storage
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/opengestu/validele-sub000/internal/db"
	"github.com/opengestu/validele-sub000/internal/order"
	"github.com/opengestu/validele-sub000/internal/repository"
)

// OrderRepository is the row store behind the lifecycle. Apply is the only way
// an existing order changes: it must check the guard and write the patch as
// one atomic step and return order.ErrConditionFailed when the guard fails.
type OrderRepository interface {
	Create(ctx context.Context, o *order.Order) error
	GetByID(ctx context.Context, id string) (*order.Order, error)
	GetByCode(ctx context.Context, code string, statuses []order.Status) (*order.Order, error)
	ListClaimable(ctx context.Context, limit int) ([]*order.Order, error)
	ListByParty(ctx context.Context, role order.Role, actorID string, limit int) ([]*order.Order, error)
	Apply(ctx context.Context, g order.Guard, p order.Patch) (*order.Order, error)
}

type TransactionRepository interface {
	// CreateIfAbsent returns the stored row and whether this call inserted it.
	CreateIfAbsent(ctx context.Context, t *order.Transaction) (*order.Transaction, bool, error)
	Get(ctx context.Context, orderID string, typ order.TxType) (*order.Transaction, error)
	UpdateStatus(ctx context.Context, id string, status order.TxStatus, providerRef, message string, at time.Time) (*order.Transaction, error)
	// MarkApproved sets approved_at once; a second call returns order.ErrConditionFailed.
	MarkApproved(ctx context.Context, id string, providerRef string, at time.Time) (*order.Transaction, error)
	// ReleaseApproval clears approved_at of an unsettled payout and marks it FAILED
	// so it can be approved again.
	ReleaseApproval(ctx context.Context, id string, message string, at time.Time) (*order.Transaction, error)
	// Reopen moves a FAILED transaction back to PENDING. Any other status
	// returns order.ErrConditionFailed.
	Reopen(ctx context.Context, id string, at time.Time) (*order.Transaction, error)
	ListEligiblePayouts(ctx context.Context, limit int) ([]*order.Transaction, error)
}

type OutboxTaskRepository interface {
	Create(ctx context.Context, conn db.DB, task *repository.OutboxTask) error
	CreateTx(ctx context.Context, tx db.Tx, task *repository.OutboxTask) error
	GetProcessableTasksTx(ctx context.Context, tx db.Tx, limit, maxAttempts int) ([]*repository.OutboxTask, error)
	UpdateTaskStatusTx(ctx context.Context, tx db.Tx, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error
	UpdateTaskStatus(ctx context.Context, conn db.DB, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, username, password string) error
	EnsureUser(ctx context.Context, username, password string) (bool, error)
	ValidateUser(ctx context.Context, username, password string) (bool, error)
}
