package ports

import (
	"context"

	"batched-savings-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DepositRepository defines persistence for the deposit ledger mapping.
// There is deliberately no enumeration of live identifiers; history is
// reconstructed from the event stream. Methods accepting pgx.Tx run inside a
// batch's transaction block.
type DepositRepository interface {
	// Insert writes a new record. The caller must have verified absence;
	// a unique-violation from the database is still surfaced as an error.
	Insert(ctx context.Context, tx pgx.Tx, rec *domain.DepositRecord) error
	// Get returns the record, or nil if the identifier is absent.
	Get(ctx context.Context, id domain.DepositID) (*domain.DepositRecord, error)
	// GetForUpdate locks and returns the record within tx, or nil if absent.
	GetForUpdate(ctx context.Context, tx pgx.Tx, id domain.DepositID) (*domain.DepositRecord, error)
	// Remove deletes the record. Removing an absent identifier is an error.
	Remove(ctx context.Context, tx pgx.Tx, id domain.DepositID) error
	// CountLive returns the number of live deposits and their principal sum.
	CountLive(ctx context.Context) (int64, string, error)
}

// EventRepository defines persistence for append-only ledger events.
type EventRepository interface {
	Append(ctx context.Context, tx pgx.Tx, ev *domain.LedgerEvent) error
	ListByDeposit(ctx context.Context, id domain.DepositID) ([]domain.LedgerEvent, error)
	List(ctx context.Context, params EventListParams) ([]domain.LedgerEvent, int64, error)
}

// EventListParams holds filter + pagination for listing events.
type EventListParams struct {
	Kind     *domain.LedgerEventKind
	From     *int64 // Unix timestamp
	To       *int64 // Unix timestamp
	Page     int
	PageSize int
}

// OperatorRepository defines persistence operations for operator accounts.
type OperatorRepository interface {
	Create(ctx context.Context, op *domain.Operator) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Operator, error)
	GetByAccessKey(ctx context.Context, accessKey string) (*domain.Operator, error)
	GetByUsername(ctx context.Context, username string) (*domain.Operator, error)
}

// AuditRepository persists audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
