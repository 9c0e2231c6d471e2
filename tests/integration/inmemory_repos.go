package integration

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"batched-savings-ledger/internal/core/domain"
	"batched-savings-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Deposit Repo ---

type inMemoryDepositRepo struct {
	mu       sync.RWMutex
	deposits map[domain.DepositID]*domain.DepositRecord
}

func newInMemoryDepositRepo() *inMemoryDepositRepo {
	return &inMemoryDepositRepo{deposits: make(map[domain.DepositID]*domain.DepositRecord)}
}

func (r *inMemoryDepositRepo) Insert(ctx context.Context, tx pgx.Tx, rec *domain.DepositRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.deposits[rec.ID]; ok {
		return fmt.Errorf("deposit already exists")
	}
	cp := *rec
	cp.Principal = new(big.Int).Set(rec.Principal)
	cp.TicksAtDeposit = new(big.Int).Set(rec.TicksAtDeposit)
	r.deposits[rec.ID] = &cp
	return nil
}

func (r *inMemoryDepositRepo) Get(ctx context.Context, id domain.DepositID) (*domain.DepositRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.deposits[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *inMemoryDepositRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, id domain.DepositID) (*domain.DepositRecord, error) {
	return r.Get(ctx, id)
}

func (r *inMemoryDepositRepo) Remove(ctx context.Context, tx pgx.Tx, id domain.DepositID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.deposits[id]; !ok {
		return fmt.Errorf("deposit not found")
	}
	delete(r.deposits, id)
	return nil
}

func (r *inMemoryDepositRepo) CountLive(ctx context.Context) (int64, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sum := big.NewInt(0)
	for _, rec := range r.deposits {
		sum.Add(sum, rec.Principal)
	}
	return int64(len(r.deposits)), sum.String(), nil
}

// --- In-Memory Event Repo ---

type inMemoryEventRepo struct {
	mu     sync.RWMutex
	events []domain.LedgerEvent
}

func newInMemoryEventRepo() *inMemoryEventRepo {
	return &inMemoryEventRepo{}
}

func (r *inMemoryEventRepo) Append(ctx context.Context, tx pgx.Tx, ev *domain.LedgerEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *ev
	cp.Amount = new(big.Int).Set(ev.Amount)
	r.events = append(r.events, cp)
	return nil
}

func (r *inMemoryEventRepo) ListByDeposit(ctx context.Context, id domain.DepositID) ([]domain.LedgerEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.LedgerEvent
	for _, ev := range r.events {
		if ev.DepositID == id {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *inMemoryEventRepo) List(ctx context.Context, params ports.EventListParams) ([]domain.LedgerEvent, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var filtered []domain.LedgerEvent
	for _, ev := range r.events {
		if params.Kind != nil && ev.Kind != *params.Kind {
			continue
		}
		if params.From != nil && ev.CreatedAt.Unix() < *params.From {
			continue
		}
		if params.To != nil && ev.CreatedAt.Unix() > *params.To {
			continue
		}
		filtered = append(filtered, ev)
	}
	total := int64(len(filtered))

	// Newest first, like the SQL implementation
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].CreatedAt.After(filtered[j].CreatedAt) })

	start := (params.Page - 1) * params.PageSize
	if start >= len(filtered) {
		return []domain.LedgerEvent{}, total, nil
	}
	end := start + params.PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], total, nil
}

// --- In-Memory Operator Repo ---

type inMemoryOperatorRepo struct {
	mu        sync.RWMutex
	operators map[uuid.UUID]*domain.Operator
}

func newInMemoryOperatorRepo() *inMemoryOperatorRepo {
	return &inMemoryOperatorRepo{operators: make(map[uuid.UUID]*domain.Operator)}
}

func (r *inMemoryOperatorRepo) Create(ctx context.Context, op *domain.Operator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.operators {
		if existing.Username == op.Username {
			return fmt.Errorf("username already exists")
		}
	}
	r.operators[op.ID] = op
	return nil
}

func (r *inMemoryOperatorRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.operators[id]
	if !ok {
		return nil, nil
	}
	return op, nil
}

func (r *inMemoryOperatorRepo) GetByAccessKey(ctx context.Context, accessKey string) (*domain.Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, op := range r.operators {
		if op.AccessKey == accessKey {
			return op, nil
		}
	}
	return nil, nil
}

func (r *inMemoryOperatorRepo) GetByUsername(ctx context.Context, username string) (*domain.Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, op := range r.operators {
		if op.Username == username {
			return op, nil
		}
	}
	return nil, nil
}

// --- In-Memory Audit Repo ---

type inMemoryAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditLog
}

func newInMemoryAuditRepo() *inMemoryAuditRepo {
	return &inMemoryAuditRepo{}
}

func (r *inMemoryAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

// --- In-Memory Transactor (no-op tx) ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
