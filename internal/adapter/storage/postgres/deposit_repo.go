package postgres

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"batched-savings-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// DepositRepo implements ports.DepositRepository. Amounts and tick counters
// are NUMERIC columns scanned through their text representation, since they
// routinely exceed 64 bits.
type DepositRepo struct {
	pool Pool
}

// NewDepositRepo creates a new DepositRepo.
func NewDepositRepo(pool Pool) *DepositRepo {
	return &DepositRepo{pool: pool}
}

const depositColumns = `id, principal::text, created_at, ticks_at_deposit::text`

// Insert adds a new deposit record within a transaction.
func (r *DepositRepo) Insert(ctx context.Context, tx pgx.Tx, rec *domain.DepositRecord) error {
	query := `INSERT INTO deposits (id, principal, created_at, ticks_at_deposit)
		VALUES ($1, $2::numeric, $3, $4::numeric)`

	_, err := tx.Exec(ctx, query,
		rec.ID.Bytes(), rec.Principal.String(), rec.CreatedAt, rec.TicksAtDeposit.String(),
	)
	if err != nil {
		return fmt.Errorf("insert deposit: %w", err)
	}
	return nil
}

// Get fetches a deposit record by identifier (without locking). Returns
// (nil, nil) when no live record exists.
func (r *DepositRepo) Get(ctx context.Context, id domain.DepositID) (*domain.DepositRecord, error) {
	query := `SELECT ` + depositColumns + ` FROM deposits WHERE id = $1`
	rec, err := scanDeposit(r.pool.QueryRow(ctx, query, id.Bytes()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deposit: %w", err)
	}
	return rec, nil
}

// GetForUpdate fetches a deposit record with pessimistic locking.
// This MUST be called within a transaction.
func (r *DepositRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, id domain.DepositID) (*domain.DepositRecord, error) {
	query := `SELECT ` + depositColumns + ` FROM deposits WHERE id = $1 FOR UPDATE`
	rec, err := scanDeposit(tx.QueryRow(ctx, query, id.Bytes()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deposit for update: %w", err)
	}
	return rec, nil
}

// Remove deletes a deposit record within a transaction.
func (r *DepositRepo) Remove(ctx context.Context, tx pgx.Tx, id domain.DepositID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM deposits WHERE id = $1`, id.Bytes())
	if err != nil {
		return fmt.Errorf("remove deposit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deposit not found: %s", id)
	}
	return nil
}

// CountLive returns the number of live deposits and their summed principal.
func (r *DepositRepo) CountLive(ctx context.Context) (int64, string, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(principal), 0)::text FROM deposits`

	var count int64
	var total string
	if err := r.pool.QueryRow(ctx, query).Scan(&count, &total); err != nil {
		return 0, "", fmt.Errorf("count live deposits: %w", err)
	}
	return count, total, nil
}

func scanDeposit(row pgx.Row) (*domain.DepositRecord, error) {
	var (
		idBytes   []byte
		principal string
		createdAt time.Time
		ticks     string
	)
	if err := row.Scan(&idBytes, &principal, &createdAt, &ticks); err != nil {
		return nil, err
	}

	rec := &domain.DepositRecord{CreatedAt: createdAt}
	if len(idBytes) != len(rec.ID) {
		return nil, fmt.Errorf("deposit id has %d bytes, want %d", len(idBytes), len(rec.ID))
	}
	copy(rec.ID[:], idBytes)

	var err error
	if rec.Principal, err = parseNumeric(principal); err != nil {
		return nil, fmt.Errorf("principal: %w", err)
	}
	if rec.TicksAtDeposit, err = parseNumeric(ticks); err != nil {
		return nil, fmt.Errorf("ticks_at_deposit: %w", err)
	}
	return rec, nil
}

func parseNumeric(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("malformed numeric %q", s)
	}
	return v, nil
}
