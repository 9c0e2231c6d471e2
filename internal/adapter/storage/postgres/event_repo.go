package postgres

import (
	"context"
	"fmt"
	"strings"

	"batched-savings-ledger/internal/core/domain"
	"batched-savings-ledger/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// EventRepo implements ports.EventRepository. The events table is append-only:
// there is no update or delete path anywhere in the codebase.
type EventRepo struct {
	pool Pool
}

// NewEventRepo creates a new EventRepo.
func NewEventRepo(pool Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

// Append inserts a ledger event within a transaction.
func (r *EventRepo) Append(ctx context.Context, tx pgx.Tx, ev *domain.LedgerEvent) error {
	query := `INSERT INTO ledger_events (id, kind, deposit_id, amount, created_at)
		VALUES ($1, $2, $3, $4::numeric, $5)`

	_, err := tx.Exec(ctx, query,
		ev.ID, string(ev.Kind), ev.DepositID.Bytes(), ev.Amount.String(), ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append ledger event: %w", err)
	}
	return nil
}

// ListByDeposit returns every event recorded for one identifier, oldest first.
func (r *EventRepo) ListByDeposit(ctx context.Context, id domain.DepositID) ([]domain.LedgerEvent, error) {
	query := `SELECT id, kind, deposit_id, amount::text, created_at
		FROM ledger_events WHERE deposit_id = $1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, id.Bytes())
	if err != nil {
		return nil, fmt.Errorf("list events by deposit: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// List returns a filtered, paginated page of events (newest first) and the
// total row count for the filter.
func (r *EventRepo) List(ctx context.Context, params ports.EventListParams) ([]domain.LedgerEvent, int64, error) {
	var conds []string
	var args []any
	argPos := 1

	if params.Kind != nil {
		conds = append(conds, fmt.Sprintf("kind = $%d", argPos))
		args = append(args, string(*params.Kind))
		argPos++
	}
	if params.From != nil {
		conds = append(conds, fmt.Sprintf("created_at >= to_timestamp($%d)", argPos))
		args = append(args, *params.From)
		argPos++
	}
	if params.To != nil {
		conds = append(conds, fmt.Sprintf("created_at <= to_timestamp($%d)", argPos))
		args = append(args, *params.To)
		argPos++
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM ledger_events" + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT id, kind, deposit_id, amount::text, created_at FROM ledger_events%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, argPos, argPos+1,
	)
	args = append(args, params.PageSize, (params.Page-1)*params.PageSize)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events, err := collectEvents(rows)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func collectEvents(rows pgx.Rows) ([]domain.LedgerEvent, error) {
	var events []domain.LedgerEvent
	for rows.Next() {
		var (
			ev        domain.LedgerEvent
			kind      string
			depositID []byte
			amount    string
		)
		if err := rows.Scan(&ev.ID, &kind, &depositID, &amount, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger event: %w", err)
		}
		ev.Kind = domain.LedgerEventKind(kind)
		if len(depositID) != len(ev.DepositID) {
			return nil, fmt.Errorf("deposit id has %d bytes, want %d", len(depositID), len(ev.DepositID))
		}
		copy(ev.DepositID[:], depositID)

		var err error
		if ev.Amount, err = parseNumeric(amount); err != nil {
			return nil, fmt.Errorf("event amount: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
