package postgres

import (
	"context"
	"math/big"
	"testing"
	"time"

	"batched-savings-ledger/internal/core/domain"
	"batched-savings-ledger/internal/core/ports"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventColumnNames() []string {
	return []string{"id", "kind", "deposit_id", "amount", "created_at"}
}

func eventRow(ev *domain.LedgerEvent) *pgxmock.Rows {
	return pgxmock.NewRows(eventColumnNames()).AddRow(
		ev.ID, string(ev.Kind), ev.DepositID.Bytes(), ev.Amount.String(), ev.CreatedAt,
	)
}

func TestEventRepo_Append(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEventRepo(mock)
	ev := domain.NewDepositCreatedEvent(
		domain.DepositIDFromReference("customer-a"),
		big.NewInt(1_000_000_000),
		time.Now().UTC().Truncate(time.Second),
	)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO ledger_events").
		WithArgs(ev.ID, string(ev.Kind), ev.DepositID.Bytes(), ev.Amount.String(), ev.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Append(context.Background(), tx, ev)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepo_ListByDeposit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEventRepo(mock)
	id := domain.DepositIDFromReference("customer-a")
	created := domain.NewDepositCreatedEvent(id, big.NewInt(100), time.Now().UTC().Truncate(time.Second))
	redeemed := domain.NewDepositRedeemedEvent(id, big.NewInt(105), time.Now().UTC().Truncate(time.Second))

	rows := pgxmock.NewRows(eventColumnNames()).
		AddRow(created.ID, string(created.Kind), created.DepositID.Bytes(), created.Amount.String(), created.CreatedAt).
		AddRow(redeemed.ID, string(redeemed.Kind), redeemed.DepositID.Bytes(), redeemed.Amount.String(), redeemed.CreatedAt)

	mock.ExpectQuery("SELECT .+ FROM ledger_events WHERE deposit_id").
		WithArgs(id.Bytes()).
		WillReturnRows(rows)

	events, err := repo.ListByDeposit(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventDepositCreated, events[0].Kind)
	assert.Equal(t, domain.EventDepositRedeemed, events[1].Kind)
	assert.Zero(t, big.NewInt(105).Cmp(events[1].Amount))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepo_List_WithKindFilter(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEventRepo(mock)
	id := domain.DepositIDFromReference("customer-a")
	ev := domain.NewDepositRedeemedEvent(id, big.NewInt(105), time.Now().UTC().Truncate(time.Second))
	kind := domain.EventDepositRedeemed

	mock.ExpectQuery("SELECT COUNT.+ FROM ledger_events WHERE kind").
		WithArgs(string(kind)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT .+ FROM ledger_events WHERE kind .+ ORDER BY created_at DESC").
		WithArgs(string(kind), 20, 0).
		WillReturnRows(eventRow(ev))

	events, total, err := repo.List(context.Background(), ports.EventListParams{
		Kind:     &kind,
		Page:     1,
		PageSize: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, events, 1)
	assert.Equal(t, kind, events[0].Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepo_List_NoFilter(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEventRepo(mock)

	mock.ExpectQuery("SELECT COUNT.+ FROM ledger_events").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery("SELECT .+ FROM ledger_events ORDER BY created_at DESC").
		WithArgs(50, 50).
		WillReturnRows(pgxmock.NewRows(eventColumnNames()))

	events, total, err := repo.List(context.Background(), ports.EventListParams{
		Page:     2,
		PageSize: 50,
	})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, events)
	assert.NoError(t, mock.ExpectationsWereMet())
}
