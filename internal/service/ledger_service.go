package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"batched-savings-ledger/internal/core/domain"
	"batched-savings-ledger/internal/core/ports"
	"batched-savings-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// LedgerParams holds the fixed accrual and custody parameters.
type LedgerParams struct {
	FeeAnnualPPM    int64
	SettlementToken string
	CustodyAddress  string
}

// LedgerServiceImpl implements ports.LedgerService.
type LedgerServiceImpl struct {
	depositRepo ports.DepositRepository
	eventRepo   ports.EventRepository
	authority   ports.PermissionAuthority
	assets      ports.AssetTransferService
	reserve     ports.YieldReserve
	transactor  ports.DBTransactor
	lock        ports.MutationLock
	notifier    ports.EventNotifier // optional, best-effort
	params      LedgerParams
	log         zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	depositRepo ports.DepositRepository,
	eventRepo ports.EventRepository,
	authority ports.PermissionAuthority,
	assets ports.AssetTransferService,
	reserve ports.YieldReserve,
	transactor ports.DBTransactor,
	lock ports.MutationLock,
	notifier ports.EventNotifier,
	params LedgerParams,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		depositRepo: depositRepo,
		eventRepo:   eventRepo,
		authority:   authority,
		assets:      assets,
		reserve:     reserve,
		transactor:  transactor,
		lock:        lock,
		notifier:    notifier,
		params:      params,
		log:         log,
	}
}

// CreateDeposits implements the batch creation protocol: one funds pull, one
// reserve deposit and one shared baseline for the whole batch, then one
// database transaction inserting every record and its creation event.
func (s *LedgerServiceImpl) CreateDeposits(ctx context.Context, req ports.CreateBatchRequest) (*ports.BatchCreateResult, error) {
	// Argument checks come before any external call or mutation.
	if len(req.IDs) == 0 || len(req.IDs) != len(req.Amounts) {
		return nil, apperror.ErrBatchLengthMismatch()
	}
	total := big.NewInt(0)
	for _, amount := range req.Amounts {
		if amount == nil || amount.Sign() <= 0 {
			return nil, apperror.ErrZeroAmount()
		}
		total.Add(total, amount)
	}
	if total.Cmp(domain.MaxDepositAmount) > 0 {
		return nil, apperror.ErrOversizedTotal(total)
	}

	if err := s.requireOperator(ctx, req.OperatorAddress); err != nil {
		return nil, err
	}

	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return nil, apperror.ErrLockTimeout(err)
	}
	defer release()

	// Pull the combined total from the source, unless the custody account
	// already holds it.
	if req.Source != s.params.CustodyAddress {
		ok, err := s.assets.TransferFrom(ctx, s.params.SettlementToken, req.Source, s.params.CustodyAddress, total)
		if err != nil {
			s.log.Error().Err(err).Str("source", req.Source).Msg("funds pull failed")
			return nil, apperror.ErrTransferFromFailed(req.Source, s.params.CustodyAddress, total)
		}
		if !ok {
			return nil, apperror.ErrTransferFromFailed(req.Source, s.params.CustodyAddress, total)
		}
	}

	// One reserve interaction per batch, not per identifier.
	if err := s.reserve.Deposit(ctx, total); err != nil {
		return nil, apperror.ErrReserveUnavailable(err)
	}

	baseline, createdAt, err := s.batchBaseline(ctx)
	if err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	events := make([]domain.LedgerEvent, 0, len(req.IDs))
	for i, id := range req.IDs {
		existing, err := s.depositRepo.GetForUpdate(ctx, dbTx, id)
		if err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("check deposit %s: %w", id, err))
		}
		if existing != nil {
			return nil, apperror.ErrDepositExists(id.String())
		}

		rec := &domain.DepositRecord{
			ID:             id,
			Principal:      new(big.Int).Set(req.Amounts[i]),
			CreatedAt:      createdAt,
			TicksAtDeposit: baseline,
		}
		if err := s.depositRepo.Insert(ctx, dbTx, rec); err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("insert deposit %s: %w", id, err))
		}

		ev := domain.NewDepositCreatedEvent(id, req.Amounts[i], createdAt)
		if err := s.eventRepo.Append(ctx, dbTx, ev); err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("append event for %s: %w", id, err))
		}
		events = append(events, *ev)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("commit batch create: %w", err))
	}

	if s.notifier != nil {
		s.notifier.NotifyEvents(ctx, events)
	}

	s.log.Info().
		Int("count", len(req.IDs)).
		Str("total", total.String()).
		Str("ticks_at_deposit", baseline.String()).
		Time("created_at", createdAt).
		Msg("deposit batch created")

	return &ports.BatchCreateResult{
		Total:          total,
		CreatedAt:      createdAt,
		TicksAtDeposit: baseline,
		Count:          len(req.IDs),
	}, nil
}

// RedeemDeposits implements the batch redemption protocol. Ledger deletions
// and redemption events stay uncommitted until the reserve pays out exactly
// the accumulated total; any mismatch aborts the whole call.
func (s *LedgerServiceImpl) RedeemDeposits(ctx context.Context, req ports.RedeemBatchRequest) (*ports.BatchRedeemResult, error) {
	if len(req.IDs) == 0 {
		return nil, apperror.ErrBatchLengthMismatch()
	}

	if err := s.requireOperator(ctx, req.OperatorAddress); err != nil {
		return nil, err
	}
	allowed, err := s.authority.IsAuthorized(ctx, req.Receiver, domain.CapabilityReceiver)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("receiver capability check: %w", err))
	}
	if !allowed {
		return nil, apperror.ErrInvalidReceiver(req.Receiver)
	}

	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return nil, apperror.ErrLockTimeout(err)
	}
	defer release()

	now := time.Now().UTC().Truncate(time.Second)
	ticksNow, err := s.reserve.TickCountAt(ctx, now)
	if err != nil {
		if errors.Is(err, ports.ErrTimestampBeforeLastRateChange) {
			return nil, apperror.ErrTimestampBeforeLastRateChange()
		}
		return nil, apperror.ErrReserveUnavailable(err)
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	total := big.NewInt(0)
	events := make([]domain.LedgerEvent, 0, len(req.IDs))
	for _, id := range req.IDs {
		rec, err := s.depositRepo.GetForUpdate(ctx, dbTx, id)
		if err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("load deposit %s: %w", id, err))
		}
		if rec == nil {
			return nil, apperror.ErrDepositNotFound(id.String())
		}

		principal, netInterest := domain.Accrue(rec, now, ticksNow, s.params.FeeAnnualPPM)
		due := new(big.Int).Add(principal, netInterest)

		// Event before deletion, so the committed stream logs the payout.
		ev := domain.NewDepositRedeemedEvent(id, due, now)
		if err := s.eventRepo.Append(ctx, dbTx, ev); err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("append event for %s: %w", id, err))
		}
		if err := s.depositRepo.Remove(ctx, dbTx, id); err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("remove deposit %s: %w", id, err))
		}

		total.Add(total, due)
		events = append(events, *ev)
	}

	// One withdrawal for the accumulated total. The reserve may silently pay
	// less than requested; a partial fill must not survive, so the still-open
	// transaction is rolled back on any mismatch.
	paid, err := s.reserve.Withdraw(ctx, req.Receiver, total)
	if err != nil {
		return nil, apperror.ErrReserveUnavailable(err)
	}
	if paid == nil || paid.Cmp(total) != 0 {
		return nil, apperror.ErrUnexpectedWithdrawalAmount(total, paid)
	}

	if err := dbTx.Commit(ctx); err != nil {
		// The reserve has already paid out; the ledger still holds the
		// records. Needs operator reconciliation.
		s.log.Error().Err(err).
			Str("receiver", req.Receiver).
			Str("total", total.String()).
			Msg("commit failed after reserve withdrawal")
		return nil, apperror.ErrDatabaseError(fmt.Errorf("commit batch redeem: %w", err))
	}

	if s.notifier != nil {
		s.notifier.NotifyEvents(ctx, events)
	}

	s.log.Info().
		Int("count", len(req.IDs)).
		Str("total", total.String()).
		Str("receiver", req.Receiver).
		Msg("deposit batch redeemed")

	return &ports.BatchRedeemResult{
		Total:      total,
		RedeemedAt: now,
		Count:      len(req.IDs),
	}, nil
}

// GetDeposit resolves one deposit with interest accrued at the current time.
func (s *LedgerServiceImpl) GetDeposit(ctx context.Context, id domain.DepositID) (*ports.DepositInfo, error) {
	rec, err := s.depositRepo.Get(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("load deposit %s: %w", id, err))
	}
	if rec == nil {
		return nil, apperror.ErrDepositNotFound(id.String())
	}

	now := time.Now().UTC().Truncate(time.Second)
	var ticksNow *big.Int
	if !now.Before(rec.CreatedAt) {
		ticksNow, err = s.reserve.TickCountAt(ctx, now)
		if err != nil {
			if errors.Is(err, ports.ErrTimestampBeforeLastRateChange) {
				return nil, apperror.ErrTimestampBeforeLastRateChange()
			}
			return nil, apperror.ErrReserveUnavailable(err)
		}
	}

	principal, netInterest := domain.Accrue(rec, now, ticksNow, s.params.FeeAnnualPPM)
	return &ports.DepositInfo{
		ID:             rec.ID,
		Principal:      principal,
		NetInterest:    netInterest,
		CreatedAt:      rec.CreatedAt,
		TicksAtDeposit: rec.TicksAtDeposit,
	}, nil
}

// batchBaseline computes the shared creation timestamp and tick baseline for
// one batch: the reserve's counter advanced past the activation delay.
func (s *LedgerServiceImpl) batchBaseline(ctx context.Context) (*big.Int, time.Time, error) {
	ticks, err := s.reserve.CurrentTickCount(ctx)
	if err != nil {
		return nil, time.Time{}, apperror.ErrReserveUnavailable(err)
	}
	rate, err := s.reserve.CurrentRatePPM(ctx)
	if err != nil {
		return nil, time.Time{}, apperror.ErrReserveUnavailable(err)
	}
	delay, err := s.reserve.ActivationDelay(ctx)
	if err != nil {
		return nil, time.Time{}, apperror.ErrReserveUnavailable(err)
	}
	createdAt := time.Now().UTC().Truncate(time.Second)
	return domain.BatchBaseline(ticks, rate, delay), createdAt, nil
}

func (s *LedgerServiceImpl) requireOperator(ctx context.Context, address string) error {
	allowed, err := s.authority.IsAuthorized(ctx, address, domain.CapabilityOperator)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("operator capability check: %w", err))
	}
	if !allowed {
		return apperror.ErrNotOperator(address)
	}
	return nil
}
