package service

import (
	"context"
	"fmt"

	"batched-savings-ledger/internal/core/domain"
	"batched-savings-ledger/internal/core/ports"
	"batched-savings-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// ReportingServiceImpl implements ports.ReportingService. All history queries
// run against the append-only event stream; the ledger mapping itself exposes
// no enumeration.
type ReportingServiceImpl struct {
	depositRepo ports.DepositRepository
	eventRepo   ports.EventRepository
	reserve     ports.YieldReserve
	log         zerolog.Logger
}

// NewReportingService creates a new ReportingServiceImpl.
func NewReportingService(
	depositRepo ports.DepositRepository,
	eventRepo ports.EventRepository,
	reserve ports.YieldReserve,
	log zerolog.Logger,
) *ReportingServiceImpl {
	return &ReportingServiceImpl{
		depositRepo: depositRepo,
		eventRepo:   eventRepo,
		reserve:     reserve,
		log:         log,
	}
}

// ListEvents returns a filtered, paginated slice of ledger events.
func (s *ReportingServiceImpl) ListEvents(ctx context.Context, params ports.EventListParams) ([]domain.LedgerEvent, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}
	events, total, err := s.eventRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.ErrDatabaseError(fmt.Errorf("list events: %w", err))
	}
	return events, total, nil
}

// DepositHistory returns every event recorded for one identifier.
func (s *ReportingServiceImpl) DepositHistory(ctx context.Context, id domain.DepositID) ([]domain.LedgerEvent, error) {
	events, err := s.eventRepo.ListByDeposit(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("deposit history: %w", err))
	}
	return events, nil
}

// GetLedgerSummary aggregates the live ledger and the reserve's current view.
func (s *ReportingServiceImpl) GetLedgerSummary(ctx context.Context) (*ports.LedgerSummary, error) {
	count, principal, err := s.depositRepo.CountLive(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("count live deposits: %w", err))
	}

	summary := &ports.LedgerSummary{
		LiveDeposits:   count,
		TotalPrincipal: principal,
	}

	// Reserve figures are informational; an unreachable reserve degrades the
	// summary instead of failing it.
	if rate, err := s.reserve.CurrentRatePPM(ctx); err == nil {
		summary.ReserveRatePPM = rate
	} else {
		s.log.Warn().Err(err).Msg("summary: reserve rate unavailable")
	}
	if ticks, err := s.reserve.CurrentTickCount(ctx); err == nil {
		summary.ReserveTicks = ticks.String()
	} else {
		s.log.Warn().Err(err).Msg("summary: reserve ticks unavailable")
	}

	return summary, nil
}
