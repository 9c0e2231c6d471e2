package service

import (
	"context"
	"fmt"
	"math/big"

	"batched-savings-ledger/internal/core/domain"
	"batched-savings-ledger/internal/core/ports"
	"batched-savings-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// TreasuryServiceImpl implements ports.TreasuryService: untracked top-ups,
// discretionary withdrawals and stray-asset recovery. None of these touch
// deposit records.
type TreasuryServiceImpl struct {
	authority ports.PermissionAuthority
	assets    ports.AssetTransferService
	reserve   ports.YieldReserve
	lock      ports.MutationLock
	params    LedgerParams
	log       zerolog.Logger
}

// NewTreasuryService creates a new TreasuryServiceImpl.
func NewTreasuryService(
	authority ports.PermissionAuthority,
	assets ports.AssetTransferService,
	reserve ports.YieldReserve,
	lock ports.MutationLock,
	params LedgerParams,
	log zerolog.Logger,
) *TreasuryServiceImpl {
	return &TreasuryServiceImpl{
		authority: authority,
		assets:    assets,
		reserve:   reserve,
		lock:      lock,
		params:    params,
		log:       log,
	}
}

// AddFunds pulls funds (unless the custody account is the source) and
// forwards them to the reserve without creating any ledger record. Used to
// correct under-funding.
func (s *TreasuryServiceImpl) AddFunds(ctx context.Context, req ports.AddFundsRequest) error {
	if req.Amount == nil || req.Amount.Sign() <= 0 {
		return apperror.ErrZeroAmount()
	}
	if err := s.requireOperator(ctx, req.OperatorAddress); err != nil {
		return err
	}

	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return apperror.ErrLockTimeout(err)
	}
	defer release()

	if req.Source != s.params.CustodyAddress {
		ok, err := s.assets.TransferFrom(ctx, s.params.SettlementToken, req.Source, s.params.CustodyAddress, req.Amount)
		if err != nil {
			s.log.Error().Err(err).Str("source", req.Source).Msg("treasury funds pull failed")
			return apperror.ErrTransferFromFailed(req.Source, s.params.CustodyAddress, req.Amount)
		}
		if !ok {
			return apperror.ErrTransferFromFailed(req.Source, s.params.CustodyAddress, req.Amount)
		}
	}

	if err := s.reserve.Deposit(ctx, req.Amount); err != nil {
		return apperror.ErrReserveUnavailable(err)
	}

	s.log.Info().
		Str("amount", req.Amount.String()).
		Str("source", req.Source).
		Msg("untracked funds added to reserve")
	return nil
}

// MoveFunds withdraws up to the requested amount from the reserve to a
// capability-holding receiver. The reserve's own clamping is trusted: the
// amount actually paid is returned, not validated against the request.
func (s *TreasuryServiceImpl) MoveFunds(ctx context.Context, req ports.MoveFundsRequest) (*big.Int, error) {
	if req.Amount == nil || req.Amount.Sign() <= 0 {
		return nil, apperror.ErrZeroAmount()
	}
	if err := s.requireOperator(ctx, req.OperatorAddress); err != nil {
		return nil, err
	}
	if err := s.requireReceiver(ctx, req.Receiver); err != nil {
		return nil, err
	}

	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return nil, apperror.ErrLockTimeout(err)
	}
	defer release()

	paid, err := s.reserve.Withdraw(ctx, req.Receiver, req.Amount)
	if err != nil {
		return nil, apperror.ErrReserveUnavailable(err)
	}

	s.log.Info().
		Str("requested", req.Amount.String()).
		Str("paid", paid.String()).
		Str("receiver", req.Receiver).
		Msg("discretionary withdrawal")
	return paid, nil
}

// RescueTokens transfers stray assets held directly by the custody account to
// a capability-holding receiver. The zero-address sentinel selects the native
// currency. Funds already forwarded into the reserve cannot be recovered this
// way.
func (s *TreasuryServiceImpl) RescueTokens(ctx context.Context, req ports.RescueRequest) error {
	if req.Amount == nil || req.Amount.Sign() <= 0 {
		return apperror.ErrZeroAmount()
	}
	if err := s.requireOperator(ctx, req.OperatorAddress); err != nil {
		return err
	}
	if err := s.requireReceiver(ctx, req.Receiver); err != nil {
		return err
	}

	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return apperror.ErrLockTimeout(err)
	}
	defer release()

	token := req.Token
	if token == "" {
		token = domain.ZeroAddress
	}
	ok, err := s.assets.Transfer(ctx, token, req.Receiver, req.Amount)
	if err != nil {
		s.log.Error().Err(err).Str("token", token).Msg("rescue transfer failed")
		return apperror.ErrTransferFromFailed(s.params.CustodyAddress, req.Receiver, req.Amount)
	}
	if !ok {
		return apperror.ErrTransferFromFailed(s.params.CustodyAddress, req.Receiver, req.Amount)
	}

	s.log.Info().
		Str("token", token).
		Str("amount", req.Amount.String()).
		Str("receiver", req.Receiver).
		Msg("stray assets rescued")
	return nil
}

func (s *TreasuryServiceImpl) requireOperator(ctx context.Context, address string) error {
	allowed, err := s.authority.IsAuthorized(ctx, address, domain.CapabilityOperator)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("operator capability check: %w", err))
	}
	if !allowed {
		return apperror.ErrNotOperator(address)
	}
	return nil
}

func (s *TreasuryServiceImpl) requireReceiver(ctx context.Context, address string) error {
	allowed, err := s.authority.IsAuthorized(ctx, address, domain.CapabilityReceiver)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("receiver capability check: %w", err))
	}
	if !allowed {
		return apperror.ErrInvalidReceiver(address)
	}
	return nil
}
