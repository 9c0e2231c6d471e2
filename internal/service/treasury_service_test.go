package service

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"batched-savings-ledger/internal/core/domain"
	"batched-savings-ledger/internal/core/ports"
	"batched-savings-ledger/internal/core/ports/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type treasuryTestDeps struct {
	svc       *TreasuryServiceImpl
	authority *mocks.MockPermissionAuthority
	assets    *mocks.MockAssetTransferService
	reserve   *mocks.MockYieldReserve
	lock      *mocks.MockMutationLock
	ctrl      *gomock.Controller
}

func setupTreasuryService(t *testing.T) *treasuryTestDeps {
	ctrl := gomock.NewController(t)
	d := &treasuryTestDeps{
		authority: mocks.NewMockPermissionAuthority(ctrl),
		assets:    mocks.NewMockAssetTransferService(ctrl),
		reserve:   mocks.NewMockYieldReserve(ctrl),
		lock:      mocks.NewMockMutationLock(ctrl),
		ctrl:      ctrl,
	}
	d.svc = NewTreasuryService(
		d.authority, d.assets, d.reserve, d.lock,
		LedgerParams{
			FeeAnnualPPM:    12500,
			SettlementToken: testToken,
			CustodyAddress:  testCustody,
		},
		zerolog.Nop(),
	)
	return d
}

// ==================== AddFunds Tests ====================

func TestTreasuryService_AddFunds_Success(t *testing.T) {
	d := setupTreasuryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	amount := big.NewInt(10_000)

	d.authority.EXPECT().IsAuthorized(ctx, testOperator, domain.CapabilityOperator).Return(true, nil)
	d.lock.EXPECT().Acquire(ctx).Return(func() {}, nil)
	d.assets.EXPECT().TransferFrom(ctx, testToken, testSource, testCustody, amount).Return(true, nil)
	d.reserve.EXPECT().Deposit(ctx, amount).Return(nil)

	err := d.svc.AddFunds(ctx, ports.AddFundsRequest{
		OperatorAddress: testOperator,
		Source:          testSource,
		Amount:          amount,
	})
	require.NoError(t, err)
}

func TestTreasuryService_AddFunds_CustodySourceSkipsPull(t *testing.T) {
	d := setupTreasuryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	amount := big.NewInt(10_000)

	d.authority.EXPECT().IsAuthorized(ctx, testOperator, domain.CapabilityOperator).Return(true, nil)
	d.lock.EXPECT().Acquire(ctx).Return(func() {}, nil)
	d.reserve.EXPECT().Deposit(ctx, amount).Return(nil)

	err := d.svc.AddFunds(ctx, ports.AddFundsRequest{
		OperatorAddress: testOperator,
		Source:          testCustody,
		Amount:          amount,
	})
	require.NoError(t, err)
}

func TestTreasuryService_AddFunds_ZeroAmount(t *testing.T) {
	d := setupTreasuryService(t)
	defer d.ctrl.Finish()

	err := d.svc.AddFunds(context.Background(), ports.AddFundsRequest{
		OperatorAddress: testOperator,
		Source:          testSource,
		Amount:          big.NewInt(0),
	})
	assertCode(t, err, "LED_004")
}

func TestTreasuryService_AddFunds_NotOperator(t *testing.T) {
	d := setupTreasuryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.authority.EXPECT().IsAuthorized(ctx, testOperator, domain.CapabilityOperator).Return(false, nil)

	err := d.svc.AddFunds(ctx, ports.AddFundsRequest{
		OperatorAddress: testOperator,
		Source:          testSource,
		Amount:          big.NewInt(1),
	})
	assertCode(t, err, "AUTH_004")
}

func TestTreasuryService_AddFunds_TransferRefused(t *testing.T) {
	d := setupTreasuryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	amount := big.NewInt(77)

	d.authority.EXPECT().IsAuthorized(ctx, testOperator, domain.CapabilityOperator).Return(true, nil)
	d.lock.EXPECT().Acquire(ctx).Return(func() {}, nil)
	d.assets.EXPECT().TransferFrom(ctx, testToken, testSource, testCustody, amount).Return(false, nil)

	err := d.svc.AddFunds(ctx, ports.AddFundsRequest{
		OperatorAddress: testOperator,
		Source:          testSource,
		Amount:          amount,
	})
	assertCode(t, err, "TRF_001")
}

// ==================== MoveFunds Tests ====================

func TestTreasuryService_MoveFunds_Success(t *testing.T) {
	d := setupTreasuryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	amount := big.NewInt(50_000)

	d.authority.EXPECT().IsAuthorized(ctx, testOperator, domain.CapabilityOperator).Return(true, nil)
	d.authority.EXPECT().IsAuthorized(ctx, testReceiver, domain.CapabilityReceiver).Return(true, nil)
	d.lock.EXPECT().Acquire(ctx).Return(func() {}, nil)
	d.reserve.EXPECT().Withdraw(ctx, testReceiver, amount).Return(big.NewInt(50_000), nil)

	paid, err := d.svc.MoveFunds(ctx, ports.MoveFundsRequest{
		OperatorAddress: testOperator,
		Receiver:        testReceiver,
		Amount:          amount,
	})
	require.NoError(t, err)
	assert.Zero(t, amount.Cmp(paid))
}

func TestTreasuryService_MoveFunds_PartialPayoutAccepted(t *testing.T) {
	d := setupTreasuryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	amount := big.NewInt(50_000)

	d.authority.EXPECT().IsAuthorized(ctx, testOperator, domain.CapabilityOperator).Return(true, nil)
	d.authority.EXPECT().IsAuthorized(ctx, testReceiver, domain.CapabilityReceiver).Return(true, nil)
	d.lock.EXPECT().Acquire(ctx).Return(func() {}, nil)
	// Clamped by the reserve's balance. Unlike redemption, the short fill is
	// returned as-is.
	d.reserve.EXPECT().Withdraw(ctx, testReceiver, amount).Return(big.NewInt(30_000), nil)

	paid, err := d.svc.MoveFunds(ctx, ports.MoveFundsRequest{
		OperatorAddress: testOperator,
		Receiver:        testReceiver,
		Amount:          amount,
	})
	require.NoError(t, err)
	assert.Zero(t, big.NewInt(30_000).Cmp(paid))
}

func TestTreasuryService_MoveFunds_InvalidReceiver(t *testing.T) {
	d := setupTreasuryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.authority.EXPECT().IsAuthorized(ctx, testOperator, domain.CapabilityOperator).Return(true, nil)
	d.authority.EXPECT().IsAuthorized(ctx, testReceiver, domain.CapabilityReceiver).Return(false, nil)

	_, err := d.svc.MoveFunds(ctx, ports.MoveFundsRequest{
		OperatorAddress: testOperator,
		Receiver:        testReceiver,
		Amount:          big.NewInt(1),
	})
	assertCode(t, err, "AUTH_005")
}

func TestTreasuryService_MoveFunds_ReserveUnavailable(t *testing.T) {
	d := setupTreasuryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	amount := big.NewInt(1)

	d.authority.EXPECT().IsAuthorized(ctx, testOperator, domain.CapabilityOperator).Return(true, nil)
	d.authority.EXPECT().IsAuthorized(ctx, testReceiver, domain.CapabilityReceiver).Return(true, nil)
	d.lock.EXPECT().Acquire(ctx).Return(func() {}, nil)
	d.reserve.EXPECT().Withdraw(ctx, testReceiver, amount).Return(nil, errors.New("connection refused"))

	_, err := d.svc.MoveFunds(ctx, ports.MoveFundsRequest{
		OperatorAddress: testOperator,
		Receiver:        testReceiver,
		Amount:          amount,
	})
	assertCode(t, err, "RSV_003")
}

// ==================== RescueTokens Tests ====================

func TestTreasuryService_RescueTokens_Success(t *testing.T) {
	d := setupTreasuryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	amount := big.NewInt(123)
	strayToken := "0x00000000000000000000000000000000000000ff"

	d.authority.EXPECT().IsAuthorized(ctx, testOperator, domain.CapabilityOperator).Return(true, nil)
	d.authority.EXPECT().IsAuthorized(ctx, testReceiver, domain.CapabilityReceiver).Return(true, nil)
	d.lock.EXPECT().Acquire(ctx).Return(func() {}, nil)
	d.assets.EXPECT().Transfer(ctx, strayToken, testReceiver, amount).Return(true, nil)

	err := d.svc.RescueTokens(ctx, ports.RescueRequest{
		OperatorAddress: testOperator,
		Token:           strayToken,
		Receiver:        testReceiver,
		Amount:          amount,
	})
	require.NoError(t, err)
}

func TestTreasuryService_RescueTokens_EmptyTokenSelectsNative(t *testing.T) {
	d := setupTreasuryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	amount := big.NewInt(123)

	d.authority.EXPECT().IsAuthorized(ctx, testOperator, domain.CapabilityOperator).Return(true, nil)
	d.authority.EXPECT().IsAuthorized(ctx, testReceiver, domain.CapabilityReceiver).Return(true, nil)
	d.lock.EXPECT().Acquire(ctx).Return(func() {}, nil)
	d.assets.EXPECT().Transfer(ctx, domain.ZeroAddress, testReceiver, amount).Return(true, nil)

	err := d.svc.RescueTokens(ctx, ports.RescueRequest{
		OperatorAddress: testOperator,
		Receiver:        testReceiver,
		Amount:          amount,
	})
	require.NoError(t, err)
}

func TestTreasuryService_RescueTokens_TransferRefused(t *testing.T) {
	d := setupTreasuryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	amount := big.NewInt(123)

	d.authority.EXPECT().IsAuthorized(ctx, testOperator, domain.CapabilityOperator).Return(true, nil)
	d.authority.EXPECT().IsAuthorized(ctx, testReceiver, domain.CapabilityReceiver).Return(true, nil)
	d.lock.EXPECT().Acquire(ctx).Return(func() {}, nil)
	d.assets.EXPECT().Transfer(ctx, domain.ZeroAddress, testReceiver, amount).Return(false, nil)

	err := d.svc.RescueTokens(ctx, ports.RescueRequest{
		OperatorAddress: testOperator,
		Receiver:        testReceiver,
		Amount:          amount,
	})
	assertCode(t, err, "TRF_001")
}
