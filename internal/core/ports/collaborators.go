package ports

import (
	"context"
	"errors"
	"math/big"
	"time"

	"batched-savings-ledger/internal/core/domain"
)

// ErrTimestampBeforeLastRateChange is the sentinel returned by
// YieldReserve.TickCountAt when the reserve cannot resolve a tick value for a
// moment earlier than its last rate change. Callers must not substitute a
// computed value.
var ErrTimestampBeforeLastRateChange = errors.New("timestamp precedes the reserve's last rate change")

// PermissionAuthority is the external capability oracle.
type PermissionAuthority interface {
	// IsAuthorized reports whether the address holds the capability.
	IsAuthorized(ctx context.Context, address string, capability domain.Capability) (bool, error)
}

// AssetTransferService moves fungible settlement currency (and, for rescue
// operations, arbitrary assets) between accounts. The boolean mirrors the
// token contract's own success flag; a false return with nil error means the
// token refused the transfer.
type AssetTransferService interface {
	TransferFrom(ctx context.Context, token, from, to string, amount *big.Int) (bool, error)
	Transfer(ctx context.Context, token, to string, amount *big.Int) (bool, error)
	BalanceOf(ctx context.Context, token, address string) (*big.Int, error)
}

// YieldReserve is the external savings module holding the aggregated funds.
type YieldReserve interface {
	// Deposit forwards funds already in the reserve's settlement currency.
	Deposit(ctx context.Context, amount *big.Int) error
	// CurrentTickCount returns the reserve's monotonic tick counter
	// (ppm-seconds of accrual).
	CurrentTickCount(ctx context.Context) (*big.Int, error)
	// TickCountAt resolves the counter at an arbitrary timestamp. Fails with
	// ErrTimestampBeforeLastRateChange for timestamps the reserve cannot
	// resolve.
	TickCountAt(ctx context.Context, at time.Time) (*big.Int, error)
	// CurrentRatePPM returns the current annual interest rate in ppm.
	CurrentRatePPM(ctx context.Context) (int64, error)
	// ActivationDelay returns the delay before a new deposit starts earning.
	ActivationDelay(ctx context.Context) (time.Duration, error)
	// Withdraw pays out up to amount to target and returns what was actually
	// paid; the reserve silently pays less when underfunded.
	Withdraw(ctx context.Context, target string, amount *big.Int) (*big.Int, error)
}
