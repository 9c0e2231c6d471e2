package integration

import (
	"context"
	"math/big"
	"sync"
	"time"

	"batched-savings-ledger/internal/core/domain"
	"batched-savings-ledger/internal/core/ports"
)

// --- Fake Permission Authority ---

// fakeAuthority grants capabilities from a static address -> capability map.
type fakeAuthority struct {
	mu     sync.RWMutex
	grants map[string]map[domain.Capability]bool
}

func newFakeAuthority() *fakeAuthority {
	return &fakeAuthority{grants: make(map[string]map[domain.Capability]bool)}
}

func (a *fakeAuthority) grant(address string, caps ...domain.Capability) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.grants[address] == nil {
		a.grants[address] = make(map[domain.Capability]bool)
	}
	for _, c := range caps {
		a.grants[address][c] = true
	}
}

func (a *fakeAuthority) IsAuthorized(ctx context.Context, address string, capability domain.Capability) (bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.grants[address][capability], nil
}

// --- Fake Asset Transfer Service ---

type recordedTransfer struct {
	Token  string
	From   string
	To     string
	Amount *big.Int
}

// fakeAssets records every transfer and succeeds unless refuse is set.
type fakeAssets struct {
	mu        sync.Mutex
	refuse    bool
	transfers []recordedTransfer
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{}
}

func (f *fakeAssets) TransferFrom(ctx context.Context, token, from, to string, amount *big.Int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refuse {
		return false, nil
	}
	f.transfers = append(f.transfers, recordedTransfer{token, from, to, new(big.Int).Set(amount)})
	return true, nil
}

func (f *fakeAssets) Transfer(ctx context.Context, token, to string, amount *big.Int) (bool, error) {
	return f.TransferFrom(ctx, token, "", to, amount)
}

func (f *fakeAssets) BalanceOf(ctx context.Context, token, address string) (*big.Int, error) {
	return big.NewInt(0), nil
}

// --- Fake Yield Reserve ---

// fakeReserve models the external savings module with a linear tick counter:
// ticks(t) = ratePPM * seconds since a fixed epoch. Withdrawals pay out up to
// the held balance, silently short-paying when underfunded.
type fakeReserve struct {
	mu             sync.Mutex
	balance        *big.Int
	ratePPM        int64
	delay          time.Duration
	epoch          time.Time
	lastRateChange time.Time
}

func newFakeReserve() *fakeReserve {
	epoch := time.Now().UTC().Add(-time.Hour)
	return &fakeReserve{
		balance:        big.NewInt(0),
		ratePPM:        50_000,
		delay:          time.Hour,
		epoch:          epoch,
		lastRateChange: epoch,
	}
}

func (r *fakeReserve) ticksAt(t time.Time) *big.Int {
	elapsed := t.Unix() - r.epoch.Unix()
	if elapsed < 0 {
		elapsed = 0
	}
	return new(big.Int).Mul(big.NewInt(r.ratePPM), big.NewInt(elapsed))
}

func (r *fakeReserve) Deposit(ctx context.Context, amount *big.Int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balance.Add(r.balance, amount)
	return nil
}

func (r *fakeReserve) CurrentTickCount(ctx context.Context) (*big.Int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ticksAt(time.Now().UTC()), nil
}

func (r *fakeReserve) TickCountAt(ctx context.Context, at time.Time) (*big.Int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if at.Before(r.lastRateChange) {
		return nil, ports.ErrTimestampBeforeLastRateChange
	}
	return r.ticksAt(at), nil
}

func (r *fakeReserve) CurrentRatePPM(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ratePPM, nil
}

func (r *fakeReserve) ActivationDelay(ctx context.Context) (time.Duration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.delay, nil
}

func (r *fakeReserve) Withdraw(ctx context.Context, target string, amount *big.Int) (*big.Int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	paid := new(big.Int).Set(amount)
	if paid.Cmp(r.balance) > 0 {
		paid.Set(r.balance)
	}
	r.balance.Sub(r.balance, paid)
	return paid, nil
}
