package client

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"batched-savings-ledger/config"
	"batched-savings-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

// ReserveClient implements ports.YieldReserve against the savings module's
// HTTP API. Tick counters and amounts cross the wire as decimal strings; a
// 409 from the tick-resolution endpoint means the requested timestamp
// precedes the reserve's last rate change.
type ReserveClient struct {
	baseClient
}

// NewReserveClient creates a new yield reserve client.
func NewReserveClient(cfg config.ClientConfig, log zerolog.Logger) ports.YieldReserve {
	return &ReserveClient{baseClient: newBaseClient(cfg, log)}
}

type reserveDepositRequest struct {
	Amount string `json:"amount"`
}

type ticksResponse struct {
	Ticks string `json:"ticks"`
}

type rateResponse struct {
	RatePPM int64 `json:"rate_ppm"`
}

type activationDelayResponse struct {
	Seconds int64 `json:"seconds"`
}

type withdrawRequest struct {
	Target string `json:"target"`
	Amount string `json:"amount"`
}

type withdrawResponse struct {
	Paid string `json:"paid"`
}

// Deposit forwards funds already sitting in the reserve's settlement currency.
func (c *ReserveClient) Deposit(ctx context.Context, amount *big.Int) error {
	req := reserveDepositRequest{Amount: amount.String()}
	status, err := c.do(ctx, http.MethodPost, "/v1/deposits", req, nil)
	if err != nil {
		return fmt.Errorf("reserve: %w", err)
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return statusError("reserve", status)
	}
	return nil
}

// CurrentTickCount returns the reserve's monotonic tick counter.
func (c *ReserveClient) CurrentTickCount(ctx context.Context) (*big.Int, error) {
	var out ticksResponse
	status, err := c.do(ctx, http.MethodGet, "/v1/ticks", nil, &out)
	if err != nil {
		return nil, fmt.Errorf("reserve: %w", err)
	}
	if status != http.StatusOK {
		return nil, statusError("reserve", status)
	}
	return parseTicks(out.Ticks)
}

// TickCountAt resolves the tick counter at an arbitrary timestamp. The
// reserve refuses timestamps older than its last rate change with a 409,
// which surfaces as ports.ErrTimestampBeforeLastRateChange.
func (c *ReserveClient) TickCountAt(ctx context.Context, at time.Time) (*big.Int, error) {
	path := fmt.Sprintf("/v1/ticks?at=%d", at.Unix())

	var out ticksResponse
	status, err := c.do(ctx, http.MethodGet, path, nil, &out)
	if err != nil {
		return nil, fmt.Errorf("reserve: %w", err)
	}
	if status == http.StatusConflict {
		return nil, ports.ErrTimestampBeforeLastRateChange
	}
	if status != http.StatusOK {
		return nil, statusError("reserve", status)
	}
	return parseTicks(out.Ticks)
}

// CurrentRatePPM returns the reserve's current annual interest rate in ppm.
func (c *ReserveClient) CurrentRatePPM(ctx context.Context) (int64, error) {
	var out rateResponse
	status, err := c.do(ctx, http.MethodGet, "/v1/rate", nil, &out)
	if err != nil {
		return 0, fmt.Errorf("reserve: %w", err)
	}
	if status != http.StatusOK {
		return 0, statusError("reserve", status)
	}
	return out.RatePPM, nil
}

// ActivationDelay returns the delay before a new deposit starts earning.
func (c *ReserveClient) ActivationDelay(ctx context.Context) (time.Duration, error) {
	var out activationDelayResponse
	status, err := c.do(ctx, http.MethodGet, "/v1/activation-delay", nil, &out)
	if err != nil {
		return 0, fmt.Errorf("reserve: %w", err)
	}
	if status != http.StatusOK {
		return 0, statusError("reserve", status)
	}
	return time.Duration(out.Seconds) * time.Second, nil
}

// Withdraw pays out up to amount to target and returns what the reserve
// actually paid; an underfunded reserve silently pays less.
func (c *ReserveClient) Withdraw(ctx context.Context, target string, amount *big.Int) (*big.Int, error) {
	req := withdrawRequest{Target: target, Amount: amount.String()}

	var out withdrawResponse
	status, err := c.do(ctx, http.MethodPost, "/v1/withdrawals", req, &out)
	if err != nil {
		return nil, fmt.Errorf("reserve: %w", err)
	}
	if status != http.StatusOK {
		return nil, statusError("reserve", status)
	}

	paid, ok := new(big.Int).SetString(out.Paid, 10)
	if !ok {
		return nil, fmt.Errorf("reserve: unparseable payout %q", out.Paid)
	}
	return paid, nil
}

func parseTicks(s string) (*big.Int, error) {
	ticks, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("reserve: unparseable tick count %q", s)
	}
	return ticks, nil
}
