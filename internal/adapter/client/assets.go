package client

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"net/url"

	"batched-savings-ledger/config"
	"batched-savings-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

// AssetsClient implements ports.AssetTransferService against the settlement
// network's HTTP API. Amounts cross the wire as decimal strings.
type AssetsClient struct {
	baseClient
}

// NewAssetsClient creates a new asset transfer client.
func NewAssetsClient(cfg config.ClientConfig, log zerolog.Logger) ports.AssetTransferService {
	return &AssetsClient{baseClient: newBaseClient(cfg, log)}
}

type transferRequest struct {
	Token  string `json:"token"`
	From   string `json:"from,omitempty"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type transferResponse struct {
	OK bool `json:"ok"`
}

type balanceResponse struct {
	Balance string `json:"balance"`
}

// TransferFrom pulls amount of token from `from` into `to`. A false return
// with nil error mirrors the token contract refusing the transfer.
func (c *AssetsClient) TransferFrom(ctx context.Context, token, from, to string, amount *big.Int) (bool, error) {
	return c.transfer(ctx, transferRequest{Token: token, From: from, To: to, Amount: amount.String()})
}

// Transfer sends amount of token from the ledger's own account to `to`.
func (c *AssetsClient) Transfer(ctx context.Context, token, to string, amount *big.Int) (bool, error) {
	return c.transfer(ctx, transferRequest{Token: token, To: to, Amount: amount.String()})
}

func (c *AssetsClient) transfer(ctx context.Context, req transferRequest) (bool, error) {
	var out transferResponse
	status, err := c.do(ctx, http.MethodPost, "/v1/transfers", req, &out)
	if err != nil {
		return false, fmt.Errorf("asset transfer: %w", err)
	}
	if status != http.StatusOK {
		return false, statusError("asset transfer service", status)
	}
	return out.OK, nil
}

// BalanceOf returns the token balance held by address.
func (c *AssetsClient) BalanceOf(ctx context.Context, token, address string) (*big.Int, error) {
	path := fmt.Sprintf("/v1/balances/%s/%s", url.PathEscape(token), url.PathEscape(address))

	var out balanceResponse
	status, err := c.do(ctx, http.MethodGet, path, nil, &out)
	if err != nil {
		return nil, fmt.Errorf("asset transfer: %w", err)
	}
	if status != http.StatusOK {
		return nil, statusError("asset transfer service", status)
	}

	balance, ok := new(big.Int).SetString(out.Balance, 10)
	if !ok {
		return nil, fmt.Errorf("asset transfer: unparseable balance %q", out.Balance)
	}
	return balance, nil
}
