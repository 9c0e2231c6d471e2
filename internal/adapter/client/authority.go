package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"batched-savings-ledger/config"
	"batched-savings-ledger/internal/core/domain"
	"batched-savings-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

// AuthorityClient implements ports.PermissionAuthority against the capability
// oracle's HTTP API.
type AuthorityClient struct {
	baseClient
}

// NewAuthorityClient creates a new permission authority client.
func NewAuthorityClient(cfg config.ClientConfig, log zerolog.Logger) ports.PermissionAuthority {
	return &AuthorityClient{baseClient: newBaseClient(cfg, log)}
}

type authorizedResponse struct {
	Authorized bool `json:"authorized"`
}

// IsAuthorized reports whether the address holds the capability. The oracle
// answers 200 with a boolean for every known capability; any other status is
// an oracle failure, not a denial.
func (c *AuthorityClient) IsAuthorized(ctx context.Context, address string, capability domain.Capability) (bool, error) {
	path := fmt.Sprintf("/v1/capabilities/%s/holders/%s",
		url.PathEscape(string(capability)), url.PathEscape(address))

	var out authorizedResponse
	status, err := c.do(ctx, http.MethodGet, path, nil, &out)
	if err != nil {
		return false, fmt.Errorf("permission authority: %w", err)
	}
	if status != http.StatusOK {
		return false, statusError("permission authority", status)
	}
	return out.Authorized, nil
}
