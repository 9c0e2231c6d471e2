package domain

import (
	"time"

	"github.com/google/uuid"
)

// OperatorStatus represents the lifecycle state of an operator account.
type OperatorStatus string

const (
	OperatorStatusActive    OperatorStatus = "ACTIVE"
	OperatorStatusSuspended OperatorStatus = "SUSPENDED"
)

// Operator is an API account allowed to call the ledger. Whether the account
// may actually move funds is decided per call by the external permission
// authority against its on-ledger address.
type Operator struct {
	ID           uuid.UUID      `json:"id"`
	Username     string         `json:"username"`
	PasswordHash string         `json:"-"` // Argon2id
	Name         string         `json:"name"`
	Address      string         `json:"address"` // on-ledger address checked by the authority
	AccessKey    string         `json:"access_key"`
	SecretKeyEnc string         `json:"-"` // AES-256-GCM encrypted HMAC secret
	Status       OperatorStatus `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
}

// IsActive returns true if the operator may authenticate.
func (o *Operator) IsActive() bool {
	return o.Status == OperatorStatusActive
}
