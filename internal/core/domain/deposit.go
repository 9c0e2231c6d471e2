package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

// DepositID is the opaque fixed-size identifier of a deposit: a one-way hash
// of an off-chain customer reference. Hashing keeps personally identifying
// data out of durable state.
type DepositID [32]byte

// DepositIDFromReference derives the identifier for an off-chain customer
// reference.
func DepositIDFromReference(reference string) DepositID {
	return DepositID(sha256.Sum256([]byte(reference)))
}

// ParseDepositID decodes a 64-character hex identifier.
func ParseDepositID(s string) (DepositID, error) {
	var id DepositID
	raw, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("parse deposit id: %w", err)
	}
	if len(raw) != len(id) {
		return id, fmt.Errorf("parse deposit id: expected %d bytes, got %d", len(id), len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

func (id DepositID) String() string {
	return hex.EncodeToString(id[:])
}

// Bytes returns the identifier as a byte slice for storage.
func (id DepositID) Bytes() []byte {
	b := make([]byte, len(id))
	copy(b, id[:])
	return b
}

// MaxDepositAmount is the largest representable principal for a single
// deposit (and for one batch's total): 2^192 - 1.
var MaxDepositAmount = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 192), big.NewInt(1))

// DepositRecord is an immutable ledger entry for one identified deposit.
// Records are written once at batch creation and deleted exactly once at
// redemption; they are never updated in place.
type DepositRecord struct {
	ID        DepositID `json:"id"`
	Principal *big.Int  `json:"principal"`
	CreatedAt time.Time `json:"created_at"`
	// TicksAtDeposit is the reserve tick counter the deposit accrues from,
	// already advanced past the reserve's activation delay.
	TicksAtDeposit *big.Int `json:"ticks_at_deposit"`
}

// Capability is a permission kind granted by the external authority.
type Capability string

const (
	// CapabilityOperator allows creating and redeeming deposits and moving funds.
	CapabilityOperator Capability = "operator"
	// CapabilityReceiver allows being the destination of funds.
	CapabilityReceiver Capability = "receiver"
)

// ZeroAddress is the sentinel selecting the native currency in rescue
// operations.
const ZeroAddress = "0x0000000000000000000000000000000000000000"
