package domain

import (
	"math/big"
	"time"

	"github.com/google/uuid"
)

// LedgerEventKind discriminates ledger event rows.
type LedgerEventKind string

const (
	EventDepositCreated  LedgerEventKind = "DEPOSIT_CREATED"
	EventDepositRedeemed LedgerEventKind = "DEPOSIT_REDEEMED"
)

// LedgerEvent is one append-only ledger event. Events are the only durable
// history the system keeps: records themselves are deleted at redemption, so
// any enumeration of past deposits is reconstructed from this stream.
type LedgerEvent struct {
	ID        uuid.UUID       `json:"id"`
	Kind      LedgerEventKind `json:"kind"`
	DepositID DepositID       `json:"deposit_id"`
	// Amount is the principal for DEPOSIT_CREATED and the total paid out
	// (principal plus net interest) for DEPOSIT_REDEEMED.
	Amount    *big.Int  `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDepositCreatedEvent builds the creation event for one deposit in a batch.
func NewDepositCreatedEvent(id DepositID, principal *big.Int, at time.Time) *LedgerEvent {
	return &LedgerEvent{
		ID:        uuid.New(),
		Kind:      EventDepositCreated,
		DepositID: id,
		Amount:    new(big.Int).Set(principal),
		CreatedAt: at,
	}
}

// NewDepositRedeemedEvent builds the redemption event for one deposit.
func NewDepositRedeemedEvent(id DepositID, total *big.Int, at time.Time) *LedgerEvent {
	return &LedgerEvent{
		ID:        uuid.New(),
		Kind:      EventDepositRedeemed,
		DepositID: id,
		Amount:    new(big.Int).Set(total),
		CreatedAt: at,
	}
}
