package ports

import (
	"context"
	"math/big"
	"time"

	"batched-savings-ledger/internal/core/domain"

	"github.com/google/uuid"
)

// EncryptionService handles AES-256-GCM encryption/decryption.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// SignatureService handles HMAC-SHA256 signing and verification.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
	BuildCanonicalString(method, path string, timestamp int64, nonce string, body string) string
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(operatorID uuid.UUID, accessKey string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	OperatorID uuid.UUID
	AccessKey  string
}

// NonceStore manages nonce uniqueness for replay attack prevention.
type NonceStore interface {
	// CheckAndSet atomically checks if nonce exists, sets it if not.
	// Returns true if nonce is new (valid), false if already used.
	CheckAndSet(ctx context.Context, operatorID string, nonce string, ttl time.Duration) (bool, error)
}

// MutationLock is the ledger's non-reentrant guard: every mutating operation
// holds it for its full duration, so batches never interleave.
type MutationLock interface {
	// Acquire blocks until the lock is held or the wait budget is exhausted.
	// The returned release function must be called on every exit path.
	Acquire(ctx context.Context) (release func(), err error)
}

// --- Service Ports (Business Logic) ---

// LedgerService defines the core deposit ledger business logic.
type LedgerService interface {
	CreateDeposits(ctx context.Context, req CreateBatchRequest) (*BatchCreateResult, error)
	RedeemDeposits(ctx context.Context, req RedeemBatchRequest) (*BatchRedeemResult, error)
	GetDeposit(ctx context.Context, id domain.DepositID) (*DepositInfo, error)
}

// CreateBatchRequest holds validated input for batch deposit creation.
// IDs and Amounts are parallel sequences.
type CreateBatchRequest struct {
	OperatorAddress string
	Source          string
	IDs             []domain.DepositID
	Amounts         []*big.Int
}

// BatchCreateResult reports the committed batch baseline.
type BatchCreateResult struct {
	Total          *big.Int
	CreatedAt      time.Time
	TicksAtDeposit *big.Int
	Count          int
}

// RedeemBatchRequest holds validated input for batch redemption.
type RedeemBatchRequest struct {
	OperatorAddress string
	Receiver        string
	IDs             []domain.DepositID
}

// BatchRedeemResult reports the settled redemption.
type BatchRedeemResult struct {
	Total      *big.Int
	RedeemedAt time.Time
	Count      int
}

// DepositInfo is the read-only view of one deposit with accrual resolved at
// query time.
type DepositInfo struct {
	ID             domain.DepositID
	Principal      *big.Int
	NetInterest    *big.Int
	CreatedAt      time.Time
	TicksAtDeposit *big.Int
}

// TreasuryService defines the untracked funding utilities.
type TreasuryService interface {
	// AddFunds forwards amount to the reserve without creating any record.
	AddFunds(ctx context.Context, req AddFundsRequest) error
	// MoveFunds withdraws up to amount from the reserve to a capability-holding
	// receiver and returns the amount actually paid.
	MoveFunds(ctx context.Context, req MoveFundsRequest) (*big.Int, error)
	// RescueTokens transfers stray assets held by the custody account.
	RescueTokens(ctx context.Context, req RescueRequest) error
}

// AddFundsRequest holds input for an untracked top-up.
type AddFundsRequest struct {
	OperatorAddress string
	Source          string
	Amount          *big.Int
}

// MoveFundsRequest holds input for a discretionary withdrawal.
type MoveFundsRequest struct {
	OperatorAddress string
	Receiver        string
	Amount          *big.Int
}

// RescueRequest holds input for stray-asset recovery. Token equal to the
// zero-address sentinel selects the native currency.
type RescueRequest struct {
	OperatorAddress string
	Token           string
	Receiver        string
	Amount          *big.Int
}

// AuthService defines operator authentication business logic.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}

// RegisterRequest holds input for operator registration.
type RegisterRequest struct {
	Username string
	Password string
	Name     string
	Address  string // on-ledger address checked by the permission authority
}

// RegisterResponse holds the registration result shown once.
type RegisterResponse struct {
	OperatorID uuid.UUID
	AccessKey  string
	SecretKey  string // Plaintext, shown only at registration
}

// ReportingService defines dashboard/reporting business logic.
type ReportingService interface {
	ListEvents(ctx context.Context, params EventListParams) ([]domain.LedgerEvent, int64, error)
	DepositHistory(ctx context.Context, id domain.DepositID) ([]domain.LedgerEvent, error)
	GetLedgerSummary(ctx context.Context) (*LedgerSummary, error)
}

// LedgerSummary aggregates the ledger and reserve view for the dashboard.
type LedgerSummary struct {
	LiveDeposits   int64
	TotalPrincipal string
	ReserveRatePPM int64
	ReserveTicks   string
}

// EventNotifier pushes committed ledger events to an external sink.
type EventNotifier interface {
	NotifyEvents(ctx context.Context, events []domain.LedgerEvent)
}

// AuditService records audit events.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}
