package dto

// RegisterRequest is the request body for operator registration.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50,safe_id"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Address  string `json:"address" binding:"required,ledger_addr"`
}

// LoginRequest is the request body for operator login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse is the response body for successful registration.
type RegisterResponse struct {
	OperatorID string `json:"operator_id"`
	AccessKey  string `json:"access_key"`
	SecretKey  string `json:"secret_key"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// BatchCreateRequest is the request body for batch deposit creation.
// IDs and Amounts are parallel sequences; amounts are decimal strings because
// principals exceed 64-bit integers.
type BatchCreateRequest struct {
	Source  string   `json:"source" binding:"required,ledger_addr"`
	IDs     []string `json:"ids" binding:"required,dive,deposit_id"`
	Amounts []string `json:"amounts" binding:"required,dive,uint_str"`
}

// BatchCreateResponse is the response body for a committed creation batch.
type BatchCreateResponse struct {
	Total          string `json:"total"`
	CreatedAt      string `json:"created_at"`
	TicksAtDeposit string `json:"ticks_at_deposit"`
	Count          int    `json:"count"`
}

// BatchRedeemRequest is the request body for batch redemption.
type BatchRedeemRequest struct {
	Receiver string   `json:"receiver" binding:"required,ledger_addr"`
	IDs      []string `json:"ids" binding:"required,dive,deposit_id"`
}

// BatchRedeemResponse is the response body for a settled redemption.
type BatchRedeemResponse struct {
	Total      string `json:"total"`
	RedeemedAt string `json:"redeemed_at"`
	Count      int    `json:"count"`
}

// DepositResponse is the read-only view of one live deposit.
type DepositResponse struct {
	ID             string `json:"id"`
	Principal      string `json:"principal"`
	NetInterest    string `json:"net_interest"`
	CreatedAt      string `json:"created_at"`
	TicksAtDeposit string `json:"ticks_at_deposit"`
}

// AddFundsRequest is the request body for an untracked reserve top-up.
type AddFundsRequest struct {
	Source string `json:"source" binding:"required,ledger_addr"`
	Amount string `json:"amount" binding:"required,uint_str"`
}

// MoveFundsRequest is the request body for a discretionary withdrawal.
type MoveFundsRequest struct {
	Receiver string `json:"receiver" binding:"required,ledger_addr"`
	Amount   string `json:"amount" binding:"required,uint_str"`
}

// MoveFundsResponse reports what the reserve actually paid out.
type MoveFundsResponse struct {
	Paid string `json:"paid"`
}

// RescueRequest is the request body for stray-asset recovery. An empty token
// selects the native currency.
type RescueRequest struct {
	Token    string `json:"token,omitempty" binding:"omitempty,ledger_addr"`
	Receiver string `json:"receiver" binding:"required,ledger_addr"`
	Amount   string `json:"amount" binding:"required,uint_str"`
}

// EventResponse is one ledger event in API responses.
type EventResponse struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	DepositID string `json:"deposit_id"`
	Amount    string `json:"amount"`
	CreatedAt string `json:"created_at"`
}

// EventListResponse wraps a paginated event list.
type EventListResponse struct {
	Items      []EventResponse `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// LedgerSummaryResponse is the dashboard's aggregate ledger view.
type LedgerSummaryResponse struct {
	LiveDeposits   int64  `json:"live_deposits"`
	TotalPrincipal string `json:"total_principal"`
	ReserveRatePPM int64  `json:"reserve_rate_ppm"`
	ReserveTicks   string `json:"reserve_ticks"`
}
