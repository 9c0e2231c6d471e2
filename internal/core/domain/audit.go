package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionBatchCreate AuditAction = "BATCH_CREATE"
	AuditActionBatchRedeem AuditAction = "BATCH_REDEEM"
	AuditActionAddFunds    AuditAction = "ADD_FUNDS"
	AuditActionMoveFunds   AuditAction = "MOVE_FUNDS"
	AuditActionRescue      AuditAction = "RESCUE_TOKENS"
	AuditActionRegister    AuditAction = "REGISTER"
	AuditActionLogin       AuditAction = "LOGIN"
)

// AuditLog records a single audited action in the system.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	OperatorID   *uuid.UUID  `json:"operator_id,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
