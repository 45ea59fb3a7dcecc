package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionSendMoney    AuditAction = "SEND_MONEY"
	AuditActionCashIn       AuditAction = "CASH_IN"
	AuditActionCashOut      AuditAction = "CASH_OUT"
	AuditActionRegister     AuditAction = "REGISTER"
	AuditActionLogin        AuditAction = "LOGIN"
	AuditActionApproveAgent AuditAction = "APPROVE_AGENT"
)

// AuditLog records a single audited action. AccountID is the authenticated
// session account when one exists (admin routes); transfer endpoints carry
// no session, so there it stays nil and the IP is the actor trace.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	AccountID    *uuid.UUID  `json:"account_id,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
