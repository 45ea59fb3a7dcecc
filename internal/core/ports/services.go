package ports

import (
	"context"
	"time"

	"mobile-wallet-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HashService handles one-way hashing of PINs and passwords.
type HashService interface {
	Hash(secret string) (string, error)
	// Verify compares in constant time; the plaintext is never logged or
	// persisted.
	Verify(secret string, hash string) (bool, error)
}

// TokenService handles JWT token operations for the admin/session routes.
type TokenService interface {
	Generate(accountID uuid.UUID, role domain.Role) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	AccountID uuid.UUID
	Role      domain.Role
}

// --- Service Ports (Business Logic) ---

// TransferService is the transfer engine: the three balance-moving
// operations. Each one validates, locks the involved accounts, authorizes,
// computes the fee split, mutates balances, and appends a ledger entry as a
// single atomic unit of work.
type TransferService interface {
	SendMoney(ctx context.Context, req SendMoneyRequest) (*TransferResult, error)
	CashIn(ctx context.Context, req CashInRequest) (*TransferResult, error)
	CashOut(ctx context.Context, req CashOutRequest) (*TransferResult, error)
}

// SendMoneyRequest holds validated input for a peer-to-peer transfer.
// Send-money takes no PIN; cash-in and cash-out do.
type SendMoneyRequest struct {
	SenderMobile    string
	RecipientMobile string
	Amount          decimal.Decimal
}

// CashInRequest holds input for an agent funding a user's wallet from the
// agent's own float. The PIN is the agent's.
type CashInRequest struct {
	UserMobile  string
	AgentMobile string
	Amount      decimal.Decimal
	Pin         string
}

// CashOutRequest holds input for a user withdrawing through an agent.
// The PIN is the user's.
type CashOutRequest struct {
	UserMobile  string
	AgentMobile string
	Amount      decimal.Decimal
	Pin         string
}

// TransferResult is the committed outcome of a transfer.
type TransferResult struct {
	Entry *domain.LedgerEntry
	Fee   decimal.Decimal
}

// RegistrationService defines account creation and login.
type RegistrationService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (string, time.Time, error) // token, expiry, error
}

// RegisterRequest holds validated input for account registration.
type RegisterRequest struct {
	Name     string
	Pin      string
	Mobile   string
	Email    string
	Password string
	NID      string
	Role     domain.Role
}

// QueryService exposes the read-only projections consumed by the UI.
type QueryService interface {
	ListLedger(ctx context.Context) ([]domain.LedgerView, error)
	ListApprovedAgents(ctx context.Context) ([]domain.Account, error)
	ListApprovedUsers(ctx context.Context) ([]domain.Account, error)
	GetMobileByEmail(ctx context.Context, email string) (string, error)
	GetAgentMobileByEmail(ctx context.Context, email string) (string, error)
	// SystemBalance is the sum of balances over every account, admin
	// included. Money only circulates, so this total is invariant across
	// transfers.
	SystemBalance(ctx context.Context) (decimal.Decimal, error)
}

// AdminService defines agent-approval operations.
type AdminService interface {
	ListPendingAgents(ctx context.Context) ([]domain.Account, error)
	ApproveAgent(ctx context.Context, agentEmail string) error
}

// IdempotencyCache caches the response of a committed transfer under the
// client's Idempotency-Key so a retried submission replays instead of
// re-executing.
type IdempotencyCache interface {
	// Get returns the cached response bytes, or nil, nil when absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// AuditService records audited actions.
type AuditService interface {
	// Log is fire-and-forget; it must not block or fail the request path.
	Log(ctx context.Context, entry *domain.AuditLog)
}
