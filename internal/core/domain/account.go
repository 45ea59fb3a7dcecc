package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Role represents the kind of account holder.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the closed set.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAgent || r == RoleAdmin
}

// Starting balances assigned at registration, by role.
var (
	UserStartingBalance  = decimal.NewFromInt(40)
	AgentStartingBalance = decimal.NewFromInt(100000)
)

// Account is a wallet holder: a user, an agent, or the single admin.
type Account struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Mobile       string          `json:"mobile"`
	Email        string          `json:"email"`
	NID          string          `json:"nid"`
	Role         Role            `json:"role"`
	PinHash      string          `json:"-"` // Never expose
	PasswordHash string          `json:"-"` // Never expose
	Balance      decimal.Decimal `json:"balance"`
	Approved     bool            `json:"approved"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewAccount constructs a registration-time account with the role-dependent
// starting balance and approval flag. Admin accounts are seeded, not
// registered, so RoleAdmin is rejected here.
func NewAccount(name, mobile, email, nid string, role Role, pinHash, passwordHash string) (*Account, error) {
	switch role {
	case RoleUser, RoleAgent:
	case RoleAdmin:
		return nil, fmt.Errorf("admin accounts cannot be registered")
	default:
		return nil, fmt.Errorf("invalid role %q", role)
	}

	balance := UserStartingBalance
	if role == RoleAgent {
		balance = AgentStartingBalance
	}

	now := time.Now().UTC()
	return &Account{
		ID:           uuid.New(),
		Name:         name,
		Mobile:       mobile,
		Email:        email,
		NID:          nid,
		Role:         role,
		PinHash:      pinHash,
		PasswordHash: passwordHash,
		Balance:      balance,
		Approved:     role == RoleUser, // agents wait for admin approval
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// CanServeAsAgent reports whether the account may handle cash-in/cash-out
// traffic: it must hold the agent role and be approved by the admin.
func (a *Account) CanServeAsAgent() bool {
	return a.Role == RoleAgent && a.Approved
}

// HasFunds reports whether the balance covers the given total deduction.
func (a *Account) HasFunds(total decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(total)
}
