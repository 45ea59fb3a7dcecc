package dto

import "github.com/shopspring/decimal"

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Pin         string `json:"pin" binding:"required,pin"`
	Mobile      string `json:"mobile" binding:"required,bd_mobile"`
	Email       string `json:"email" binding:"required,email,max=100"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	NID         string `json:"nid" binding:"required,numeric,min=10,max=17"`
	AccountType string `json:"accountType" binding:"required,oneof=user agent"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// SendMoneyRequest is the request body for a peer-to-peer transfer.
type SendMoneyRequest struct {
	SenderMobile    string          `json:"senderMobile" binding:"required,bd_mobile"`
	RecipientMobile string          `json:"recipientMobile" binding:"required,bd_mobile"`
	Amount          decimal.Decimal `json:"amount" binding:"required,taka"`
}

// CashInRequest is the request body for an agent crediting a user's wallet.
// The PIN is the agent's.
type CashInRequest struct {
	UserMobile  string          `json:"userMobile" binding:"required,bd_mobile"`
	AgentMobile string          `json:"agentMobile" binding:"required,bd_mobile"`
	Amount      decimal.Decimal `json:"amount" binding:"required,taka"`
	Pin         string          `json:"pin" binding:"required,pin"`
}

// CashOutRequest is the request body for a user withdrawing through an
// agent. The PIN is the user's.
type CashOutRequest struct {
	UserMobile  string          `json:"userMobile" binding:"required,bd_mobile"`
	AgentMobile string          `json:"agentMobile" binding:"required,bd_mobile"`
	Amount      decimal.Decimal `json:"amount" binding:"required,taka"`
	Pin         string          `json:"pin" binding:"required,pin"`
}

// MessageResponse is the body for operations that only confirm.
type MessageResponse struct {
	Message string `json:"message"`
}

// TransferResponse confirms a cash-in.
type TransferResponse struct {
	Message       string `json:"message"`
	TransactionID string `json:"transactionId"`
}

// CashOutResponse confirms a cash-out, echoing the fee charged.
type CashOutResponse struct {
	Message       string          `json:"message"`
	Fee           decimal.Decimal `json:"fee"`
	TransactionID string          `json:"transactionId"`
}

// AccountResponse is the public projection of an account. Hashes never
// appear here.
type AccountResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Mobile   string          `json:"mobile"`
	Email    string          `json:"email"`
	Role     string          `json:"role"`
	Balance  decimal.Decimal `json:"balance"`
	Approved bool            `json:"approved"`
}

// MobileResponse resolves an email lookup to a mobile number only.
type MobileResponse struct {
	Mobile string `json:"mobile"`
}

// ApproveAgentRequest identifies the agent to approve.
type ApproveAgentRequest struct {
	AgentEmail string `json:"agentEmail" binding:"required,email"`
}

// SystemBalanceResponse reports the total money in the system.
type SystemBalanceResponse struct {
	TotalBalance decimal.Decimal `json:"totalBalance"`
}
