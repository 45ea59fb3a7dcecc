package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferKind represents the kind of balance movement recorded in the ledger.
type TransferKind string

const (
	TransferKindSend    TransferKind = "send"
	TransferKindCashIn  TransferKind = "cash-in"
	TransferKindCashOut TransferKind = "cash-out"
)

// Minimum amounts in Taka, per transfer kind.
var (
	MinSendAmount    = decimal.NewFromInt(50)
	MinCashInAmount  = decimal.NewFromInt(50)
	MinCashOutAmount = decimal.NewFromInt(100)
)

// LedgerEntry is the immutable record of one completed transfer. It is
// written in the same database transaction that commits the balance changes
// and is never updated or deleted afterwards.
type LedgerEntry struct {
	ID          uuid.UUID       `json:"id"`
	SenderID    uuid.UUID       `json:"sender_id"`
	RecipientID uuid.UUID       `json:"recipient_id"`
	Amount      decimal.Decimal `json:"amount"`
	Fee         decimal.Decimal `json:"fee"`
	Kind        TransferKind    `json:"kind"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewLedgerEntry builds the ledger record for a committed transfer.
func NewLedgerEntry(senderID, recipientID uuid.UUID, amount, fee decimal.Decimal, kind TransferKind) *LedgerEntry {
	return &LedgerEntry{
		ID:          uuid.New(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Amount:      amount,
		Fee:         fee,
		Kind:        kind,
		CreatedAt:   time.Now().UTC(),
	}
}

// LedgerView is a ledger entry resolved for presentation: account references
// replaced with the parties' mobile numbers.
type LedgerView struct {
	ID              uuid.UUID       `json:"id"`
	SenderMobile    string          `json:"senderMobile"`
	RecipientMobile string          `json:"recipientMobile"`
	Amount          decimal.Decimal `json:"amount"`
	Fee             decimal.Decimal `json:"fee"`
	Kind            TransferKind    `json:"transactionType"`
	CreatedAt       time.Time       `json:"createdAt"`
}
