package ports

import (
	"context"

	"mobile-wallet-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountRepository defines persistence operations for accounts.
// Methods accepting pgx.Tx run inside transfer transactions and take
// row-level locks so that no concurrent transfer can observe or persist an
// intermediate balance.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByMobile(ctx context.Context, mobile string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetAdmin(ctx context.Context) (*domain.Account, error)
	GetByMobileForUpdate(ctx context.Context, tx pgx.Tx, mobile string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, balance decimal.Decimal) error
	ListApproved(ctx context.Context, role domain.Role) ([]domain.Account, error)
	ListPendingAgents(ctx context.Context) ([]domain.Account, error)
	Approve(ctx context.Context, accountID uuid.UUID) error
	SumBalances(ctx context.Context) (decimal.Decimal, error)
}

// LedgerRepository defines persistence for the append-only transfer ledger.
type LedgerRepository interface {
	// Append inserts a ledger entry inside the transfer's database
	// transaction. Entries are never updated or deleted.
	Append(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error
	// ListAll returns every entry ordered by creation time, with account
	// references resolved to mobile numbers for presentation.
	ListAll(ctx context.Context) ([]domain.LedgerView, error)
}

// AuditRepository defines persistence for the audit trail.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
