package postgres

import (
	"context"
	"errors"
	"fmt"

	"mobile-wallet-service/internal/core/domain"
	"mobile-wallet-service/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const uniqueViolationCode = "23505"

const accountColumns = `id, name, mobile, email, nid, role, pin_hash, password_hash, balance, approved, created_at, updated_at`

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// Create inserts a new account. A unique-constraint hit on email, mobile, or
// NID is reported as ErrIdentityInUse so registration maps it to a conflict.
func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.Name, a.Mobile, a.Email, a.NID, a.Role,
		a.PinHash, a.PasswordHash, a.Balance, a.Approved,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperror.ErrIdentityInUse()
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByMobile fetches an account by mobile number (without locking).
func (r *AccountRepo) GetByMobile(ctx context.Context, mobile string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE mobile = $1`

	a := &domain.Account{}
	err := r.pool.QueryRow(ctx, query, mobile).Scan(
		&a.ID, &a.Name, &a.Mobile, &a.Email, &a.NID, &a.Role,
		&a.PinHash, &a.PasswordHash, &a.Balance, &a.Approved,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account by mobile: %w", err)
	}
	return a, nil
}

// GetByEmail fetches an account by email (without locking).
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

	a := &domain.Account{}
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&a.ID, &a.Name, &a.Mobile, &a.Email, &a.NID, &a.Role,
		&a.PinHash, &a.PasswordHash, &a.Balance, &a.Approved,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account by email: %w", err)
	}
	return a, nil
}

// GetAdmin fetches the seeded admin account. The schema guarantees at most
// one admin row.
func (r *AccountRepo) GetAdmin(ctx context.Context) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE role = 'admin' LIMIT 1`

	a := &domain.Account{}
	err := r.pool.QueryRow(ctx, query).Scan(
		&a.ID, &a.Name, &a.Mobile, &a.Email, &a.NID, &a.Role,
		&a.PinHash, &a.PasswordHash, &a.Balance, &a.Approved,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get admin account: %w", err)
	}
	return a, nil
}

// GetByMobileForUpdate fetches an account by mobile with pessimistic locking.
// This MUST be called within a transaction.
func (r *AccountRepo) GetByMobileForUpdate(ctx context.Context, tx pgx.Tx, mobile string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE mobile = $1 FOR UPDATE`

	a := &domain.Account{}
	err := tx.QueryRow(ctx, query, mobile).Scan(
		&a.ID, &a.Name, &a.Mobile, &a.Email, &a.NID, &a.Role,
		&a.PinHash, &a.PasswordHash, &a.Balance, &a.Approved,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account for update: %w", err)
	}
	return a, nil
}

// UpdateBalance sets an account's balance within a transaction. The CHECK
// constraint on the column rejects negative balances even if a service-level
// funds check were bypassed.
func (r *AccountRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, balance decimal.Decimal) error {
	query := `UPDATE accounts SET balance = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, balance, accountID)
	if err != nil {
		return fmt.Errorf("update account balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", accountID)
	}
	return nil
}

// ListApproved returns all approved accounts with the given role.
func (r *AccountRepo) ListApproved(ctx context.Context, role domain.Role) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE role = $1 AND approved = TRUE ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("list approved accounts: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// ListPendingAgents returns agents awaiting admin approval.
func (r *AccountRepo) ListPendingAgents(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE role = 'agent' AND approved = FALSE ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pending agents: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// Approve marks an account as approved.
func (r *AccountRepo) Approve(ctx context.Context, accountID uuid.UUID) error {
	query := `UPDATE accounts SET approved = TRUE, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, accountID)
	if err != nil {
		return fmt.Errorf("approve account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", accountID)
	}
	return nil
}

// SumBalances returns the total money in the system across all accounts.
func (r *AccountRepo) SumBalances(ctx context.Context) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(balance), 0) FROM accounts`

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum balances: %w", err)
	}
	return total, nil
}

func scanAccounts(rows pgx.Rows) ([]domain.Account, error) {
	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(
			&a.ID, &a.Name, &a.Mobile, &a.Email, &a.NID, &a.Role,
			&a.PinHash, &a.PasswordHash, &a.Balance, &a.Approved,
			&a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account rows: %w", err)
	}
	return accounts, nil
}
