package service

import (
	"context"
	"fmt"

	"mobile-wallet-service/internal/core/domain"
	"mobile-wallet-service/internal/core/ports"
	"mobile-wallet-service/pkg/apperror"

	"github.com/shopspring/decimal"
)

// QueryServiceImpl implements ports.QueryService: the read-only projections
// behind the lookup and listing endpoints. No balances move here.
type QueryServiceImpl struct {
	accountRepo ports.AccountRepository
	ledgerRepo  ports.LedgerRepository
}

// NewQueryService creates a new QueryServiceImpl.
func NewQueryService(accountRepo ports.AccountRepository, ledgerRepo ports.LedgerRepository) *QueryServiceImpl {
	return &QueryServiceImpl{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
}

// ListLedger returns every committed transfer, oldest first.
func (s *QueryServiceImpl) ListLedger(ctx context.Context) ([]domain.LedgerView, error) {
	entries, err := s.ledgerRepo.ListAll(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list ledger: %w", err))
	}
	return entries, nil
}

// ListApprovedAgents returns all approved agent accounts.
func (s *QueryServiceImpl) ListApprovedAgents(ctx context.Context) ([]domain.Account, error) {
	agents, err := s.accountRepo.ListApproved(ctx, domain.RoleAgent)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list agents: %w", err))
	}
	return agents, nil
}

// ListApprovedUsers returns all approved user accounts.
func (s *QueryServiceImpl) ListApprovedUsers(ctx context.Context) ([]domain.Account, error) {
	users, err := s.accountRepo.ListApproved(ctx, domain.RoleUser)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list users: %w", err))
	}
	return users, nil
}

// GetMobileByEmail resolves any account's mobile number from its email.
func (s *QueryServiceImpl) GetMobileByEmail(ctx context.Context, email string) (string, error) {
	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if account == nil {
		return "", apperror.ErrAccountNotFound("User")
	}
	return account.Mobile, nil
}

// GetAgentMobileByEmail resolves an agent's mobile number from its email.
// Only the mobile leaves this lookup; PIN and password hashes stay inside.
func (s *QueryServiceImpl) GetAgentMobileByEmail(ctx context.Context, email string) (string, error) {
	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if account == nil || account.Role != domain.RoleAgent {
		return "", apperror.ErrAgentNotFound()
	}
	return account.Mobile, nil
}

// SystemBalance sums every account balance, admin included. Fees circulate
// into the admin sink instead of being destroyed, so this total never changes
// once registrations stop.
func (s *QueryServiceImpl) SystemBalance(ctx context.Context) (decimal.Decimal, error) {
	total, err := s.accountRepo.SumBalances(ctx)
	if err != nil {
		return decimal.Zero, apperror.InternalError(fmt.Errorf("sum balances: %w", err))
	}
	return total, nil
}
