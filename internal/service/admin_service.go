package service

import (
	"context"
	"fmt"

	"mobile-wallet-service/internal/core/domain"
	"mobile-wallet-service/internal/core/ports"
	"mobile-wallet-service/pkg/apperror"

	"github.com/rs/zerolog"
)

// AdminServiceImpl implements ports.AdminService: agent lifecycle operations
// behind the admin-only routes.
type AdminServiceImpl struct {
	accountRepo ports.AccountRepository
	log         zerolog.Logger
}

// NewAdminService creates a new AdminServiceImpl.
func NewAdminService(accountRepo ports.AccountRepository, log zerolog.Logger) *AdminServiceImpl {
	return &AdminServiceImpl{
		accountRepo: accountRepo,
		log:         log,
	}
}

// ListPendingAgents returns agents awaiting approval.
func (s *AdminServiceImpl) ListPendingAgents(ctx context.Context) ([]domain.Account, error) {
	agents, err := s.accountRepo.ListPendingAgents(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list pending agents: %w", err))
	}
	return agents, nil
}

// ApproveAgent marks the agent registered under agentEmail as approved,
// letting it serve cash-in/cash-out traffic. Approving an already-approved
// agent is a no-op.
func (s *AdminServiceImpl) ApproveAgent(ctx context.Context, agentEmail string) error {
	account, err := s.accountRepo.GetByEmail(ctx, agentEmail)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if account == nil || account.Role != domain.RoleAgent {
		return apperror.ErrAgentNotFound()
	}

	if account.Approved {
		return nil
	}

	if err := s.accountRepo.Approve(ctx, account.ID); err != nil {
		return apperror.InternalError(fmt.Errorf("approve agent: %w", err))
	}

	s.log.Info().
		Str("account_id", account.ID.String()).
		Msg("agent approved")

	return nil
}
