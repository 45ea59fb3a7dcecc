package service

import (
	"context"
	"fmt"
	"sort"

	"mobile-wallet-service/internal/core/domain"
	"mobile-wallet-service/internal/core/ports"
	"mobile-wallet-service/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// TransferServiceImpl implements ports.TransferService with pessimistic
// locking: every account touched by a transfer is read FOR UPDATE inside
// one database transaction, so balance checks and mutations are atomic per
// account and concurrent transfers serialize on the rows they share.
//
// Authorization policy (per operation, deliberate asymmetry):
//   - send-money: no PIN
//   - cash-in:    agent's PIN (the agent releases their own float)
//   - cash-out:   user's PIN (the user authorizes the withdrawal)
type TransferServiceImpl struct {
	accountRepo ports.AccountRepository
	ledgerRepo  ports.LedgerRepository
	hashSvc     ports.HashService
	transactor  ports.DBTransactor
	adminMobile string
	log         zerolog.Logger
}

// NewTransferService creates a new TransferServiceImpl. adminMobile
// identifies the injected fee-sink account; it is resolved once at startup
// instead of re-queried by role on every transfer.
func NewTransferService(
	accountRepo ports.AccountRepository,
	ledgerRepo ports.LedgerRepository,
	hashSvc ports.HashService,
	transactor ports.DBTransactor,
	adminMobile string,
	log zerolog.Logger,
) *TransferServiceImpl {
	return &TransferServiceImpl{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		hashSvc:     hashSvc,
		transactor:  transactor,
		adminMobile: adminMobile,
		log:         log,
	}
}

// SendMoney transfers amount from sender to recipient. The fee
// (max(5, 1%)) is debited from the sender and credited to the admin sink,
// so the system total is conserved.
func (s *TransferServiceImpl) SendMoney(ctx context.Context, req ports.SendMoneyRequest) (*ports.TransferResult, error) {
	if req.Amount.LessThan(domain.MinSendAmount) {
		return nil, apperror.ErrBelowMinimum("send-money", "50")
	}
	if req.SenderMobile == req.RecipientMobile {
		return nil, apperror.Validation("sender and recipient must be different accounts")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	locked, err := s.lockAccounts(ctx, dbTx, req.SenderMobile, req.RecipientMobile, s.adminMobile)
	if err != nil {
		return nil, err
	}
	sender := locked[req.SenderMobile]
	recipient := locked[req.RecipientMobile]
	admin := locked[s.adminMobile]

	if sender == nil {
		return nil, apperror.ErrAccountNotFound("Sender")
	}
	if recipient == nil {
		return nil, apperror.ErrAccountNotFound("Recipient")
	}
	if admin == nil {
		return nil, apperror.InternalError(fmt.Errorf("admin account %s missing", s.adminMobile))
	}

	fee := domain.SendMoneyFee(req.Amount)
	total := req.Amount.Add(fee)
	if !sender.HasFunds(total) {
		return nil, apperror.ErrInsufficientFunds()
	}

	sender.Balance = sender.Balance.Sub(total)
	recipient.Balance = recipient.Balance.Add(req.Amount)
	admin.Balance = admin.Balance.Add(fee)

	if err := s.persistBalances(ctx, dbTx, sender, recipient, admin); err != nil {
		return nil, err
	}

	entry := domain.NewLedgerEntry(sender.ID, recipient.ID, req.Amount, fee, domain.TransferKindSend)
	if err := s.ledgerRepo.Append(ctx, dbTx, entry); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("append ledger entry: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("tx_id", entry.ID.String()).
		Str("kind", string(domain.TransferKindSend)).
		Str("amount", req.Amount.String()).
		Str("fee", fee.String()).
		Msg("send-money committed")

	return &ports.TransferResult{Entry: entry, Fee: fee}, nil
}

// CashIn moves amount from an agent's float into a user's wallet. The
// agent authorizes with their PIN. No fee.
func (s *TransferServiceImpl) CashIn(ctx context.Context, req ports.CashInRequest) (*ports.TransferResult, error) {
	if req.Amount.LessThan(domain.MinCashInAmount) {
		return nil, apperror.ErrBelowMinimum("cash-in", "50")
	}
	if req.UserMobile == req.AgentMobile {
		return nil, apperror.Validation("user and agent must be different accounts")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	locked, err := s.lockAccounts(ctx, dbTx, req.UserMobile, req.AgentMobile)
	if err != nil {
		return nil, err
	}
	user := locked[req.UserMobile]
	agent := locked[req.AgentMobile]

	if user == nil {
		return nil, apperror.ErrAccountNotFound("User")
	}
	if err := checkAgent(agent); err != nil {
		return nil, err
	}
	if err := s.authorize(req.Pin, agent.PinHash); err != nil {
		return nil, err
	}

	if !agent.HasFunds(req.Amount) {
		return nil, apperror.ErrInsufficientFunds()
	}

	agent.Balance = agent.Balance.Sub(req.Amount)
	user.Balance = user.Balance.Add(req.Amount)

	if err := s.persistBalances(ctx, dbTx, agent, user); err != nil {
		return nil, err
	}

	entry := domain.NewLedgerEntry(agent.ID, user.ID, req.Amount, decimal.Zero, domain.TransferKindCashIn)
	if err := s.ledgerRepo.Append(ctx, dbTx, entry); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("append ledger entry: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("tx_id", entry.ID.String()).
		Str("kind", string(domain.TransferKindCashIn)).
		Str("amount", req.Amount.String()).
		Msg("cash-in committed")

	return &ports.TransferResult{Entry: entry, Fee: decimal.Zero}, nil
}

// CashOut withdraws amount from a user through an agent. The user
// authorizes with their PIN. The 1.5% fee splits into the agent's 1%
// commission and the admin's 0.5% share.
func (s *TransferServiceImpl) CashOut(ctx context.Context, req ports.CashOutRequest) (*ports.TransferResult, error) {
	if req.Amount.LessThan(domain.MinCashOutAmount) {
		return nil, apperror.ErrBelowMinimum("cash-out", "100")
	}
	if req.UserMobile == req.AgentMobile {
		return nil, apperror.Validation("user and agent must be different accounts")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	locked, err := s.lockAccounts(ctx, dbTx, req.UserMobile, req.AgentMobile, s.adminMobile)
	if err != nil {
		return nil, err
	}
	user := locked[req.UserMobile]
	agent := locked[req.AgentMobile]
	admin := locked[s.adminMobile]

	if user == nil {
		return nil, apperror.ErrAccountNotFound("User")
	}
	if err := checkAgent(agent); err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, apperror.InternalError(fmt.Errorf("admin account %s missing", s.adminMobile))
	}
	if err := s.authorize(req.Pin, user.PinHash); err != nil {
		return nil, err
	}

	fee, agentShare, adminShare := domain.CashOutSplit(req.Amount)
	total := req.Amount.Add(fee)
	if !user.HasFunds(total) {
		return nil, apperror.ErrInsufficientFunds()
	}

	user.Balance = user.Balance.Sub(total)
	agent.Balance = agent.Balance.Add(req.Amount).Add(agentShare)
	admin.Balance = admin.Balance.Add(adminShare)

	if err := s.persistBalances(ctx, dbTx, user, agent, admin); err != nil {
		return nil, err
	}

	entry := domain.NewLedgerEntry(user.ID, agent.ID, req.Amount, fee, domain.TransferKindCashOut)
	if err := s.ledgerRepo.Append(ctx, dbTx, entry); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("append ledger entry: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("tx_id", entry.ID.String()).
		Str("kind", string(domain.TransferKindCashOut)).
		Str("amount", req.Amount.String()).
		Str("fee", fee.String()).
		Msg("cash-out committed")

	return &ports.TransferResult{Entry: entry, Fee: fee}, nil
}

// lockAccounts takes row locks on every distinct mobile, always in
// ascending mobile order so opposed concurrent transfers cannot deadlock.
// Missing accounts come back as nil map entries for the caller to map to
// the right party error.
func (s *TransferServiceImpl) lockAccounts(ctx context.Context, tx pgx.Tx, mobiles ...string) (map[string]*domain.Account, error) {
	uniq := make([]string, 0, len(mobiles))
	seen := make(map[string]bool, len(mobiles))
	for _, m := range mobiles {
		if !seen[m] {
			seen[m] = true
			uniq = append(uniq, m)
		}
	}
	sort.Strings(uniq)

	locked := make(map[string]*domain.Account, len(uniq))
	for _, m := range uniq {
		acc, err := s.accountRepo.GetByMobileForUpdate(ctx, tx, m)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("lock account %s: %w", m, err))
		}
		locked[m] = acc
	}
	return locked, nil
}

// persistBalances writes each distinct account's final balance once.
// Accounts may alias when two transfer parties resolve to the same row.
func (s *TransferServiceImpl) persistBalances(ctx context.Context, tx pgx.Tx, accounts ...*domain.Account) error {
	seen := make(map[uuid.UUID]bool, len(accounts))
	for _, a := range accounts {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		if err := s.accountRepo.UpdateBalance(ctx, tx, a.ID, a.Balance); err != nil {
			return apperror.InternalError(fmt.Errorf("update balance for %s: %w", a.ID, err))
		}
	}
	return nil
}

// authorize verifies a PIN against a stored hash. The plaintext is never
// logged.
func (s *TransferServiceImpl) authorize(pin, hash string) error {
	ok, err := s.hashSvc.Verify(pin, hash)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("verify pin: %w", err))
	}
	if !ok {
		return apperror.ErrIncorrectPin()
	}
	return nil
}

// checkAgent enforces the agent-side preconditions shared by cash-in and
// cash-out.
func checkAgent(agent *domain.Account) error {
	if agent == nil || agent.Role != domain.RoleAgent {
		return apperror.ErrAgentNotFound()
	}
	if !agent.Approved {
		return apperror.ErrAgentNotApproved()
	}
	return nil
}
