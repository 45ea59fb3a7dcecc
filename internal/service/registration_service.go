package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mobile-wallet-service/internal/core/domain"
	"mobile-wallet-service/internal/core/ports"
	"mobile-wallet-service/pkg/apperror"

	"github.com/rs/zerolog"
)

// RegistrationServiceImpl implements ports.RegistrationService.
type RegistrationServiceImpl struct {
	accountRepo ports.AccountRepository
	hashSvc     ports.HashService
	tokenSvc    ports.TokenService
	log         zerolog.Logger
}

// NewRegistrationService creates a new RegistrationServiceImpl.
func NewRegistrationService(
	accountRepo ports.AccountRepository,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
	log zerolog.Logger,
) *RegistrationServiceImpl {
	return &RegistrationServiceImpl{
		accountRepo: accountRepo,
		hashSvc:     hashSvc,
		tokenSvc:    tokenSvc,
		log:         log,
	}
}

// Register creates a user or agent account with the role's starting balance.
// Agents start unapproved and cannot serve transfers until the admin approves
// them. Email, mobile, and NID must all be unused.
func (s *RegistrationServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*domain.Account, error) {
	existing, err := s.accountRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check email: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrIdentityInUse()
	}

	existing, err = s.accountRepo.GetByMobile(ctx, req.Mobile)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check mobile: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrIdentityInUse()
	}

	pinHash, err := s.hashSvc.Hash(req.Pin)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash pin: %w", err))
	}
	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	account, err := domain.NewAccount(req.Name, req.Mobile, req.Email, req.NID, req.Role, pinHash, passwordHash)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}

	// The pre-checks race with concurrent registrations; the unique
	// constraints are the authority. The repository reports a constraint hit
	// as ErrIdentityInUse.
	if err := s.accountRepo.Create(ctx, account); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.InternalError(fmt.Errorf("create account: %w", err))
	}

	s.log.Info().
		Str("account_id", account.ID.String()).
		Str("role", string(account.Role)).
		Bool("approved", account.Approved).
		Msg("account registered")

	return account, nil
}

// Login verifies the password for the account registered under email and
// issues a JWT session token.
func (s *RegistrationServiceImpl) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if account == nil {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	ok, err := s.hashSvc.Verify(password, account.PasswordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !ok {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	token, expiresAt, err := s.tokenSvc.Generate(account.ID, account.Role)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	s.log.Info().
		Str("account_id", account.ID.String()).
		Str("role", string(account.Role)).
		Msg("login succeeded")

	return token, expiresAt, nil
}
