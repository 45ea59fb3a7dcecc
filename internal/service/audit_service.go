package service

import (
	"context"

	"mobile-wallet-service/internal/core/domain"
	"mobile-wallet-service/internal/core/ports"

	"github.com/rs/zerolog"
)

// AuditServiceImpl writes audit entries to the log stream and, when a
// repository is configured, persists them.
type AuditServiceImpl struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService creates a new AuditServiceImpl. A nil repo means entries
// go to the logger only.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) *AuditServiceImpl {
	return &AuditServiceImpl{repo: repo, log: log}
}

// Log records an audit entry asynchronously. A persistence failure is
// logged and swallowed; the audited request already succeeded.
func (s *AuditServiceImpl) Log(ctx context.Context, entry *domain.AuditLog) {
	go func() {
		s.log.Info().
			Str("action", string(entry.Action)).
			Str("resource_type", entry.ResourceType).
			Str("resource_id", entry.ResourceID).
			Str("ip", entry.IPAddress).
			Msg("audit")

		if s.repo != nil {
			if err := s.repo.Create(context.Background(), entry); err != nil {
				s.log.Warn().Err(err).Str("action", string(entry.Action)).Msg("failed to persist audit log")
			}
		}
	}()
}
