package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"mobile-wallet-service/internal/core/domain"
	"mobile-wallet-service/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditTrail records every successful write operation. Transfer endpoints
// carry no session, so the entry's account reference is set only on routes
// behind JWTAuth.
func AuditTrail(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}

		action, resourceType := mapPathToAction(c.Request.URL.Path, c.Request.Method)
		if action == "" {
			return
		}

		var accountID *uuid.UUID
		if v, exists := c.Get(CtxAccountID); exists {
			if id, ok := v.(uuid.UUID); ok {
				accountID = &id
			}
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			AccountID:    accountID,
			Action:       action,
			ResourceType: resourceType,
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now().UTC(),
		})
	}
}

func mapPathToAction(path, method string) (domain.AuditAction, string) {
	switch {
	case path == "/auth/register" && method == http.MethodPost:
		return domain.AuditActionRegister, "account"
	case path == "/auth/login" && method == http.MethodPost:
		return domain.AuditActionLogin, "session"
	case path == "/transactions/send-money" && method == http.MethodPost:
		return domain.AuditActionSendMoney, "transfer"
	case path == "/transactions/cash-in" && method == http.MethodPost:
		return domain.AuditActionCashIn, "transfer"
	case path == "/transactions/cash-out" && method == http.MethodPost:
		return domain.AuditActionCashOut, "transfer"
	case path == "/admin/approve-agent" && method == http.MethodPut:
		return domain.AuditActionApproveAgent, "account"
	}
	return "", ""
}
