package handler

import (
	"net/http"

	"mobile-wallet-service/internal/adapter/http/dto"
	"mobile-wallet-service/internal/core/domain"
	"mobile-wallet-service/internal/core/ports"
	"mobile-wallet-service/pkg/apperror"
	"mobile-wallet-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// AccountHandler handles registration, login, and account lookups.
type AccountHandler struct {
	regSvc   ports.RegistrationService
	querySvc ports.QueryService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(regSvc ports.RegistrationService, querySvc ports.QueryService) *AccountHandler {
	return &AccountHandler{regSvc: regSvc, querySvc: querySvc}
}

// Register handles POST /auth/register.
func (h *AccountHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	account, err := h.regSvc.Register(c.Request.Context(), ports.RegisterRequest{
		Name:     req.Name,
		Pin:      req.Pin,
		Mobile:   req.Mobile,
		Email:    req.Email,
		Password: req.Password,
		NID:      req.NID,
		Role:     domain.Role(req.AccountType),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{
		"message": "User registered successfully!",
		"account": toAccountResponse(*account),
	})
}

// Login handles POST /auth/login.
func (h *AccountHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	token, expiry, err := h.regSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.LoginResponse{
		Token:  token,
		Expiry: expiry.Unix(),
	})
}

// GetMobileByEmail handles GET /users/get-mobile?email=.
func (h *AccountHandler) GetMobileByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		response.Error(c, apperror.Validation("Email is required."))
		return
	}

	mobile, err := h.querySvc.GetMobileByEmail(c.Request.Context(), email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.MobileResponse{Mobile: mobile})
}

// GetAgentMobileByEmail handles GET /users/get-agent?email=. Only the mobile
// number is exposed; credentials never leave the service.
func (h *AccountHandler) GetAgentMobileByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		response.Error(c, apperror.Validation("Email is required."))
		return
	}

	mobile, err := h.querySvc.GetAgentMobileByEmail(c.Request.Context(), email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.MobileResponse{Mobile: mobile})
}

// ListApprovedAgents handles GET /agents/approved.
func (h *AccountHandler) ListApprovedAgents(c *gin.Context) {
	agents, err := h.querySvc.ListApprovedAgents(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toAccountResponses(agents))
}

// ListApprovedUsers handles GET /users/approved.
func (h *AccountHandler) ListApprovedUsers(c *gin.Context) {
	users, err := h.querySvc.ListApprovedUsers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toAccountResponses(users))
}

// HealthCheck handles GET /health, a deep health check verifying all dependencies.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}

// toAccountResponse converts domain.Account to its public projection.
func toAccountResponse(a domain.Account) dto.AccountResponse {
	return dto.AccountResponse{
		ID:       a.ID.String(),
		Name:     a.Name,
		Mobile:   a.Mobile,
		Email:    a.Email,
		Role:     string(a.Role),
		Balance:  a.Balance,
		Approved: a.Approved,
	}
}

func toAccountResponses(accounts []domain.Account) []dto.AccountResponse {
	out := make([]dto.AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	return out
}
