package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mobile-wallet-service/internal/adapter/http/dto"
	"mobile-wallet-service/internal/core/domain"
	"mobile-wallet-service/internal/core/ports"
	"mobile-wallet-service/internal/core/ports/mocks"
	"mobile-wallet-service/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func postJSON(t *testing.T, path string, payload any) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return w, c
}

// --- Account Handler Tests ---

func TestRegister_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReg := mocks.NewMockRegistrationService(ctrl)
	mockQuery := mocks.NewMockQueryService(ctrl)
	h := NewAccountHandler(mockReg, mockQuery)

	account := &domain.Account{
		ID:       uuid.New(),
		Name:     "Rahim Uddin",
		Mobile:   "01712345678",
		Email:    "rahim@example.com",
		Role:     domain.RoleUser,
		Balance:  domain.UserStartingBalance,
		Approved: true,
	}
	mockReg.EXPECT().Register(gomock.Any(), gomock.Any()).Return(account, nil)

	w, c := postJSON(t, "/auth/register", dto.RegisterRequest{
		Name:        "Rahim Uddin",
		Pin:         "12345",
		Mobile:      "01712345678",
		Email:       "rahim@example.com",
		Password:    "password123",
		NID:         "1990123456789",
		AccountType: "user",
	})
	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "User registered successfully!", resp["message"])
	acc := resp["account"].(map[string]interface{})
	assert.Equal(t, "01712345678", acc["mobile"])
	assert.NotContains(t, acc, "pin")
	assert.NotContains(t, acc, "password")
}

func TestRegister_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAccountHandler(mocks.NewMockRegistrationService(ctrl), mocks.NewMockQueryService(ctrl))

	// Empty body => binding error
	w, c := postJSON(t, "/auth/register", map[string]any{})
	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_BadMobile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAccountHandler(mocks.NewMockRegistrationService(ctrl), mocks.NewMockQueryService(ctrl))

	w, c := postJSON(t, "/auth/register", dto.RegisterRequest{
		Name:        "Rahim Uddin",
		Pin:         "12345",
		Mobile:      "12345", // not a valid mobile
		Email:       "rahim@example.com",
		Password:    "password123",
		NID:         "1990123456789",
		AccountType: "user",
	})
	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_IdentityInUse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReg := mocks.NewMockRegistrationService(ctrl)
	h := NewAccountHandler(mockReg, mocks.NewMockQueryService(ctrl))

	mockReg.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrIdentityInUse())

	w, c := postJSON(t, "/auth/register", dto.RegisterRequest{
		Name:        "Rahim Uddin",
		Pin:         "12345",
		Mobile:      "01712345678",
		Email:       "rahim@example.com",
		Password:    "password123",
		NID:         "1990123456789",
		AccountType: "user",
	})
	h.Register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "ACC_004")
}

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReg := mocks.NewMockRegistrationService(ctrl)
	h := NewAccountHandler(mockReg, mocks.NewMockQueryService(ctrl))

	expiry := time.Now().Add(24 * time.Hour)
	mockReg.EXPECT().Login(gomock.Any(), "rahim@example.com", "password123").
		Return("jwt-token", expiry, nil)

	w, c := postJSON(t, "/auth/login", dto.LoginRequest{
		Email:    "rahim@example.com",
		Password: "password123",
	})
	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "jwt-token", resp.Token)
	assert.Equal(t, expiry.Unix(), resp.Expiry)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReg := mocks.NewMockRegistrationService(ctrl)
	h := NewAccountHandler(mockReg, mocks.NewMockQueryService(ctrl))

	mockReg.EXPECT().Login(gomock.Any(), "rahim@example.com", "wrong-password").
		Return("", time.Time{}, apperror.ErrInvalidCredentials())

	w, c := postJSON(t, "/auth/login", dto.LoginRequest{
		Email:    "rahim@example.com",
		Password: "wrong-password",
	})
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_002")
}

func TestGetMobileByEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuery := mocks.NewMockQueryService(ctrl)
	h := NewAccountHandler(mocks.NewMockRegistrationService(ctrl), mockQuery)

	mockQuery.EXPECT().GetMobileByEmail(gomock.Any(), "rahim@example.com").
		Return("01712345678", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/users/get-mobile?email=rahim@example.com", nil)

	h.GetMobileByEmail(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.MobileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "01712345678", resp.Mobile)
}

func TestGetMobileByEmail_MissingEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAccountHandler(mocks.NewMockRegistrationService(ctrl), mocks.NewMockQueryService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/users/get-mobile", nil)

	h.GetMobileByEmail(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email is required.")
}

func TestGetAgentMobileByEmail_NeverLeaksCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuery := mocks.NewMockQueryService(ctrl)
	h := NewAccountHandler(mocks.NewMockRegistrationService(ctrl), mockQuery)

	mockQuery.EXPECT().GetAgentMobileByEmail(gomock.Any(), "agent@example.com").
		Return("01722222222", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/users/get-agent?email=agent@example.com", nil)

	h.GetAgentMobileByEmail(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "pin")
	assert.Contains(t, w.Body.String(), "01722222222")
}

// --- Transfer Handler Tests ---

func TestSendMoney_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTransfer := mocks.NewMockTransferService(ctrl)
	h := NewTransferHandler(mockTransfer, mocks.NewMockQueryService(ctrl))

	entry := domain.NewLedgerEntry(uuid.New(), uuid.New(),
		decimal.NewFromInt(100), decimal.NewFromInt(5), domain.TransferKindSend)
	mockTransfer.EXPECT().SendMoney(gomock.Any(), gomock.Any()).
		Return(&ports.TransferResult{Entry: entry, Fee: entry.Fee}, nil)

	w, c := postJSON(t, "/transactions/send-money", dto.SendMoneyRequest{
		SenderMobile:    "01711111111",
		RecipientMobile: "01722222222",
		Amount:          decimal.NewFromInt(100),
	})
	h.SendMoney(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "Transaction successful!")
	assert.Contains(t, resp.Message, entry.ID.String())
}

func TestSendMoney_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewTransferHandler(mocks.NewMockTransferService(ctrl), mocks.NewMockQueryService(ctrl))

	w, c := postJSON(t, "/transactions/send-money", map[string]any{
		"senderMobile": "01711111111",
		// recipientMobile and amount missing
	})
	h.SendMoney(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendMoney_RejectsSubTakaScale(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewTransferHandler(mocks.NewMockTransferService(ctrl), mocks.NewMockQueryService(ctrl))

	w, c := postJSON(t, "/transactions/send-money", map[string]any{
		"senderMobile":    "01711111111",
		"recipientMobile": "01722222222",
		"amount":          100.555,
	})
	h.SendMoney(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendMoney_InsufficientFunds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTransfer := mocks.NewMockTransferService(ctrl)
	h := NewTransferHandler(mockTransfer, mocks.NewMockQueryService(ctrl))

	mockTransfer.EXPECT().SendMoney(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrInsufficientFunds())

	w, c := postJSON(t, "/transactions/send-money", dto.SendMoneyRequest{
		SenderMobile:    "01711111111",
		RecipientMobile: "01722222222",
		Amount:          decimal.NewFromInt(100),
	})
	h.SendMoney(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient balance.")
}

func TestCashIn_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTransfer := mocks.NewMockTransferService(ctrl)
	h := NewTransferHandler(mockTransfer, mocks.NewMockQueryService(ctrl))

	entry := domain.NewLedgerEntry(uuid.New(), uuid.New(),
		decimal.NewFromInt(500), decimal.Zero, domain.TransferKindCashIn)
	mockTransfer.EXPECT().CashIn(gomock.Any(), gomock.Any()).
		Return(&ports.TransferResult{Entry: entry, Fee: decimal.Zero}, nil)

	w, c := postJSON(t, "/transactions/cash-in", dto.CashInRequest{
		UserMobile:  "01711111111",
		AgentMobile: "01722222222",
		Amount:      decimal.NewFromInt(500),
		Pin:         "12345",
	})
	h.CashIn(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.TransferResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, entry.ID.String(), resp.TransactionID)
	assert.Contains(t, resp.Message, "Cash-in successful!")
}

func TestCashOut_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTransfer := mocks.NewMockTransferService(ctrl)
	h := NewTransferHandler(mockTransfer, mocks.NewMockQueryService(ctrl))

	fee := decimal.RequireFromString("1.5")
	entry := domain.NewLedgerEntry(uuid.New(), uuid.New(),
		decimal.NewFromInt(100), fee, domain.TransferKindCashOut)
	mockTransfer.EXPECT().CashOut(gomock.Any(), gomock.Any()).
		Return(&ports.TransferResult{Entry: entry, Fee: fee}, nil)

	w, c := postJSON(t, "/transactions/cash-out", dto.CashOutRequest{
		UserMobile:  "01711111111",
		AgentMobile: "01722222222",
		Amount:      decimal.NewFromInt(100),
		Pin:         "12345",
	})
	h.CashOut(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.CashOutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, entry.ID.String(), resp.TransactionID)
	assert.True(t, resp.Fee.Equal(fee))
	assert.Contains(t, resp.Message, "Cash-out successful!")
}

func TestCashOut_WrongPin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTransfer := mocks.NewMockTransferService(ctrl)
	h := NewTransferHandler(mockTransfer, mocks.NewMockQueryService(ctrl))

	mockTransfer.EXPECT().CashOut(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrIncorrectPin())

	w, c := postJSON(t, "/transactions/cash-out", dto.CashOutRequest{
		UserMobile:  "01711111111",
		AgentMobile: "01722222222",
		Amount:      decimal.NewFromInt(100),
		Pin:         "99999",
	})
	h.CashOut(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Incorrect PIN.")
}

func TestListTransactions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuery := mocks.NewMockQueryService(ctrl)
	h := NewTransferHandler(mocks.NewMockTransferService(ctrl), mockQuery)

	views := []domain.LedgerView{
		{
			ID:              uuid.New(),
			SenderMobile:    "01711111111",
			RecipientMobile: "01722222222",
			Amount:          decimal.NewFromInt(100),
			Fee:             decimal.NewFromInt(5),
			Kind:            domain.TransferKindSend,
			CreatedAt:       time.Now().UTC(),
		},
	}
	mockQuery.EXPECT().ListLedger(gomock.Any()).Return(views, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/transactions", nil)

	h.ListTransactions(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "send", resp[0]["transactionType"])
	assert.Equal(t, "01711111111", resp[0]["senderMobile"])
}

// --- Admin Handler Tests ---

func TestApproveAgent_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdmin := mocks.NewMockAdminService(ctrl)
	h := NewAdminHandler(mockAdmin, mocks.NewMockQueryService(ctrl))

	mockAdmin.EXPECT().ApproveAgent(gomock.Any(), "agent@example.com").Return(nil)

	w, c := postJSON(t, "/admin/approve-agent", dto.ApproveAgentRequest{
		AgentEmail: "agent@example.com",
	})
	h.ApproveAgent(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Agent approved successfully!")
}

func TestApproveAgent_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdmin := mocks.NewMockAdminService(ctrl)
	h := NewAdminHandler(mockAdmin, mocks.NewMockQueryService(ctrl))

	mockAdmin.EXPECT().ApproveAgent(gomock.Any(), "nobody@example.com").
		Return(apperror.ErrAgentNotFound())

	w, c := postJSON(t, "/admin/approve-agent", dto.ApproveAgentRequest{
		AgentEmail: "nobody@example.com",
	})
	h.ApproveAgent(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ACC_002")
}

func TestSystemBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuery := mocks.NewMockQueryService(ctrl)
	h := NewAdminHandler(mocks.NewMockAdminService(ctrl), mockQuery)

	mockQuery.EXPECT().SystemBalance(gomock.Any()).
		Return(decimal.NewFromInt(101040), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/system-balance", nil)

	h.SystemBalance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.SystemBalanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.TotalBalance.Equal(decimal.NewFromInt(101040)))
}

// --- Health Check ---

type healthyChecker struct{ name string }

func (h healthyChecker) Ping(_ context.Context) error { return nil }
func (h healthyChecker) Name() string                 { return h.name }

type unhealthyChecker struct{ name string }

func (u unhealthyChecker) Ping(_ context.Context) error { return errors.New("connection refused") }
func (u unhealthyChecker) Name() string                 { return u.name }

func TestHealthCheck_AllHealthy(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(healthyChecker{"postgresql"}, healthyChecker{"redis"})(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestHealthCheck_Degraded(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(healthyChecker{"postgresql"}, unhealthyChecker{"redis"})(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "degraded")
}
