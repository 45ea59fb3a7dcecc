package handler

import (
	"fmt"

	"mobile-wallet-service/internal/adapter/http/dto"
	"mobile-wallet-service/internal/core/ports"
	"mobile-wallet-service/pkg/apperror"
	"mobile-wallet-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// TransferHandler handles the balance-moving endpoints and the ledger view.
type TransferHandler struct {
	transferSvc ports.TransferService
	querySvc    ports.QueryService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferSvc ports.TransferService, querySvc ports.QueryService) *TransferHandler {
	return &TransferHandler{transferSvc: transferSvc, querySvc: querySvc}
}

// SendMoney handles POST /transactions/send-money.
func (h *TransferHandler) SendMoney(c *gin.Context) {
	var req dto.SendMoneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.transferSvc.SendMoney(c.Request.Context(), ports.SendMoneyRequest{
		SenderMobile:    req.SenderMobile,
		RecipientMobile: req.RecipientMobile,
		Amount:          req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.MessageResponse{
		Message: fmt.Sprintf("Transaction successful! Transaction ID: %s.", result.Entry.ID),
	})
}

// CashIn handles POST /transactions/cash-in.
func (h *TransferHandler) CashIn(c *gin.Context) {
	var req dto.CashInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.transferSvc.CashIn(c.Request.Context(), ports.CashInRequest{
		UserMobile:  req.UserMobile,
		AgentMobile: req.AgentMobile,
		Amount:      req.Amount,
		Pin:         req.Pin,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.TransferResponse{
		Message:       fmt.Sprintf("Cash-in successful! You added %s Taka.", result.Entry.Amount),
		TransactionID: result.Entry.ID.String(),
	})
}

// CashOut handles POST /transactions/cash-out.
func (h *TransferHandler) CashOut(c *gin.Context) {
	var req dto.CashOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.transferSvc.CashOut(c.Request.Context(), ports.CashOutRequest{
		UserMobile:  req.UserMobile,
		AgentMobile: req.AgentMobile,
		Amount:      req.Amount,
		Pin:         req.Pin,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.CashOutResponse{
		Message:       fmt.Sprintf("Cash-out successful! You withdrew %s Taka.", result.Entry.Amount),
		Fee:           result.Fee,
		TransactionID: result.Entry.ID.String(),
	})
}

// ListTransactions handles GET /transactions.
func (h *TransferHandler) ListTransactions(c *gin.Context) {
	views, err := h.querySvc.ListLedger(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, views)
}
