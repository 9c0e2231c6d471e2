package handler

import (
	"batched-savings-ledger/internal/adapter/http/dto"
	"batched-savings-ledger/internal/core/ports"
	"batched-savings-ledger/pkg/apperror"
	"batched-savings-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// TreasuryHandler handles the untracked funding endpoints.
type TreasuryHandler struct {
	treasurySvc ports.TreasuryService
}

// NewTreasuryHandler creates a new TreasuryHandler.
func NewTreasuryHandler(treasurySvc ports.TreasuryService) *TreasuryHandler {
	return &TreasuryHandler{treasurySvc: treasurySvc}
}

// AddFunds handles POST /api/v1/treasury/add-funds.
func (h *TreasuryHandler) AddFunds(c *gin.Context) {
	address, ok := operatorAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.AddFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	amounts, ok := dto.ParseAmounts([]string{req.Amount})
	if !ok {
		response.Error(c, apperror.Validation("amount must be a decimal integer"))
		return
	}

	if err := h.treasurySvc.AddFunds(c.Request.Context(), ports.AddFundsRequest{
		OperatorAddress: address,
		Source:          req.Source,
		Amount:          amounts[0],
	}); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"funded": amounts[0].String()})
}

// MoveFunds handles POST /api/v1/treasury/move-funds.
func (h *TreasuryHandler) MoveFunds(c *gin.Context) {
	address, ok := operatorAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.MoveFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	amounts, ok := dto.ParseAmounts([]string{req.Amount})
	if !ok {
		response.Error(c, apperror.Validation("amount must be a decimal integer"))
		return
	}

	paid, err := h.treasurySvc.MoveFunds(c.Request.Context(), ports.MoveFundsRequest{
		OperatorAddress: address,
		Receiver:        req.Receiver,
		Amount:          amounts[0],
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.MoveFundsResponse{Paid: paid.String()})
}

// RescueTokens handles POST /api/v1/treasury/rescue.
func (h *TreasuryHandler) RescueTokens(c *gin.Context) {
	address, ok := operatorAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.RescueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	amounts, ok := dto.ParseAmounts([]string{req.Amount})
	if !ok {
		response.Error(c, apperror.Validation("amount must be a decimal integer"))
		return
	}

	// An empty token selects the native currency; the service applies the
	// sentinel.
	if err := h.treasurySvc.RescueTokens(c.Request.Context(), ports.RescueRequest{
		OperatorAddress: address,
		Token:           req.Token,
		Receiver:        req.Receiver,
		Amount:          amounts[0],
	}); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"rescued": amounts[0].String()})
}
