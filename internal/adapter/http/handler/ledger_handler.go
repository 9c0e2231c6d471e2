package handler

import (
	"time"

	"batched-savings-ledger/internal/adapter/http/dto"
	"batched-savings-ledger/internal/adapter/http/middleware"
	"batched-savings-ledger/internal/core/domain"
	"batched-savings-ledger/internal/core/ports"
	"batched-savings-ledger/pkg/apperror"
	"batched-savings-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// LedgerHandler handles the batched deposit endpoints.
type LedgerHandler struct {
	ledgerSvc ports.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerSvc ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc}
}

// operatorAddress extracts the authenticated operator's on-ledger address.
func operatorAddress(c *gin.Context) (string, bool) {
	op, ok := c.Get(middleware.CtxOperatorKey)
	if !ok {
		return "", false
	}
	operator, ok := op.(*domain.Operator)
	if !ok {
		return "", false
	}
	return operator.Address, true
}

// CreateBatch handles POST /api/v1/deposits/batch.
func (h *LedgerHandler) CreateBatch(c *gin.Context) {
	address, ok := operatorAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.BatchCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	ids, err := dto.ParseDepositIDs(req.IDs)
	if err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	amounts, ok := dto.ParseAmounts(req.Amounts)
	if !ok {
		response.Error(c, apperror.Validation("amounts must be decimal integers"))
		return
	}

	result, err := h.ledgerSvc.CreateDeposits(c.Request.Context(), ports.CreateBatchRequest{
		OperatorAddress: address,
		Source:          req.Source,
		IDs:             ids,
		Amounts:         amounts,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.BatchCreateResponse{
		Total:          result.Total.String(),
		CreatedAt:      result.CreatedAt.Format(time.RFC3339),
		TicksAtDeposit: result.TicksAtDeposit.String(),
		Count:          result.Count,
	})
}

// RedeemBatch handles POST /api/v1/deposits/redeem.
func (h *LedgerHandler) RedeemBatch(c *gin.Context) {
	address, ok := operatorAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.BatchRedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	ids, err := dto.ParseDepositIDs(req.IDs)
	if err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.ledgerSvc.RedeemDeposits(c.Request.Context(), ports.RedeemBatchRequest{
		OperatorAddress: address,
		Receiver:        req.Receiver,
		IDs:             ids,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BatchRedeemResponse{
		Total:      result.Total.String(),
		RedeemedAt: result.RedeemedAt.Format(time.RFC3339),
		Count:      result.Count,
	})
}

// GetDeposit handles GET /api/v1/deposits/:id.
func (h *LedgerHandler) GetDeposit(c *gin.Context) {
	id, err := domain.ParseDepositID(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	info, err := h.ledgerSvc.GetDeposit(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.DepositResponse{
		ID:             info.ID.String(),
		Principal:      info.Principal.String(),
		NetInterest:    info.NetInterest.String(),
		CreatedAt:      info.CreatedAt.Format(time.RFC3339),
		TicksAtDeposit: info.TicksAtDeposit.String(),
	})
}
