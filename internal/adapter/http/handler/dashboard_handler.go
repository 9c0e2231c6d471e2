package handler

import (
	"math"
	"strconv"
	"time"

	"batched-savings-ledger/internal/adapter/http/dto"
	"batched-savings-ledger/internal/core/domain"
	"batched-savings-ledger/internal/core/ports"
	"batched-savings-ledger/pkg/apperror"
	"batched-savings-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// DashboardHandler handles the reporting endpoints: the event stream is the
// only durable history, so enumeration of past deposits happens here.
type DashboardHandler struct {
	reportingSvc ports.ReportingService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(reportingSvc ports.ReportingService) *DashboardHandler {
	return &DashboardHandler{reportingSvc: reportingSvc}
}

// GetSummary handles GET /api/v1/dashboard/summary.
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.reportingSvc.GetLedgerSummary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.LedgerSummaryResponse{
		LiveDeposits:   summary.LiveDeposits,
		TotalPrincipal: summary.TotalPrincipal,
		ReserveRatePPM: summary.ReserveRatePPM,
		ReserveTicks:   summary.ReserveTicks,
	})
}

// ListEvents handles GET /api/v1/events.
func (h *DashboardHandler) ListEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	params := ports.EventListParams{
		Page:     page,
		PageSize: pageSize,
	}

	if k := c.Query("kind"); k != "" {
		kind := domain.LedgerEventKind(k)
		params.Kind = &kind
	}
	if f := c.Query("from"); f != "" {
		if v, err := strconv.ParseInt(f, 10, 64); err == nil {
			params.From = &v
		}
	}
	if t := c.Query("to"); t != "" {
		if v, err := strconv.ParseInt(t, 10, 64); err == nil {
			params.To = &v
		}
	}

	events, total, err := h.reportingSvc.ListEvents(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		items = append(items, toEventResponse(&events[i]))
	}

	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))

	response.OK(c, dto.EventListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

// DepositHistory handles GET /api/v1/deposits/:id/history.
func (h *DashboardHandler) DepositHistory(c *gin.Context) {
	id, err := domain.ParseDepositID(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	events, err := h.reportingSvc.DepositHistory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		items = append(items, toEventResponse(&events[i]))
	}

	response.OK(c, items)
}

// toEventResponse converts domain.LedgerEvent to DTO.
func toEventResponse(ev *domain.LedgerEvent) dto.EventResponse {
	return dto.EventResponse{
		ID:        ev.ID.String(),
		Kind:      string(ev.Kind),
		DepositID: ev.DepositID.String(),
		Amount:    ev.Amount.String(),
		CreatedAt: ev.CreatedAt.Format(time.RFC3339),
	}
}
