package admin

import (
	"errors"
	"net/http"
	"strconv"

	handlershared "github.com/dollers-electro/internal/http/handlers/shared"
	"github.com/dollers-electro/internal/http/response"
	"github.com/dollers-electro/internal/repository"
	"github.com/dollers-electro/internal/service"

	"github.com/gin-gonic/gin"
)

// ListAlerts lists low-stock alerts ordered by priority.
func (h *Handler) ListAlerts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	alerts, total, err := h.LowStockService.List(repository.AlertListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list alerts", err)
		return
	}

	response.SuccessWithPage(c, alerts, response.NewPagination(page, pageSize, total))
}

// CheckAlerts runs a full low-stock scan on demand.
func (h *Handler) CheckAlerts(c *gin.Context) {
	result, err := h.LowStockService.Scan()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "low-stock scan failed", err)
		return
	}
	response.Success(c, result)
}

func (h *Handler) moveAlert(c *gin.Context, move func(uint) (interface{}, error)) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	alert, err := move(id)
	if err != nil {
		if errors.Is(err, service.ErrAlertNotFound) {
			respondError(c, http.StatusNotFound, "alert not found", nil)
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to update alert", err)
		return
	}

	response.Success(c, alert)
}

// AcknowledgeAlert marks an alert as being handled.
func (h *Handler) AcknowledgeAlert(c *gin.Context) {
	h.moveAlert(c, func(id uint) (interface{}, error) {
		return h.LowStockService.Acknowledge(id)
	})
}

// DismissAlert closes an alert without restocking.
func (h *Handler) DismissAlert(c *gin.Context) {
	h.moveAlert(c, func(id uint) (interface{}, error) {
		return h.LowStockService.Dismiss(id)
	})
}

// ResolveAlert closes an alert as handled.
func (h *Handler) ResolveAlert(c *gin.Context) {
	h.moveAlert(c, func(id uint) (interface{}, error) {
		return h.LowStockService.Resolve(id)
	})
}
