package admin

import (
	"net/http"

	"github.com/dollers-electro/internal/http/response"

	"github.com/gin-gonic/gin"
)

// Dashboard returns the console summary counters.
func (h *Handler) Dashboard(c *gin.Context) {
	summary, err := h.DashboardService.Summary(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to build dashboard", err)
		return
	}
	response.Success(c, summary)
}
