package api

import (
	"net/http"

	"fitmarket/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// POST /sync flushes queued writes and pulls every collection. A partial
// pull still answers 200 with the failed collections listed in the report.
func (h *Handler) ForceSync(c *gin.Context) {
	report, err := h.db.ForceSync(c.Request.Context())
	if err != nil && len(report.Refreshed) == 0 && len(report.Suppressed) == 0 {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report": report})
}

// GET /sync/status
func (h *Handler) SyncStatus(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"status": h.db.SyncStatus()})
}
