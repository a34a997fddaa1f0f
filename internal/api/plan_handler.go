package api

import (
	"net/http"

	"fitmarket/internal/domain"
	"fitmarket/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// POST /me/plan/:planId
func (h *Handler) RequestPlan(c *gin.Context) {
	u, err := h.db.RequestPlan(c.Request.Context(), currentUserID(c), c.Param("planId"))
	h.planResult(c, u, err)
}

// POST /admin/professionals/:id/plan/assign
func (h *Handler) AssignPlan(c *gin.Context) {
	var req planDurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.db.AssignPlanToTrainer(c.Request.Context(), c.Param("id"), req.PlanName, req.Days)
	h.planResult(c, u, err)
}

// POST /admin/professionals/:id/plan/activate
func (h *Handler) ActivatePlan(c *gin.Context) {
	var req planDurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.db.ActivatePlanWithDuration(c.Request.Context(), c.Param("id"), req.PlanName, req.Days)
	h.planResult(c, u, err)
}

// POST /admin/professionals/:id/plan/suspend
func (h *Handler) SuspendPlan(c *gin.Context) {
	u, err := h.db.SuspendPlan(c.Request.Context(), c.Param("id"))
	h.planResult(c, u, err)
}

// POST /admin/professionals/:id/plan/extend
func (h *Handler) ExtendPlan(c *gin.Context) {
	var req extendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.db.AddDaysToExpiry(c.Request.Context(), c.Param("id"), req.Days)
	h.planResult(c, u, err)
}

// PUT /admin/professionals/:id/plan/expiry
func (h *Handler) SetPlanExpiry(c *gin.Context) {
	var req expiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.db.SetCustomExpiry(c.Request.Context(), c.Param("id"), req.Expiry)
	h.planResult(c, u, err)
}

// PUT /admin/professionals/:id/plan
func (h *Handler) TogglePlan(c *gin.Context) {
	var req planToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.db.UpdateTrainerPlan(c.Request.Context(), c.Param("id"), req.PlanName, *req.Active)
	h.planResult(c, u, err)
}

func (h *Handler) planResult(c *gin.Context, u domain.User, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u, "plan": h.planStatus(u)})
}
