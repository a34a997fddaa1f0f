package api

import (
	"net/http"

	"fitmarket/internal/domain"
	"fitmarket/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// GET /professionals
func (h *Handler) ListProfessionals(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"professionals": h.db.GetVisiblePros(c.Request.Context())})
}

// GET /professionals/:id
func (h *Handler) GetProfessional(c *gin.Context) {
	u, ok := h.db.GetUser(c.Request.Context(), c.Param("id"))
	if !ok || !u.IsProfessional() {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "professional not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"professional": u})
}

// GET /categories
func (h *Handler) ListCategories(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"categories": h.db.GetCategories(c.Request.Context())})
}

// GET /plans
func (h *Handler) ListPlans(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"plans": h.db.GetPlans(c.Request.Context())})
}

// POST /admin/categories, PUT /admin/categories/:id
func (h *Handler) SaveCategory(c *gin.Context) {
	var req domain.Category
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if id := c.Param("id"); id != "" {
		req.ID = id
	}

	saved, err := h.db.SaveCategory(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"category": saved})
}

// DELETE /admin/categories/:id
func (h *Handler) DeleteCategory(c *gin.Context) {
	if err := h.db.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "category deleted"})
}

// POST /admin/plans, PUT /admin/plans/:id
func (h *Handler) SavePlan(c *gin.Context) {
	var req domain.Plan
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if id := c.Param("id"); id != "" {
		req.ID = id
	}

	saved, err := h.db.SavePlan(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"plan": saved})
}

// DELETE /admin/plans/:id
func (h *Handler) DeletePlan(c *gin.Context) {
	if err := h.db.DeletePlan(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "plan deleted"})
}

// GET /admin/clients
func (h *Handler) ListClients(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"clients": h.db.GetClients(c.Request.Context())})
}

// GET /admin/professionals lists every professional, visible or not.
func (h *Handler) ListAllProfessionals(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"professionals": h.db.GetPros(c.Request.Context())})
}
