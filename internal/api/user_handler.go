package api

import (
	"net/http"

	"fitmarket/internal/domain"
	"fitmarket/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// GET /me
func (h *Handler) GetMe(c *gin.Context) {
	u, ok := h.db.GetUser(c.Request.Context(), currentUserID(c))
	if !ok {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "profile not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u})
}

// PUT /me creates the caller's profile on first use and updates it
// afterwards. Role and plan fields are never taken from the body.
func (h *Handler) UpdateMe(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	u, ok := h.db.GetUser(ctx, currentUserID(c))
	if !ok {
		u = domain.User{ID: currentUserID(c), Role: currentRole(c)}
	}
	req.applyTo(&u)

	saved, err := h.db.SaveUser(ctx, u)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": saved})
}

// GET /me/plan
func (h *Handler) GetMyPlan(c *gin.Context) {
	u, ok := h.db.GetUser(c.Request.Context(), currentUserID(c))
	if !ok || !u.IsProfessional() {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "professional profile not found")
		return
	}
	response.Success(c, http.StatusOK, h.planStatus(u))
}

func (h *Handler) planStatus(u domain.User) PlanStatusResponse {
	expired := h.db.IsPlanExpired(u.PlanExpiry)
	return PlanStatusResponse{
		Status:        u.PlanStatus,
		PlanType:      u.PlanType,
		Expiry:        u.PlanExpiry,
		RequestedPlan: u.RequestedPlanID,
		Expired:       expired,
		DaysRemaining: h.db.GetDaysRemaining(u.PlanExpiry),
		Active:        u.PlanActive() && !expired,
	}
}

func (r profileRequest) applyTo(u *domain.User) {
	if r.Name != "" {
		u.Name = r.Name
	}
	if r.LastName != "" {
		u.LastName = r.LastName
	}
	if r.Email != "" {
		u.Email = r.Email
	}
	if r.Phone != "" {
		u.Phone = r.Phone
	}
	if r.City != "" {
		u.City = r.City
	}
	if r.Areas != nil {
		u.Areas = r.Areas
	}
	if r.Bio != "" {
		u.Bio = r.Bio
	}
	if r.Location != "" {
		u.Location = r.Location
	}
	if r.Modalities != nil {
		u.Modalities = r.Modalities
	}
	if r.Image != "" {
		u.Image = r.Image
	}
	if r.Price > 0 {
		u.Price = r.Price
	}
}
