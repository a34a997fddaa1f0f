package api

import (
	"net/http"

	"fitmarket/internal/domain"
	"fitmarket/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// GET /slots?teacher_id=
func (h *Handler) ListSlots(c *gin.Context) {
	ctx := c.Request.Context()
	var slots []domain.TimeSlot
	if teacherID := c.Query("teacher_id"); teacherID != "" {
		slots = h.db.GetSlotsByTeacher(ctx, teacherID)
	} else {
		slots = h.db.GetSlots(ctx)
	}
	response.Success(c, http.StatusOK, gin.H{"slots": slots})
}

// GET /slots/:id/availability
func (h *Handler) SlotAvailability(c *gin.Context) {
	ctx := c.Request.Context()
	slotID := c.Param("id")
	if _, ok := h.findSlot(c, slotID); !ok {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "slot not found")
		return
	}

	resp := availabilityResponse{
		SlotID:         slotID,
		AvailableSeats: h.db.AvailableSeats(ctx, slotID),
	}
	if clientID := c.Query("client_id"); clientID != "" {
		can := h.db.CanBook(ctx, clientID, slotID)
		resp.CanBook = &can
	}
	response.Success(c, http.StatusOK, resp)
}

// POST /slots
func (h *Handler) CreateSlot(c *gin.Context) {
	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	slot := req.toSlot()
	slot.TeacherID = currentUserID(c)
	saved, err := h.db.SaveSlot(c.Request.Context(), slot)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"slot": saved})
}

// PUT /slots/:id
func (h *Handler) UpdateSlot(c *gin.Context) {
	existing, ok := h.ownedSlot(c)
	if !ok {
		return
	}

	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	slot := req.toSlot()
	slot.ID = existing.ID
	slot.TeacherID = existing.TeacherID
	saved, err := h.db.SaveSlot(c.Request.Context(), slot)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"slot": saved})
}

// DELETE /slots/:id
func (h *Handler) DeleteSlot(c *gin.Context) {
	existing, ok := h.ownedSlot(c)
	if !ok {
		return
	}
	if err := h.db.DeleteSlot(c.Request.Context(), existing.ID); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "slot deleted"})
}

func (h *Handler) findSlot(c *gin.Context, id string) (domain.TimeSlot, bool) {
	for _, s := range h.db.GetSlots(c.Request.Context()) {
		if s.ID == id {
			return s, true
		}
	}
	return domain.TimeSlot{}, false
}

// ownedSlot resolves :id and writes the error response itself when the slot
// is missing or belongs to another teacher.
func (h *Handler) ownedSlot(c *gin.Context) (domain.TimeSlot, bool) {
	slot, ok := h.findSlot(c, c.Param("id"))
	if !ok {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "slot not found")
		return domain.TimeSlot{}, false
	}
	if slot.TeacherID != currentUserID(c) && !isAdmin(c) {
		forbidden(c, "slot belongs to another teacher")
		return domain.TimeSlot{}, false
	}
	return slot, true
}

func (r slotRequest) toSlot() domain.TimeSlot {
	return domain.TimeSlot{
		StartAt:       r.StartAt,
		EndAt:         r.EndAt,
		CapacityTotal: r.CapacityTotal,
		Type:          r.Type,
		Location:      r.Location,
		Price:         r.Price,
		Status:        r.Status,
	}
}
