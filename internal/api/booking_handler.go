package api

import (
	"net/http"

	"fitmarket/internal/domain"
	"fitmarket/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// GET /bookings returns the caller's bookings: as a client, as a teacher, or
// all of them for admins.
func (h *Handler) ListBookings(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	var bookings []domain.Booking
	switch currentRole(c) {
	case domain.RoleAdmin:
		bookings = h.db.GetBookings(ctx)
	case domain.RoleTeacher:
		bookings = h.db.GetTeacherBookings(ctx, userID)
	default:
		bookings = h.db.GetClientBookings(ctx, userID)
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

// POST /bookings
func (h *Handler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	booking, err := h.db.CreateBooking(c.Request.Context(), domain.Booking{
		ClientID: currentUserID(c),
		SlotID:   req.SlotID,
		Message:  req.Message,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"booking": booking})
}

// PATCH /bookings/:id/status
func (h *Handler) UpdateBookingStatus(c *gin.Context) {
	booking, ok := h.accessibleBooking(c)
	if !ok {
		return
	}

	var req bookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	// Clients may only withdraw their own request.
	if booking.TeacherID != currentUserID(c) && !isAdmin(c) && req.Status != domain.BookingCancelled {
		forbidden(c, "only the teacher can confirm or reject a booking")
		return
	}

	updated, err := h.db.UpdateBookingStatus(c.Request.Context(), booking.ID, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": updated})
}

// DELETE /bookings/:id
func (h *Handler) DeleteBooking(c *gin.Context) {
	booking, ok := h.accessibleBooking(c)
	if !ok {
		return
	}
	if err := h.db.DeleteBooking(c.Request.Context(), booking.ID); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "booking deleted"})
}

func (h *Handler) accessibleBooking(c *gin.Context) (domain.Booking, bool) {
	id := c.Param("id")
	userID := currentUserID(c)
	for _, b := range h.db.GetBookings(c.Request.Context()) {
		if b.ID != id {
			continue
		}
		if b.ClientID != userID && b.TeacherID != userID && !isAdmin(c) {
			forbidden(c, "booking belongs to another user")
			return domain.Booking{}, false
		}
		return b, true
	}
	response.Error(c, http.StatusNotFound, "NOT_FOUND", "booking not found")
	return domain.Booking{}, false
}
