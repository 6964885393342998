package reservation

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tablehub/internal/domain/auth"
	"tablehub/internal/pkg/apperror"
	"tablehub/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateReservation
// @Summary Book a table
// @Description Creates a pending reservation. The response carries the confirmation code.
// @Tags Reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRequest true "Reservation"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "Validation, policy or slot conflict"
// @Failure 404 {object} map[string]interface{} "Restaurant not found"
// @Router /api/v1/reservations [post]
func (h *Handler) CreateReservation(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	r, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"reservation": r})
}

// ListReservations
// @Summary List reservations visible to the caller
// @Tags Reservations
// @Produce json
// @Security BearerAuth
// @Param restaurant_id query integer false "Restaurant"
// @Param status query string false "pending, confirmed, cancelled, completed, no_show"
// @Param date query string false "YYYY-MM-DD"
// @Param limit query integer false "Page size (max 100)"
// @Param offset query integer false "Offset"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/reservations [get]
func (h *Handler) ListReservations(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	f := ListFilter{
		Status: Status(c.Query("status")),
		Date:   c.Query("date"),
	}
	if v := c.Query("restaurant_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid restaurant_id")
			return
		}
		f.RestaurantID = id
	}
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	f.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, total, err := h.service.ListForActor(c.Request.Context(), actor, f)
	if err != nil {
		writeError(c, err)
		return
	}

	limit := f.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	response.Success(c, http.StatusOK, gin.H{
		"reservations": items,
		"pagination": gin.H{
			"total":  total,
			"limit":  limit,
			"offset": f.Offset,
		},
	})
}

func (h *Handler) GetReservation(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	r, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": r})
}

// GetReservationByCode
// @Summary Look up a reservation by confirmation code
// @Description Public, rate limited.
// @Tags Reservations
// @Produce json
// @Param code path string true "Six character confirmation code"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{}
// @Router /api/v1/reservations/code/{code} [get]
func (h *Handler) GetReservationByCode(c *gin.Context) {
	r, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": r})
}

func (h *Handler) UpdateReservation(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	r, err := h.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": r})
}

func (h *Handler) DeleteReservation(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Reservation deleted"})
}

func (h *Handler) ConfirmReservation(c *gin.Context) {
	h.transition(c, h.service.Confirm)
}

func (h *Handler) CompleteReservation(c *gin.Context) {
	h.transition(c, h.service.Complete)
}

func (h *Handler) MarkNoShow(c *gin.Context) {
	h.transition(c, h.service.MarkNoShow)
}

// CancelReservation
// @Summary Cancel a reservation
// @Tags Reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path integer true "Reservation ID"
// @Param request body CancelRequest false "Reason"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "Invalid transition or already cancelled"
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/reservations/{id}/cancel [patch]
func (h *Handler) CancelReservation(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	// The body is optional.
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	r, err := h.service.Cancel(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": r})
}

type transitionFunc func(ctx context.Context, actor auth.Actor, id int64) (*Reservation, error)

func (h *Handler) transition(c *gin.Context, fn transitionFunc) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	r, err := fn(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": r})
}

// writeError reports slot and state conflicts as 400, the status clients of
// this API have always received for them.
func writeError(c *gin.Context, err error) {
	if apperror.Is(err, apperror.KindConflict) {
		response.FromErrorWithStatus(c, err, http.StatusBadRequest)
		return
	}
	response.FromError(c, err)
}

func requireActor(c *gin.Context) (auth.Actor, bool) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	}
	return actor, ok
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid reservation ID")
		return 0, false
	}
	return id, true
}
