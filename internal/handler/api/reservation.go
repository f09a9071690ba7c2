package api

import (
	"errors"
	"net/http"
	"time"

	"tablebook/internal/domain/reservation"
	reqdto "tablebook/internal/handler/dto/request"
	resdto "tablebook/internal/handler/dto/response"
	"tablebook/internal/handler/httperr"
	"tablebook/internal/handler/middleware"
	"tablebook/internal/infra"
	"tablebook/internal/usecase/commands"
	"tablebook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	commands commands.ReservationCommands
	queries  queries.ReservationQueries
	loc      *time.Location
}

func NewReservationHandler(cmds commands.ReservationCommands, qrys queries.ReservationQueries, loc *time.Location) *ReservationHandler {
	return &ReservationHandler{commands: cmds, queries: qrys, loc: loc}
}

// @Summary Create reservation
// @Description Customer-facing booking request
// @Tags reservations
// @Accept json
// @Produce json
// @Param X-Restaurant-ID header string true "Restaurant ID"
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	restaurantID, ok := middleware.GetRestaurantID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingTenant, "Internal server error", nil)
		return
	}

	var req reqdto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	params, err := req.ToParams(restaurantID, h.loc)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	view, err := h.commands.Create(c.Request.Context(), params)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromReservationView(view))
}

// @Summary Create reservation (staff)
// @Description Dashboard booking entry; bypasses the customer booking window
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Restaurant-ID header string true "Restaurant ID"
// @Param request body reqdto.StaffCreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /dashboard/reservations [post]
func (h *ReservationHandler) CreateByStaff(c *gin.Context) {
	restaurantID, ok := middleware.GetRestaurantID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingTenant, "Internal server error", nil)
		return
	}
	staffID, ok := middleware.GetStaffID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingStaff, "Internal server error", nil)
		return
	}

	var req reqdto.StaffCreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	params, err := req.ToParams(restaurantID, staffID, h.loc)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	view, err := h.commands.CreateByStaff(c.Request.Context(), params)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromReservationView(view))
}

// @Summary Look up reservation
// @Description Guest retrieval by confirmation code, optionally checked against phone digits
// @Tags reservations
// @Produce json
// @Param X-Restaurant-ID header string true "Restaurant ID"
// @Param code query string true "Confirmation code"
// @Param phone_digits query string false "Last digits of the booking phone number"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Router /reservations/lookup [get]
func (h *ReservationHandler) Lookup(c *gin.Context) {
	restaurantID, ok := middleware.GetRestaurantID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingTenant, "Internal server error", nil)
		return
	}

	code := c.Query("code")
	phoneDigits := c.Query("phone_digits")

	view, err := h.queries.LookupByCode(c.Request.Context(), restaurantID, code, phoneDigits)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary Cancel reservation by code
// @Description Guest self-service cancellation; the cancellation deadline applies
// @Tags reservations
// @Accept json
// @Produce json
// @Param X-Restaurant-ID header string true "Restaurant ID"
// @Param request body reqdto.CancelByCodeRequest true "Cancellation request"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations/cancel [post]
func (h *ReservationHandler) CancelByCode(c *gin.Context) {
	restaurantID, ok := middleware.GetRestaurantID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingTenant, "Internal server error", nil)
		return
	}

	var req reqdto.CancelByCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	view, err := h.commands.CancelByCode(c.Request.Context(), restaurantID, req.ConfirmationCode, req.PhoneDigits, req.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary List reservations
// @Description Dashboard list with filters and pagination
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param X-Restaurant-ID header string true "Restaurant ID"
// @Success 200 {object} resdto.ReservationPageResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /dashboard/reservations [get]
func (h *ReservationHandler) List(c *gin.Context) {
	restaurantID, ok := middleware.GetRestaurantID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingTenant, "Internal server error", nil)
		return
	}

	var q reqdto.ListReservationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}

	filter, err := q.ToFilter(h.loc)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	page, err := h.queries.List(c.Request.Context(), restaurantID, filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationPage(page))
}

// @Summary Today's reservations
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param X-Restaurant-ID header string true "Restaurant ID"
// @Success 200 {array} resdto.ReservationListItemResponse
// @Failure 401 {object} httperr.Response
// @Router /dashboard/reservations/today [get]
func (h *ReservationHandler) Today(c *gin.Context) {
	restaurantID, ok := middleware.GetRestaurantID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingTenant, "Internal server error", nil)
		return
	}

	items, err := h.queries.Today(c.Request.Context(), restaurantID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationListItems(items))
}

// @Summary Upcoming reservations
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param X-Restaurant-ID header string true "Restaurant ID"
// @Success 200 {array} resdto.ReservationListItemResponse
// @Failure 401 {object} httperr.Response
// @Router /dashboard/reservations/upcoming [get]
func (h *ReservationHandler) Upcoming(c *gin.Context) {
	restaurantID, ok := middleware.GetRestaurantID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingTenant, "Internal server error", nil)
		return
	}

	items, err := h.queries.Upcoming(c.Request.Context(), restaurantID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationListItems(items))
}

// @Summary Day statistics
// @Description Reservation counts and expected guests for one service day
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param X-Restaurant-ID header string true "Restaurant ID"
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} resdto.DayStatsResponse
// @Failure 401 {object} httperr.Response
// @Router /dashboard/reservations/stats [get]
func (h *ReservationHandler) Stats(c *gin.Context) {
	restaurantID, ok := middleware.GetRestaurantID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingTenant, "Internal server error", nil)
		return
	}

	date := time.Now().In(h.loc)
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, h.loc)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Date must be formatted as YYYY-MM-DD", nil)
			return
		}
		date = parsed
	}

	stats, err := h.queries.Stats(c.Request.Context(), restaurantID, date)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromDayStats(stats))
}

// @Summary Get reservation
// @Description Reservation detail with its transition history
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param X-Restaurant-ID header string true "Restaurant ID"
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationDetailResponse
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /dashboard/reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	restaurantID, ok := middleware.GetRestaurantID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingTenant, "Internal server error", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}

	view, history, err := h.queries.GetByID(c.Request.Context(), restaurantID, id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationDetail(view, history))
}

// @Summary Transition reservation status
// @Description Move a reservation through its lifecycle (confirm, seat, complete, cancel, no-show)
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Restaurant-ID header string true "Restaurant ID"
// @Param id path string true "Reservation ID"
// @Param request body reqdto.TransitionRequest true "Target status"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /dashboard/reservations/{id}/status [patch]
func (h *ReservationHandler) Transition(c *gin.Context) {
	restaurantID, ok := middleware.GetRestaurantID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingTenant, "Internal server error", nil)
		return
	}
	staffID, ok := middleware.GetStaffID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingStaff, "Internal server error", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}

	var req reqdto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	view, err := h.commands.Transition(c.Request.Context(), restaurantID, id, reservation.Status(req.Status), &staffID, req.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary Assign table
// @Description Bind a table to a reservation after a conflict check
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Restaurant-ID header string true "Restaurant ID"
// @Param id path string true "Reservation ID"
// @Param request body reqdto.AssignTableRequest true "Table assignment"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /dashboard/reservations/{id}/table [put]
func (h *ReservationHandler) AssignTable(c *gin.Context) {
	restaurantID, ok := middleware.GetRestaurantID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingTenant, "Internal server error", nil)
		return
	}
	staffID, ok := middleware.GetStaffID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingStaff, "Internal server error", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}

	var req reqdto.AssignTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	tableID, err := uuid.Parse(req.TableID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid table ID format", nil)
		return
	}

	view, err := h.commands.AssignTable(c.Request.Context(), restaurantID, id, tableID, &staffID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

func (h *ReservationHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, queries.ErrLookupMismatch):
		httperr.AbortWithError(c, http.StatusNotFound, err, "No reservation matches the given code and phone", nil)
	case errors.Is(err, commands.ErrReservationNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
	case errors.Is(err, commands.ErrTableNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Table not found", nil)
	case errors.Is(err, commands.ErrSlotUnavailable):
		httperr.AbortWithError(c, http.StatusConflict, err, "No table is free at the requested time", nil)
	case errors.Is(err, commands.ErrTableConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "Table already holds an overlapping reservation", nil)
	case errors.Is(err, commands.ErrDailyLimitReached):
		httperr.AbortWithError(c, http.StatusConflict, err, "Daily reservation limit reached", nil)
	case errors.Is(err, commands.ErrHourlyLimitReached):
		httperr.AbortWithError(c, http.StatusConflict, err, "Hourly reservation limit reached", nil)
	case errors.Is(err, commands.ErrNotAcceptingReservations):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Restaurant is not accepting reservations", nil)
	case errors.Is(err, reservation.ErrPartySizeOutOfRange):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Party size outside restaurant limits", nil)
	case errors.Is(err, reservation.ErrPastReservation),
		errors.Is(err, reservation.ErrOutsideBookingWindow):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Requested time is outside the booking window", nil)
	case errors.Is(err, commands.ErrOutsideOpeningHours):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Requested time is outside opening hours", nil)
	case errors.Is(err, reservation.ErrInvalidTransition):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid status transition", nil)
	case errors.Is(err, reservation.ErrCancelDeadlinePassed):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Cancellation deadline has passed", nil)
	case errors.Is(err, reservation.ErrNotUpcoming):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Reservation has already started", nil)
	case errors.Is(err, reservation.ErrGuestInfoRequired),
		errors.Is(err, reservation.ErrInvalidPartySize),
		errors.Is(err, reservation.ErrInvalidStatus),
		errors.Is(err, reservation.ErrInvalidSource),
		errors.Is(err, reservation.ErrTableWrongRestaurant):
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
	case infra.IsKind(err, infra.KindNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

var errMissingStaff = errors.New("staff ID missing from context")
