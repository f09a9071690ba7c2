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
	"tablebook/internal/usecase/commands"
	"tablebook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BlockedTimeHandler struct {
	commands commands.BlockedTimeCommands
	queries  queries.ReservationQueries
	loc      *time.Location
}

func NewBlockedTimeHandler(cmds commands.BlockedTimeCommands, qrys queries.ReservationQueries, loc *time.Location) *BlockedTimeHandler {
	return &BlockedTimeHandler{commands: cmds, queries: qrys, loc: loc}
}

type blockedTimeRangeQuery struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

// @Summary List blocked times
// @Description Blocked windows overlapping the requested date range
// @Tags blocked-times
// @Produce json
// @Security BearerAuth
// @Param X-Restaurant-ID header string true "Restaurant ID"
// @Param from query string true "Range start (YYYY-MM-DD)"
// @Param to query string true "Range end (YYYY-MM-DD, exclusive)"
// @Success 200 {array} resdto.BlockedTimeResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /dashboard/blocked-times [get]
func (h *BlockedTimeHandler) List(c *gin.Context) {
	restaurantID, ok := middleware.GetRestaurantID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingTenant, "Internal server error", nil)
		return
	}

	var q blockedTimeRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}

	from, err := time.ParseInLocation("2006-01-02", q.From, h.loc)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Dates must be formatted as YYYY-MM-DD", nil)
		return
	}
	to, err := time.ParseInLocation("2006-01-02", q.To, h.loc)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Dates must be formatted as YYYY-MM-DD", nil)
		return
	}

	views, err := h.queries.ListBlockedTimes(c.Request.Context(), restaurantID, from, to)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list blocked times", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBlockedTimeViews(views))
}

// @Summary Create blocked time
// @Description Block a window for all tables or a subset
// @Tags blocked-times
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Restaurant-ID header string true "Restaurant ID"
// @Param request body reqdto.BlockedTimeRequest true "Blocked window"
// @Success 201 {object} resdto.BlockedTimeResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /dashboard/blocked-times [post]
func (h *BlockedTimeHandler) Create(c *gin.Context) {
	restaurantID, staffID, ok := h.identity(c)
	if !ok {
		return
	}

	var req reqdto.BlockedTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	params, err := req.ToParams(restaurantID, staffID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	bt, err := h.commands.Create(c.Request.Context(), params)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBlockedTime(bt))
}

// @Summary Update blocked time
// @Tags blocked-times
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Restaurant-ID header string true "Restaurant ID"
// @Param id path string true "Blocked time ID"
// @Param request body reqdto.BlockedTimeRequest true "Blocked window"
// @Success 200 {object} resdto.BlockedTimeResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /dashboard/blocked-times/{id} [put]
func (h *BlockedTimeHandler) Update(c *gin.Context) {
	restaurantID, staffID, ok := h.identity(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid blocked time ID format", nil)
		return
	}

	var req reqdto.BlockedTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	params, err := req.ToParams(restaurantID, staffID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	bt, err := h.commands.Update(c.Request.Context(), restaurantID, id, params)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBlockedTime(bt))
}

// @Summary Delete blocked time
// @Tags blocked-times
// @Security BearerAuth
// @Param X-Restaurant-ID header string true "Restaurant ID"
// @Param id path string true "Blocked time ID"
// @Success 204
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /dashboard/blocked-times/{id} [delete]
func (h *BlockedTimeHandler) Delete(c *gin.Context) {
	restaurantID, _, ok := h.identity(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid blocked time ID format", nil)
		return
	}

	if err := h.commands.Delete(c.Request.Context(), restaurantID, id); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *BlockedTimeHandler) identity(c *gin.Context) (restaurantID, staffID uuid.UUID, ok bool) {
	restaurantID, ok = middleware.GetRestaurantID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingTenant, "Internal server error", nil)
		return uuid.Nil, uuid.Nil, false
	}
	staffID, ok = middleware.GetStaffID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingStaff, "Internal server error", nil)
		return uuid.Nil, uuid.Nil, false
	}
	return restaurantID, staffID, true
}

func (h *BlockedTimeHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrBlockedTimeNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Blocked time not found", nil)
	case errors.Is(err, reservation.ErrInvalidBlockedWindow):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Blocked time must end after it starts", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
