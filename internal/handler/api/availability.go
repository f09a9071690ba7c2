package api

import (
	"errors"
	"net/http"
	"time"

	"tablebook/internal/domain/reservation"
	resdto "tablebook/internal/handler/dto/response"
	"tablebook/internal/handler/httperr"
	"tablebook/internal/handler/middleware"
	"tablebook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	availability queries.AvailabilityQueries
	loc          *time.Location
}

func NewAvailabilityHandler(availability queries.AvailabilityQueries, loc *time.Location) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability, loc: loc}
}

type availabilityQuery struct {
	Date      string `form:"date" binding:"required"`
	PartySize int    `form:"party_size" binding:"required,min=1"`
}

// @Summary Check availability
// @Description List bookable start times for a date and party size
// @Tags availability
// @Produce json
// @Param X-Restaurant-ID header string true "Restaurant ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param party_size query int true "Party size"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /availability [get]
func (h *AvailabilityHandler) Check(c *gin.Context) {
	restaurantID, ok := middleware.GetRestaurantID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingTenant, "Internal server error", nil)
		return
	}

	var q availabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}

	date, err := time.ParseInLocation("2006-01-02", q.Date, h.loc)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Date must be formatted as YYYY-MM-DD", nil)
		return
	}

	result, err := h.availability.Check(c.Request.Context(), restaurantID, date, q.PartySize)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrPastDate):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Date is in the past", nil)
		case errors.Is(err, reservation.ErrPartySizeOutOfRange):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Party size outside restaurant limits", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to check availability", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailabilityResult(result))
}

var errMissingTenant = errors.New("restaurant ID missing from context")
