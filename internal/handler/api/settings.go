package api

import (
	"errors"
	"net/http"

	"tablebook/internal/domain/reservation"
	reqdto "tablebook/internal/handler/dto/request"
	resdto "tablebook/internal/handler/dto/response"
	"tablebook/internal/handler/httperr"
	"tablebook/internal/handler/middleware"
	"tablebook/internal/usecase/commands"
	"tablebook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	commands commands.SettingsCommands
	queries  queries.SettingsQueries
}

func NewSettingsHandler(cmds commands.SettingsCommands, qrys queries.SettingsQueries) *SettingsHandler {
	return &SettingsHandler{commands: cmds, queries: qrys}
}

// @Summary Get booking settings
// @Description Effective booking policy; defaults apply until staff save one
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Param X-Restaurant-ID header string true "Restaurant ID"
// @Success 200 {object} resdto.SettingsResponse
// @Failure 401 {object} httperr.Response
// @Router /dashboard/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	restaurantID, ok := middleware.GetRestaurantID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingTenant, "Internal server error", nil)
		return
	}

	settings, err := h.queries.Get(c.Request.Context(), restaurantID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load settings", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSettings(settings))
}

// @Summary Get public booking policy
// @Description Guest-visible booking rules; defaults apply until staff save a policy
// @Tags settings
// @Produce json
// @Param X-Restaurant-ID header string true "Restaurant ID"
// @Success 200 {object} resdto.PublicSettingsResponse
// @Failure 400 {object} httperr.Response
// @Router /settings [get]
func (h *SettingsHandler) GetPublic(c *gin.Context) {
	restaurantID, ok := middleware.GetRestaurantID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingTenant, "Internal server error", nil)
		return
	}

	settings, err := h.queries.Get(c.Request.Context(), restaurantID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load settings", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPublicSettings(settings))
}

// @Summary Update booking settings
// @Description Replace the restaurant's booking policy
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Restaurant-ID header string true "Restaurant ID"
// @Param request body reqdto.UpdateSettingsRequest true "Booking policy"
// @Success 200 {object} resdto.SettingsResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /dashboard/settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	restaurantID, ok := middleware.GetRestaurantID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingTenant, "Internal server error", nil)
		return
	}

	var req reqdto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	updated, err := h.commands.Update(c.Request.Context(), req.ToDomain(restaurantID))
	if err != nil {
		if errors.Is(err, reservation.ErrInvalidSettings) {
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid booking settings", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to update settings", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSettings(updated))
}
