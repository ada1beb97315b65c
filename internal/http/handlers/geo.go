package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/dmitriyshad-AI/astro-bot/internal/http/response"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
	"github.com/dmitriyshad-AI/astro-bot/internal/services"
)

type GeoHandler struct {
	log      *logger.Logger
	location services.LocationService
}

func NewGeoHandler(log *logger.Logger, location services.LocationService) *GeoHandler {
	return &GeoHandler{log: log.With("handler", "GeoHandler"), location: location}
}

// Search resolves a free-text place to coordinates and a timezone, going
// through the same cache the computation path uses.
func (h *GeoHandler) Search(c *gin.Context) {
	loc, err := h.location.Resolve(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, loc)
}
