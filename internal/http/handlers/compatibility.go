package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmitriyshad-AI/astro-bot/internal/http/middleware"
	"github.com/dmitriyshad-AI/astro-bot/internal/http/response"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/apperr"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
	"github.com/dmitriyshad-AI/astro-bot/internal/services"
)

type CompatibilityHandler struct {
	log    *logger.Logger
	compat services.CompatibilityService
}

func NewCompatibilityHandler(log *logger.Logger, compat services.CompatibilityService) *CompatibilityHandler {
	return &CompatibilityHandler{log: log.With("handler", "CompatibilityHandler"), compat: compat}
}

type compatPerson struct {
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
	BirthTime string `json:"birth_time"`
	Place     string `json:"place"`
}

type compatCalcRequest struct {
	Self    compatPerson `json:"self"`
	Partner compatPerson `json:"partner"`
}

func (h *CompatibilityHandler) Calc(c *gin.Context) {
	var req compatCalcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apperr.CodeMissingField, err)
		return
	}
	if req.Self.Name == "" {
		req.Self.Name = "Вы"
	}
	if req.Partner.Name == "" {
		req.Partner.Name = "Партнер"
	}
	out, err := h.compat.Compute(c.Request.Context(), services.ComputeCompatibilityInput{
		TelegramUserID: middleware.TelegramUserID(c),
		Self:           services.CompatibilityPerson(req.Self),
		Partner:        services.CompatibilityPerson(req.Partner),
	})
	if err != nil {
		h.log.Warn("compatibility computation failed", "error", err)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *CompatibilityHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apperr.CodeMissingField, err)
		return
	}
	run, err := h.compat.GetRun(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, run)
}

func (h *CompatibilityHandler) Wheel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apperr.CodeMissingField, err)
		return
	}
	run, err := h.compat.GetRun(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if run.WheelPath == "" {
		response.RespondError(c, http.StatusNotFound, apperr.CodeNotFound, apperr.New(apperr.CodeNotFound, "wheel image not found"))
		return
	}
	if _, err := os.Stat(run.WheelPath); err != nil {
		response.RespondError(c, http.StatusNotFound, apperr.CodeNotFound, apperr.New(apperr.CodeNotFound, "wheel image not found"))
		return
	}
	c.File(run.WheelPath)
}
