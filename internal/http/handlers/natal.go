package handlers

import (
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmitriyshad-AI/astro-bot/internal/http/middleware"
	"github.com/dmitriyshad-AI/astro-bot/internal/http/response"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/apperr"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
	"github.com/dmitriyshad-AI/astro-bot/internal/services"
)

type NatalHandler struct {
	log   *logger.Logger
	natal services.NatalService
}

func NewNatalHandler(log *logger.Logger, natal services.NatalService) *NatalHandler {
	return &NatalHandler{log: log.With("handler", "NatalHandler"), natal: natal}
}

type natalCalcRequest struct {
	Name      string  `json:"name"`
	BirthDate string  `json:"birth_date"`
	BirthTime string  `json:"birth_time"`
	Place     string  `json:"place"`
	Label     *string `json:"label"`
}

func (h *NatalHandler) Calc(c *gin.Context) {
	var req natalCalcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apperr.CodeMissingField, err)
		return
	}
	if req.Name == "" {
		req.Name = "Гость"
	}
	out, err := h.natal.Compute(c.Request.Context(), services.ComputeNatalInput{
		TelegramUserID: middleware.TelegramUserID(c),
		Label:          req.Label,
		SubjectName:    req.Name,
		BirthDate:      req.BirthDate,
		BirthTime:      req.BirthTime,
		Place:          req.Place,
	})
	if err != nil {
		h.log.Warn("natal computation failed", "error", err)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *NatalHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apperr.CodeMissingField, err)
		return
	}
	chart, err := h.natal.GetChart(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, chart)
}

// Wheel streams the rendered chart image. A swept or missing artifact is a
// 404, never a broken file response.
func (h *NatalHandler) Wheel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apperr.CodeMissingField, err)
		return
	}
	chart, err := h.natal.GetChart(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if chart.WheelPath == "" {
		response.RespondError(c, http.StatusNotFound, apperr.CodeNotFound, apperr.New(apperr.CodeNotFound, "wheel image not found"))
		return
	}
	if _, err := os.Stat(chart.WheelPath); err != nil {
		response.RespondError(c, http.StatusNotFound, apperr.CodeNotFound, apperr.New(apperr.CodeNotFound, "wheel image not found"))
		return
	}
	c.File(chart.WheelPath)
}

func (h *NatalHandler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "3"))
	charts, err := h.natal.RecentCharts(c.Request.Context(), limit)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, charts)
}
