package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmitriyshad-AI/astro-bot/internal/http/response"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/apperr"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
	"github.com/dmitriyshad-AI/astro-bot/internal/services"
)

type InsightsHandler struct {
	log      *logger.Logger
	insights services.InsightsService
}

func NewInsightsHandler(log *logger.Logger, insights services.InsightsService) *InsightsHandler {
	return &InsightsHandler{log: log.With("handler", "InsightsHandler"), insights: insights}
}

func (h *InsightsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apperr.CodeMissingField, err)
		return
	}
	out, err := h.insights.Insights(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, out)
}

type askRequest struct {
	ChartID  string `json:"chart_id"`
	Question string `json:"question"`
}

func (h *InsightsHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apperr.CodeMissingField, err)
		return
	}
	id, err := uuid.Parse(req.ChartID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apperr.CodeMissingField, err)
		return
	}
	out, err := h.insights.Ask(c.Request.Context(), id, req.Question)
	if err != nil {
		h.log.Warn("chat ask failed", "chart_id", id, "error", err)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *InsightsHandler) History(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apperr.CodeMissingField, err)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	msgs, err := h.insights.History(c.Request.Context(), id, limit)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, msgs)
}
