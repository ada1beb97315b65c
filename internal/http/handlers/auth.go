package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitriyshad-AI/astro-bot/internal/http/response"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/apperr"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
	"github.com/dmitriyshad-AI/astro-bot/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), authService: authService}
}

type whoamiRequest struct {
	InitData string `json:"init_data"`
}

func (h *AuthHandler) Whoami(c *gin.Context) {
	var req whoamiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apperr.CodeMissingField, err)
		return
	}
	out, err := h.authService.Whoami(c.Request.Context(), req.InitData)
	if err != nil {
		h.log.Warn("whoami failed", "error", err)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, out)
}
