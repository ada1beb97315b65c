package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/apperr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	OK    bool     `json:"ok"`
	Error APIError `json:"error"`
}

type OKEnvelope struct {
	OK   bool `json:"ok"`
	Data any  `json:"data"`
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, OKEnvelope{OK: true, Data: payload})
}

// RespondAppError maps the error's stable code to an HTTP status and writes
// the error envelope. Unrecognized errors become 500 internal_error without
// leaking the underlying message.
func RespondAppError(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	msg := apperr.MessageOf(err)
	if code == apperr.CodeInternal {
		msg = "internal error"
	}
	c.JSON(StatusForCode(code), ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

func StatusForCode(code string) int {
	switch code {
	case apperr.CodeInvalidDateFormat,
		apperr.CodeInvalidTimeFormat,
		apperr.CodeEmptyPlace,
		apperr.CodeMissingField:
		return http.StatusBadRequest
	case apperr.CodeInvalidInitData, apperr.CodeExpiredInitData:
		return http.StatusUnauthorized
	case apperr.CodeNotFound, apperr.CodePlaceNotFound:
		return http.StatusNotFound
	case apperr.CodeGeocodeUnavailable:
		return http.StatusServiceUnavailable
	case apperr.CodeGeocodeTransportError,
		apperr.CodeTimezoneUnresolved,
		apperr.CodeEngineError,
		apperr.CodeArtifactError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
