package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/apperr"
)

func TestStatusForCode(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		apperr.CodeInvalidDateFormat:     http.StatusBadRequest,
		apperr.CodeInvalidTimeFormat:     http.StatusBadRequest,
		apperr.CodeEmptyPlace:            http.StatusBadRequest,
		apperr.CodeMissingField:          http.StatusBadRequest,
		apperr.CodeInvalidInitData:       http.StatusUnauthorized,
		apperr.CodeExpiredInitData:       http.StatusUnauthorized,
		apperr.CodeNotFound:              http.StatusNotFound,
		apperr.CodePlaceNotFound:         http.StatusNotFound,
		apperr.CodeGeocodeUnavailable:    http.StatusServiceUnavailable,
		apperr.CodeEngineError:           http.StatusBadGateway,
		apperr.CodeArtifactError:         http.StatusBadGateway,
		apperr.CodeTimezoneUnresolved:    http.StatusBadGateway,
		apperr.CodeServerMisconfigured:   http.StatusInternalServerError,
		apperr.CodeInternal:              http.StatusInternalServerError,
		"some_unknown_code_from_nowhere": http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := StatusForCode(code); got != want {
			t.Errorf("%s: got %d want %d", code, got, want)
		}
	}
}

func TestRespondAppErrorEnvelope(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondAppError(c, apperr.New(apperr.CodePlaceNotFound, "место не найдено"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var env ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.OK || env.Error.Code != apperr.CodePlaceNotFound || env.Error.Message != "место не найдено" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestRespondAppErrorHidesInternalDetails(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondAppError(c, errors.New("pq: connection refused"))

	var env ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Error.Code != apperr.CodeInternal || env.Error.Message != "internal error" {
		t.Fatalf("internal details leaked: %+v", env)
	}
}
