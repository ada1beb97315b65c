package tgauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/apperr"
)

const testBotToken = "123456:TEST-TOKEN"

// signInitData produces a valid initData string the way the Telegram client
// does: sorted key=value pairs joined with newlines, HMAC-SHA256 keyed with
// HMAC("WebAppData", botToken).
func signInitData(t *testing.T, botToken string, fields map[string]string) string {
	t.Helper()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+fields[k])
	}
	secretMac := hmac.New(sha256.New, []byte("WebAppData"))
	secretMac.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secretMac.Sum(nil))
	mac.Write([]byte(strings.Join(parts, "\n")))
	hash := hex.EncodeToString(mac.Sum(nil))

	q := url.Values{}
	for k, v := range fields {
		q.Set(k, v)
	}
	q.Set("hash", hash)
	return q.Encode()
}

func TestValidateAcceptsSignedInitData(t *testing.T) {
	t.Parallel()

	initData := signInitData(t, testBotToken, map[string]string{
		"auth_date": fmt.Sprintf("%d", time.Now().Unix()),
		"user":      `{"id":42,"username":"dmitriy","first_name":"Дмитрий","language_code":"ru"}`,
		"query_id":  "AAE1",
	})

	got, err := Validate(initData, testBotToken, 24*time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.User.ID != 42 || got.User.Username != "dmitriy" {
		t.Fatalf("unexpected user: %+v", got.User)
	}
}

func TestValidateRejectsTamperedData(t *testing.T) {
	t.Parallel()

	initData := signInitData(t, testBotToken, map[string]string{
		"auth_date": fmt.Sprintf("%d", time.Now().Unix()),
		"user":      `{"id":42}`,
	})
	tampered := strings.Replace(initData, "42", "43", 1)

	if _, err := Validate(tampered, testBotToken, 24*time.Hour); !apperr.IsCode(err, apperr.CodeInvalidInitData) {
		t.Fatalf("expected invalid_init_data, got %v", err)
	}
}

func TestValidateRejectsWrongBotToken(t *testing.T) {
	t.Parallel()

	initData := signInitData(t, "999:OTHER-TOKEN", map[string]string{
		"auth_date": fmt.Sprintf("%d", time.Now().Unix()),
		"user":      `{"id":42}`,
	})

	if _, err := Validate(initData, testBotToken, 24*time.Hour); !apperr.IsCode(err, apperr.CodeInvalidInitData) {
		t.Fatalf("expected invalid_init_data, got %v", err)
	}
}

func TestValidateRejectsExpiredAuthDate(t *testing.T) {
	t.Parallel()

	initData := signInitData(t, testBotToken, map[string]string{
		"auth_date": fmt.Sprintf("%d", time.Now().Add(-48*time.Hour).Unix()),
		"user":      `{"id":42}`,
	})

	if _, err := Validate(initData, testBotToken, 24*time.Hour); !apperr.IsCode(err, apperr.CodeExpiredInitData) {
		t.Fatalf("expected expired_init_data, got %v", err)
	}
}

func TestValidateMissingInputs(t *testing.T) {
	t.Parallel()

	if _, err := Validate("anything", "", time.Hour); !apperr.IsCode(err, apperr.CodeServerMisconfigured) {
		t.Fatalf("expected server_misconfigured, got %v", err)
	}
	if _, err := Validate("", testBotToken, time.Hour); !apperr.IsCode(err, apperr.CodeInvalidInitData) {
		t.Fatalf("expected invalid_init_data, got %v", err)
	}
	if _, err := Validate("user=%7B%7D", testBotToken, time.Hour); !apperr.IsCode(err, apperr.CodeInvalidInitData) {
		t.Fatalf("expected invalid_init_data for missing hash, got %v", err)
	}
}
