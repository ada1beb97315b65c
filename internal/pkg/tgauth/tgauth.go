package tgauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/apperr"
)

// WebAppUser is the user object embedded in Telegram WebApp initData.
type WebAppUser struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	LanguageCode string `json:"language_code"`
	IsPremium    bool   `json:"is_premium"`
}

// Validated is the parsed and verified initData payload.
type Validated struct {
	User     WebAppUser
	AuthDate int64
	IsFresh  bool
}

// Validate checks the initData signature per the Telegram WebApp scheme:
// HMAC-SHA256 over a sorted key=value data-check-string, keyed with
// HMAC("WebAppData", botToken).
func Validate(initData, botToken string, maxAge time.Duration) (*Validated, error) {
	if strings.TrimSpace(botToken) == "" {
		return nil, apperr.New(apperr.CodeServerMisconfigured, "bot token is not configured on server")
	}
	if strings.TrimSpace(initData) == "" {
		return nil, apperr.New(apperr.CodeInvalidInitData, "initData is empty")
	}

	pairs, err := url.ParseQuery(initData)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidInitData, "initData is not a query string", err)
	}
	receivedHash := pairs.Get("hash")
	if receivedHash == "" {
		return nil, apperr.New(apperr.CodeInvalidInitData, "hash is missing in initData")
	}

	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+pairs.Get(k))
	}
	dataCheckString := strings.Join(parts, "\n")

	secret := hmacSHA256([]byte("WebAppData"), []byte(botToken))
	computed := hex.EncodeToString(hmacSHA256(secret, []byte(dataCheckString)))
	if !hmac.Equal([]byte(computed), []byte(receivedHash)) {
		return nil, apperr.New(apperr.CodeInvalidInitData, "hash mismatch")
	}

	authDateRaw := pairs.Get("auth_date")
	if authDateRaw == "" {
		return nil, apperr.New(apperr.CodeInvalidInitData, "auth_date missing")
	}
	authDate, err := strconv.ParseInt(authDateRaw, 10, 64)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidInitData, "auth_date is not an integer", err)
	}
	if time.Since(time.Unix(authDate, 0)) > maxAge {
		return nil, apperr.New(apperr.CodeExpiredInitData, "initData is too old")
	}

	out := &Validated{AuthDate: authDate, IsFresh: true}
	if userRaw := pairs.Get("user"); userRaw != "" {
		if err := json.Unmarshal([]byte(userRaw), &out.User); err != nil {
			return nil, apperr.Wrap(apperr.CodeInvalidInitData, "user field is not valid JSON", err)
		}
	}
	return out, nil
}

func hmacSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}
