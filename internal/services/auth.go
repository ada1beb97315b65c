package services

import (
	"context"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitriyshad-AI/astro-bot/internal/data/repos"
	"github.com/dmitriyshad-AI/astro-bot/internal/domain"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/apperr"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/dbctx"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/tgauth"
)

type WhoamiOut struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// AuthService validates Telegram WebApp initData and issues short-lived
// session tokens so later requests do not re-send initData.
type AuthService interface {
	Whoami(ctx context.Context, initData string) (*WhoamiOut, error)
	ParseToken(token string) (int64, error)
}

type authService struct {
	log        *logger.Logger
	userRepo   repos.UserRepo
	botToken   string
	jwtSecret  []byte
	initMaxAge time.Duration
	sessionTTL time.Duration
}

func NewAuthService(log *logger.Logger, userRepo repos.UserRepo, botToken, jwtSecret string, initMaxAge, sessionTTL time.Duration) AuthService {
	return &authService{
		log:        log.With("service", "AuthService"),
		userRepo:   userRepo,
		botToken:   botToken,
		jwtSecret:  []byte(jwtSecret),
		initMaxAge: initMaxAge,
		sessionTTL: sessionTTL,
	}
}

func (s *authService) Whoami(ctx context.Context, initData string) (*WhoamiOut, error) {
	validated, err := tgauth.Validate(initData, s.botToken, s.initMaxAge)
	if err != nil {
		return nil, err
	}

	user := userFromWebApp(validated.User)
	if err := s.userRepo.Upsert(dbctx.From(ctx), user); err != nil {
		return nil, err
	}

	token, err := s.issueToken(user.TelegramUserID)
	if err != nil {
		return nil, err
	}
	return &WhoamiOut{User: user, Token: token}, nil
}

func (s *authService) issueToken(telegramUserID int64) (string, error) {
	if len(s.jwtSecret) == 0 {
		return "", apperr.New(apperr.CodeServerMisconfigured, "jwt secret is not configured on server")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   jwtSubject(telegramUserID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.jwtSecret)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, "signing session token", err)
	}
	return signed, nil
}

// ParseToken verifies a session token and returns the Telegram user id.
func (s *authService) ParseToken(token string) (int64, error) {
	if len(s.jwtSecret) == 0 {
		return 0, apperr.New(apperr.CodeServerMisconfigured, "jwt secret is not configured on server")
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.New(apperr.CodeInvalidInitData, "unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, apperr.New(apperr.CodeInvalidInitData, "invalid session token")
	}
	id, err := jwtSubjectID(claims.Subject)
	if err != nil {
		return 0, apperr.New(apperr.CodeInvalidInitData, "invalid session token subject")
	}
	return id, nil
}

func jwtSubject(telegramUserID int64) string {
	return strconv.FormatInt(telegramUserID, 10)
}

func jwtSubjectID(subject string) (int64, error) {
	return strconv.ParseInt(subject, 10, 64)
}

func userFromWebApp(u tgauth.WebAppUser) *domain.User {
	out := &domain.User{TelegramUserID: u.ID}
	if u.Username != "" {
		out.Username = &u.Username
	}
	if u.FirstName != "" {
		out.FirstName = &u.FirstName
	}
	if u.LastName != "" {
		out.LastName = &u.LastName
	}
	if u.LanguageCode != "" {
		out.LanguageCode = &u.LanguageCode
	}
	if u.IsPremium {
		premium := true
		out.IsPremium = &premium
	}
	return out
}
