package repos

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmitriyshad-AI/astro-bot/internal/domain"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/dbctx"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
)

// ProfileFingerprint is the exact tuple that determines chart identity.
type ProfileFingerprint struct {
	TelegramUserID *int64
	BirthDate      string
	BirthTime      *string
	TimeUnknown    bool
	PlaceQuery     string
	Lat            float64
	Lng            float64
	TzStr          string
}

type ProfileRepo interface {
	Create(dbc dbctx.Context, row *domain.Profile) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Profile, error)
	FindByFingerprint(dbc dbctx.Context, fp ProfileFingerprint) (*domain.Profile, error)
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, log *logger.Logger) ProfileRepo {
	return &profileRepo{db: db, log: log.With("repo", "ProfileRepo")}
}

func (r *profileRepo) Create(dbc dbctx.Context, row *domain.Profile) error {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	now := time.Now().UTC()
	row.CreatedAt = now
	row.UpdatedAt = now
	return txx.WithContext(dbc.Ctx).Create(row).Error
}

func (r *profileRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Profile, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var row domain.Profile
	err := txx.WithContext(dbc.Ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *profileRepo) FindByFingerprint(dbc dbctx.Context, fp ProfileFingerprint) (*domain.Profile, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	q := txx.WithContext(dbc.Ctx).
		Model(&domain.Profile{}).
		Where("birth_date = ?", fp.BirthDate).
		Where("time_unknown = ?", fp.TimeUnknown).
		Where("place_query = ?", fp.PlaceQuery).
		Where("lat = ? AND lng = ? AND tz_str = ?", fp.Lat, fp.Lng, fp.TzStr)
	if fp.TelegramUserID != nil {
		q = q.Where("telegram_user_id = ?", *fp.TelegramUserID)
	} else {
		q = q.Where("telegram_user_id IS NULL")
	}
	if fp.BirthTime != nil {
		q = q.Where("birth_time = ?", *fp.BirthTime)
	} else {
		q = q.Where("birth_time IS NULL")
	}

	var row domain.Profile
	err := q.Order("created_at DESC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
