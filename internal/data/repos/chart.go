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

type ChartRepo interface {
	Create(dbc dbctx.Context, row *domain.Chart) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Chart, error)
	LatestForProfile(dbc dbctx.Context, profileID uuid.UUID) (*domain.Chart, error)
	ListRecent(dbc dbctx.Context, limit int) ([]*domain.Chart, error)
	SetLLMSummary(dbc dbctx.Context, id uuid.UUID, summary string) error
}

type chartRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChartRepo(db *gorm.DB, log *logger.Logger) ChartRepo {
	return &chartRepo{db: db, log: log.With("repo", "ChartRepo")}
}

func (r *chartRepo) Create(dbc dbctx.Context, row *domain.Chart) error {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.CreatedAt = time.Now().UTC()
	return txx.WithContext(dbc.Ctx).Create(row).Error
}

func (r *chartRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Chart, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var row domain.Chart
	err := txx.WithContext(dbc.Ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *chartRepo) LatestForProfile(dbc dbctx.Context, profileID uuid.UUID) (*domain.Chart, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var row domain.Chart
	err := txx.WithContext(dbc.Ctx).
		Where("profile_id = ?", profileID).
		Order("created_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *chartRepo) ListRecent(dbc dbctx.Context, limit int) ([]*domain.Chart, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*domain.Chart
	if err := txx.WithContext(dbc.Ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *chartRepo) SetLLMSummary(dbc dbctx.Context, id uuid.UUID, summary string) error {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Model(&domain.Chart{}).
		Where("id = ?", id).
		Update("llm_summary", summary).Error
}
