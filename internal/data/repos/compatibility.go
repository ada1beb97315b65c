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

type CompatibilityRepo interface {
	Create(dbc dbctx.Context, row *domain.CompatibilityRun) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.CompatibilityRun, error)
}

type compatibilityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCompatibilityRepo(db *gorm.DB, log *logger.Logger) CompatibilityRepo {
	return &compatibilityRepo{db: db, log: log.With("repo", "CompatibilityRepo")}
}

func (r *compatibilityRepo) Create(dbc dbctx.Context, row *domain.CompatibilityRun) error {
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

func (r *compatibilityRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.CompatibilityRun, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var row domain.CompatibilityRun
	err := txx.WithContext(dbc.Ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
