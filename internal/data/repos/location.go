package repos

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dmitriyshad-AI/astro-bot/internal/domain"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/dbctx"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
)

type LocationRepo interface {
	Get(dbc dbctx.Context, query string) (*domain.LocationCache, error)
	// Upsert is the store's native insert-or-update by primary key; callers
	// must not read-then-write around it.
	Upsert(dbc dbctx.Context, row *domain.LocationCache) error
}

type locationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLocationRepo(db *gorm.DB, log *logger.Logger) LocationRepo {
	return &locationRepo{db: db, log: log.With("repo", "LocationRepo")}
}

func (r *locationRepo) Get(dbc dbctx.Context, query string) (*domain.LocationCache, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var row domain.LocationCache
	err := txx.WithContext(dbc.Ctx).
		Where("query = ?", query).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *locationRepo) Upsert(dbc dbctx.Context, row *domain.LocationCache) error {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	row.UpdatedAt = time.Now().UTC()
	return txx.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "query"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "lat", "lng", "tz_str", "updated_at"}),
		}).
		Create(row).Error
}
