package repos

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmitriyshad-AI/astro-bot/internal/domain"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/dbctx"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
)

type ChatMessageRepo interface {
	Append(dbc dbctx.Context, row *domain.ChatMessage) error
	// ListRecent returns the newest messages first; callers re-order
	// oldest-first when presenting a thread.
	ListRecent(dbc dbctx.Context, chartID uuid.UUID, limit int) ([]*domain.ChatMessage, error)
}

type chatMessageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatMessageRepo(db *gorm.DB, log *logger.Logger) ChatMessageRepo {
	return &chatMessageRepo{db: db, log: log.With("repo", "ChatMessageRepo")}
}

func (r *chatMessageRepo) Append(dbc dbctx.Context, row *domain.ChatMessage) error {
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

func (r *chatMessageRepo) ListRecent(dbc dbctx.Context, chartID uuid.UUID, limit int) ([]*domain.ChatMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*domain.ChatMessage
	if err := txx.WithContext(dbc.Ctx).
		Where("chart_id = ?", chartID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
