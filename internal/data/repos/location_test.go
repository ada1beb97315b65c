package repos

import (
	"testing"

	"github.com/dmitriyshad-AI/astro-bot/internal/domain"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/dbctx"
)

func TestLocationRepoGetMissReturnsNil(t *testing.T) {
	t.Parallel()

	repo := NewLocationRepo(newTestDB(t), newTestRepoLogger())
	row, err := repo.Get(dbctx.Background(), "nowhere")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row != nil {
		t.Fatalf("expected nil on miss, got %+v", row)
	}
}

func TestLocationRepoUpsertLastWriteWins(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewLocationRepo(db, newTestRepoLogger())
	first := &domain.LocationCache{
		Query: "москва", DisplayName: "Москва", Lat: 55.0, Lng: 37.0, TzStr: "Europe/Moscow",
	}
	if err := repo.Upsert(dbctx.Background(), first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second := &domain.LocationCache{
		Query: "москва", DisplayName: "Москва, Россия", Lat: 55.7558, Lng: 37.6173, TzStr: "Europe/Moscow",
	}
	if err := repo.Upsert(dbctx.Background(), second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := repo.Get(dbctx.Background(), "москва")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.DisplayName != "Москва, Россия" || got.Lat != 55.7558 {
		t.Fatalf("last write must win: %+v", got)
	}

	var count int64
	if err := db.Model(&domain.LocationCache{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("upsert duplicated the row: count=%d", count)
	}
}
