package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitriyshad-AI/astro-bot/internal/domain"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/apperr"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
	"github.com/dmitriyshad-AI/astro-bot/internal/render"
	"github.com/dmitriyshad-AI/astro-bot/internal/utils"
)

// ArtifactService owns the charts directory: it is the only component that
// writes wheel files there, and its cleanup is best-effort GC, not
// authoritative storage.
type ArtifactService interface {
	RenderNatal(data *domain.ChartData, baseName string) (string, error)
	RenderSynastry(data *domain.SynastryData, baseName string) (string, error)
	// Cleanup removes wheel files older than maxAgeDays by mtime. Idempotent;
	// stat/remove failures are skipped silently.
	Cleanup(maxAgeDays int)
	Dir() string
}

type artifactService struct {
	log   *logger.Logger
	dir   string
	wheel *render.Wheel
}

const DefaultCleanupDays = 7

func NewArtifactService(log *logger.Logger, wheel *render.Wheel) (ArtifactService, error) {
	dir := utils.GetEnv("CHARTS_DIR", "data/charts", log)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create charts dir: %w", err)
	}
	return &artifactService{
		log:   log.With("service", "ArtifactService"),
		dir:   dir,
		wheel: wheel,
	}, nil
}

func (s *artifactService) Dir() string { return s.dir }

func (s *artifactService) RenderNatal(data *domain.ChartData, baseName string) (string, error) {
	path := filepath.Join(s.dir, baseName+".png")
	if err := s.wheel.SaveNatalPNG(data, path); err != nil {
		return "", apperr.Wrap(apperr.CodeArtifactError, "could not render chart wheel", err)
	}
	return path, nil
}

func (s *artifactService) RenderSynastry(data *domain.SynastryData, baseName string) (string, error) {
	path := filepath.Join(s.dir, baseName+".png")
	if err := s.wheel.SaveSynastryPNG(data, path); err != nil {
		return "", apperr.Wrap(apperr.CodeArtifactError, "could not render synastry wheel", err)
	}
	return path, nil
}

func (s *artifactService) Cleanup(maxAgeDays int) {
	if maxAgeDays <= 0 {
		maxAgeDays = DefaultCleanupDays
	}
	cutoff := time.Now().Add(-time.Duration(maxAgeDays) * 24 * time.Hour)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".png") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(s.dir, entry.Name()))
		}
	}
}
