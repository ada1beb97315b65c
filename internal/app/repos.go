package app

import (
	"gorm.io/gorm"

	"github.com/dmitriyshad-AI/astro-bot/internal/data/repos"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
)

type Repos struct {
	User          repos.UserRepo
	Location      repos.LocationRepo
	Profile       repos.ProfileRepo
	Chart         repos.ChartRepo
	Compatibility repos.CompatibilityRepo
	ChatMessage   repos.ChatMessageRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:          repos.NewUserRepo(db, log),
		Location:      repos.NewLocationRepo(db, log),
		Profile:       repos.NewProfileRepo(db, log),
		Chart:         repos.NewChartRepo(db, log),
		Compatibility: repos.NewCompatibilityRepo(db, log),
		ChatMessage:   repos.NewChatMessageRepo(db, log),
	}
}
