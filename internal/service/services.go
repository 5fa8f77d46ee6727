package service

import (
	"github.com/dom/league-draft-engine/internal/config"
	"github.com/dom/league-draft-engine/internal/repository"
)

type Services struct {
	Champion *ChampionService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	return &Services{
		Champion: NewChampionService(repos.Champion, cfg),
	}
}
