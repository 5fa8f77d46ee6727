package repository

import (
	"context"

	"github.com/dom/league-draft-engine/internal/domain"
)

// ChampionRepository stores the champion catalogue synced from Data
// Dragon. The draft engine only reads from it; writes happen in the
// sync service.
type ChampionRepository interface {
	Upsert(ctx context.Context, champion *domain.Champion) error
	UpsertMany(ctx context.Context, champions []*domain.Champion) error
	GetAll(ctx context.Context) ([]*domain.Champion, error)
	GetByID(ctx context.Context, id string) (*domain.Champion, error)
	GetByRole(ctx context.Context, role domain.Role) ([]*domain.Champion, error)
}

type Repositories struct {
	Champion ChampionRepository
}
