package postgres

import (
	"context"
	"fmt"

	"github.com/dom/league-draft-engine/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type championRepository struct {
	db *gorm.DB
}

func NewChampionRepository(db *gorm.DB) *championRepository {
	return &championRepository{db: db}
}

func (r *championRepository) Upsert(ctx context.Context, champion *domain.Champion) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(champion).Error
}

func (r *championRepository) UpsertMany(ctx context.Context, champions []*domain.Champion) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(champions).Error
}

func (r *championRepository) GetAll(ctx context.Context) ([]*domain.Champion, error) {
	var champions []*domain.Champion
	err := r.db.WithContext(ctx).Order("name ASC").Find(&champions).Error
	if err != nil {
		return nil, err
	}
	return champions, nil
}

func (r *championRepository) GetByID(ctx context.Context, id string) (*domain.Champion, error) {
	var champion domain.Champion
	err := r.db.WithContext(ctx).First(&champion, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &champion, nil
}

// GetByRole returns champions whose lane affinities include the role,
// via JSONB containment on the lanes column.
func (r *championRepository) GetByRole(ctx context.Context, role domain.Role) ([]*domain.Champion, error) {
	var champions []*domain.Champion
	lane := datatypes.JSON(fmt.Sprintf(`[%q]`, string(role)))
	err := r.db.WithContext(ctx).
		Where("lanes @> ?", lane).
		Order("name ASC").
		Find(&champions).Error
	if err != nil {
		return nil, err
	}
	return champions, nil
}
