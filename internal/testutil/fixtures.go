package testutil

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/dom/league-draft-engine/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChampionBuilder struct {
	id       string
	key      string
	name     string
	title    string
	imageURL string
	tags     []string
	lanes    []string
}

// NewChampionBuilder creates a new ChampionBuilder with default values
func NewChampionBuilder() *ChampionBuilder {
	id := fmt.Sprintf("Champion%d", time.Now().UnixNano()%10000)
	return &ChampionBuilder{
		id:       id,
		key:      id,
		name:     id,
		title:    "The Test Champion",
		imageURL: fmt.Sprintf("https://ddragon.leagueoflegends.com/cdn/14.1.1/img/champion/%s.png", id),
		tags:     []string{"Fighter"},
		lanes:    []string{"top"},
	}
}

// WithID sets the champion ID
func (b *ChampionBuilder) WithID(id string) *ChampionBuilder {
	b.id = id
	b.key = id
	b.name = id
	b.imageURL = fmt.Sprintf("https://ddragon.leagueoflegends.com/cdn/14.1.1/img/champion/%s.png", id)
	return b
}

// WithName sets the champion name
func (b *ChampionBuilder) WithName(name string) *ChampionBuilder {
	b.name = name
	return b
}

// WithTitle sets the champion title
func (b *ChampionBuilder) WithTitle(title string) *ChampionBuilder {
	b.title = title
	return b
}

// WithTags sets the champion tags
func (b *ChampionBuilder) WithTags(tags []string) *ChampionBuilder {
	b.tags = tags
	return b
}

// WithLanes sets the champion lane affinities
func (b *ChampionBuilder) WithLanes(lanes []string) *ChampionBuilder {
	b.lanes = lanes
	return b
}

// Build creates the champion in the database
func (b *ChampionBuilder) Build(t *testing.T, db *gorm.DB) *domain.Champion {
	t.Helper()

	tagsJSON, _ := json.Marshal(b.tags)
	lanesJSON, _ := json.Marshal(b.lanes)
	champion := &domain.Champion{
		ID:           b.id,
		Key:          b.key,
		Name:         b.name,
		Title:        b.title,
		ImageURL:     b.imageURL,
		Tags:         datatypes.JSON(tagsJSON),
		Lanes:        datatypes.JSON(lanesJSON),
		LastSyncedAt: time.Now(),
	}

	if err := db.Create(champion).Error; err != nil {
		t.Fatalf("failed to create champion: %v", err)
	}

	return champion
}

// SeedChampions creates N test champions in the database
func SeedChampions(t *testing.T, db *gorm.DB, count int) []*domain.Champion {
	t.Helper()

	champions := make([]*domain.Champion, count)
	for i := 0; i < count; i++ {
		champions[i] = NewChampionBuilder().
			WithID(fmt.Sprintf("TestChampion%d", i)).
			WithName(fmt.Sprintf("Test Champion %d", i)).
			Build(t, db)
	}
	return champions
}

// SeedRealChampions creates champions with real LoL champion names for realistic testing
func SeedRealChampions(t *testing.T, db *gorm.DB) []*domain.Champion {
	t.Helper()

	championNames := []string{
		"Aatrox", "Ahri", "Akali", "Alistar", "Amumu",
		"Anivia", "Annie", "Ashe", "Azir", "Bard",
		"Blitzcrank", "Brand", "Braum", "Caitlyn", "Camille",
		"Cassiopeia", "Darius", "Diana", "DrMundo", "Draven",
		"Ekko", "Elise", "Evelynn", "Ezreal", "Fiora",
	}

	champions := make([]*domain.Champion, len(championNames))
	for i, name := range championNames {
		champions[i] = NewChampionBuilder().
			WithID(name).
			WithName(name).
			Build(t, db)
	}
	return champions
}
