package domain

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Champion is a catalogue entry. The catalogue is read-only from the draft
// engine's point of view: it is synced from Data Dragon before drafts run and
// champion references inside a draft are lookup keys into it.
type Champion struct {
	ID           string         `json:"id" gorm:"primaryKey"`     // e.g., "Aatrox"
	Key          string         `json:"key" gorm:"not null"`      // e.g., "266"
	Name         string         `json:"name" gorm:"not null"`     // Display name
	Title        string         `json:"title"`                    // e.g., "the Darkin Blade"
	ImageURL     string         `json:"imageUrl" gorm:"not null"` // Full URL to champion image
	Tags         datatypes.JSON `json:"tags" gorm:"type:jsonb"`   // ["Fighter", "Tank"] - opaque to the engine, consumed by the oracle
	Lanes        datatypes.JSON `json:"lanes" gorm:"type:jsonb"`  // ["mid", "top"] - role affinities, ordered by playrate
	LastSyncedAt time.Time      `json:"lastSyncedAt"`
}

// RoleAffinities decodes the lanes column into typed roles, dropping any
// entry that is not a known role.
func (c *Champion) RoleAffinities() []Role {
	var lanes []string
	if err := json.Unmarshal(c.Lanes, &lanes); err != nil {
		return nil
	}
	roles := make([]Role, 0, len(lanes))
	for _, l := range lanes {
		if r := Role(l); r.IsValid() {
			roles = append(roles, r)
		}
	}
	return roles
}

type ChampionTag string

const (
	TagFighter  ChampionTag = "Fighter"
	TagTank     ChampionTag = "Tank"
	TagMage     ChampionTag = "Mage"
	TagAssassin ChampionTag = "Assassin"
	TagSupport  ChampionTag = "Support"
	TagMarksman ChampionTag = "Marksman"
)
