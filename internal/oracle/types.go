// Package oracle is the client side of the external recommendation and
// prediction service. The draft engine treats it as a black box reachable
// through two operations; transport details and model behavior live on the
// other side of the wire.
package oracle

import (
	"context"

	"github.com/dom/league-draft-engine/internal/domain"
)

// DraftRequest describes a draft to the oracle. For recommendations it is
// a partial snapshot taken at a turn boundary; for predictions every slot
// is filled.
type DraftRequest struct {
	EloBracket      domain.EloBracket      `json:"eloBracket"`
	Patch           string                 `json:"patch,omitempty"`
	Side            domain.Side            `json:"side,omitempty"`
	Action          domain.ActionType      `json:"actionKind,omitempty"`
	Role            domain.Role            `json:"role,omitempty"`
	BlueComposition map[domain.Role]string `json:"blueComposition"`
	RedComposition  map[domain.Role]string `json:"redComposition"`
	BlueBans        []string               `json:"blueBans"`
	RedBans         []string               `json:"redBans"`
}

// Recommendation is one ranked candidate for the current turn. The whole
// list is superseded wholesale on every turn change.
type Recommendation struct {
	ChampionID string   `json:"championId"`
	Score      float64  `json:"score"`
	Reasons    []string `json:"reasons"`
}

// Prediction is the oracle's win-probability estimate for a complete
// draft.
type Prediction struct {
	BlueWinProbability float64  `json:"blueWinProbability"`
	RedWinProbability  float64  `json:"redWinProbability"`
	Confidence         float64  `json:"confidence"`
	Explanations       []string `json:"explanations"`
}

// Provider is the engine's only external boundary.
type Provider interface {
	GetRecommendations(ctx context.Context, req DraftRequest) ([]Recommendation, error)
	Predict(ctx context.Context, req DraftRequest) (*Prediction, error)
}
