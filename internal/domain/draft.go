package domain

type ActionType string

const (
	ActionTypeBan  ActionType = "ban"
	ActionTypePick ActionType = "pick"
)

// IsValid checks if an action type is valid
func (a ActionType) IsValid() bool {
	return a == ActionTypeBan || a == ActionTypePick
}

type Side string

const (
	SideBlue      Side = "blue"
	SideRed       Side = "red"
	SideSpectator Side = "spectator"
)

// Opponent returns the other playing side. Spectator has no opponent.
func (s Side) Opponent() Side {
	switch s {
	case SideBlue:
		return SideRed
	case SideRed:
		return SideBlue
	}
	return s
}

// IsPlaying reports whether the side participates in the draft.
func (s Side) IsPlaying() bool {
	return s == SideBlue || s == SideRed
}

// EloBracket identifies the skill segment the oracle's model was trained on.
type EloBracket string

const (
	BracketIron        EloBracket = "iron"
	BracketBronze      EloBracket = "bronze"
	BracketSilver      EloBracket = "silver"
	BracketGold        EloBracket = "gold"
	BracketPlatinum    EloBracket = "platinum"
	BracketEmerald     EloBracket = "emerald"
	BracketDiamond     EloBracket = "diamond"
	BracketMaster      EloBracket = "master"
	BracketGrandmaster EloBracket = "grandmaster"
	BracketChallenger  EloBracket = "challenger"
	BracketAll         EloBracket = "all"
)

// AllBrackets contains all valid elo brackets in ascending order
var AllBrackets = []EloBracket{
	BracketIron, BracketBronze, BracketSilver, BracketGold,
	BracketPlatinum, BracketEmerald, BracketDiamond,
	BracketMaster, BracketGrandmaster, BracketChallenger,
	BracketAll,
}

// IsValid checks if a bracket is valid
func (b EloBracket) IsValid() bool {
	for _, v := range AllBrackets {
		if b == v {
			return true
		}
	}
	return false
}

// String returns the string representation of the bracket
func (b EloBracket) String() string {
	return string(b)
}
