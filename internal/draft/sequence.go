package draft

import "github.com/dom/league-draft-engine/internal/domain"

// Turn is a single step of a draft sequence. Role is only set for picks.
type Turn struct {
	Side   domain.Side       `json:"side"`
	Action domain.ActionType `json:"action"`
	Role   domain.Role       `json:"role,omitempty"`
}

// Sequence is the full ordered turn list for a draft. It is generated once
// at draft start and never mutated; alternate formats (no bans, blind pick)
// are different sequences, not different engine code.
type Sequence []Turn

// DefaultBanCount is the per-side ban count of the standard format.
const DefaultBanCount = 5

// GenerateSequence builds the canonical turn order for a two-team draft:
// a ban phase of strict blue/red alternation (blue first), then a pick
// phase in snake order over the role list. The side that picks first flips
// at every role boundary, not every pick, so for roles [top, jungle, ...]
// the picks run B,R then R,B then B,R and so on.
func GenerateSequence(banCountPerSide int, roles []domain.Role) Sequence {
	seq := make(Sequence, 0, 2*banCountPerSide+2*len(roles))

	for i := 0; i < banCountPerSide; i++ {
		seq = append(seq,
			Turn{Side: domain.SideBlue, Action: domain.ActionTypeBan},
			Turn{Side: domain.SideRed, Action: domain.ActionTypeBan},
		)
	}

	for i, role := range roles {
		lead := domain.SideBlue
		if i%2 == 1 {
			lead = domain.SideRed
		}
		seq = append(seq,
			Turn{Side: lead, Action: domain.ActionTypePick, Role: role},
			Turn{Side: lead.Opponent(), Action: domain.ActionTypePick, Role: role},
		)
	}

	return seq
}

// StandardSequence returns the 20-turn sequence of the standard
// five-ban, five-role format.
func StandardSequence() Sequence {
	return GenerateSequence(DefaultBanCount, domain.AllRoles)
}

// At returns the turn at index, or ok=false when index is past the end of
// the sequence, which signals a complete draft.
func (s Sequence) At(index int) (Turn, bool) {
	if index < 0 || index >= len(s) {
		return Turn{}, false
	}
	return s[index], true
}
