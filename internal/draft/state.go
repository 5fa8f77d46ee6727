package draft

import (
	"slices"

	"github.com/dom/league-draft-engine/internal/domain"
)

// Composition maps each role to a champion id. Unfilled roles are absent.
type Composition map[domain.Role]string

// State is the root draft aggregate: both team compositions, both ban
// lists, the turn index and the selection metadata. It is mutated only by
// Start, ApplyAction, RetractPick, RetractBan and Reset, and is left
// untouched by any rejected mutation.
//
// State is not safe for concurrent use; the session layer serializes all
// access behind its own mutex.
// BanCapacity is the most bans a single side can ever hold. Generated
// sequences never exceed it; the apply path still checks it because the
// sequence and state can be driven independently.
const BanCapacity = 5

type State struct {
	seq     Sequence
	comps   map[domain.Side]Composition
	bans    map[domain.Side][]string
	index   int
	started bool

	bracket domain.EloBracket
	patch   string
}

// NewState creates an empty draft over the given sequence.
func NewState(seq Sequence, bracket domain.EloBracket, patch string) *State {
	return &State{
		seq: seq,
		comps: map[domain.Side]Composition{
			domain.SideBlue: {},
			domain.SideRed:  {},
		},
		bans: map[domain.Side][]string{
			domain.SideBlue: {},
			domain.SideRed:  {},
		},
		bracket: bracket,
		patch:   patch,
	}
}

// Start marks the draft as accepting actions. Actions before Start are
// rejected; this guards against input during setup.
func (s *State) Start() {
	s.started = true
}

// Started reports whether Start has been called since the last Reset.
func (s *State) Started() bool {
	return s.started
}

// Index returns the current turn index.
func (s *State) Index() int {
	return s.index
}

// Sequence returns the turn sequence the draft runs over.
func (s *State) Sequence() Sequence {
	return s.seq
}

// Bracket returns the elo bracket the draft was created for.
func (s *State) Bracket() domain.EloBracket {
	return s.bracket
}

// Patch returns the game patch the draft was created for, if any.
func (s *State) Patch() string {
	return s.patch
}

// CurrentTurn derives the turn at the current index. ok=false means the
// sequence is exhausted and the draft is complete.
func (s *State) CurrentTurn() (Turn, bool) {
	return s.seq.At(s.index)
}

// Complete reports whether every turn of the sequence has been consumed.
func (s *State) Complete() bool {
	return s.index >= len(s.seq)
}

// Used reports whether a champion already appears anywhere in the draft,
// across both compositions and both ban lists.
func (s *State) Used(championID string) bool {
	for _, side := range []domain.Side{domain.SideBlue, domain.SideRed} {
		if slices.Contains(s.bans[side], championID) {
			return true
		}
		for _, id := range s.comps[side] {
			if id == championID {
				return true
			}
		}
	}
	return false
}

// ApplyAction commits championID against the turn at the current index and
// advances the index by one. The state is unchanged when an error is
// returned.
func (s *State) ApplyAction(championID string) error {
	if !s.started {
		return domain.ErrDraftNotStarted
	}
	turn, ok := s.CurrentTurn()
	if !ok {
		return domain.ErrDraftComplete
	}
	if s.Used(championID) {
		return domain.ErrChampionUnavailable
	}

	switch turn.Action {
	case domain.ActionTypeBan:
		if len(s.bans[turn.Side]) >= BanCapacity {
			return domain.ErrBanListFull
		}
		s.bans[turn.Side] = append(s.bans[turn.Side], championID)
	case domain.ActionTypePick:
		s.comps[turn.Side][turn.Role] = championID
	}

	s.index++
	return nil
}

// RetractPick removes the champion a side has locked into a role. The turn
// index is not rewound: the draft keeps moving forward over the emptied
// slot, and the freed champion becomes selectable again on later turns.
func (s *State) RetractPick(side domain.Side, role domain.Role) error {
	if !side.IsPlaying() {
		return domain.ErrInvalidSide
	}
	if !role.IsValid() {
		return domain.ErrInvalidRole
	}
	if _, ok := s.comps[side][role]; !ok {
		return domain.ErrSlotEmpty
	}
	delete(s.comps[side], role)
	return nil
}

// RetractBan removes the ban at index from a side's ban list. Like
// RetractPick this is an out-of-band correction and does not rewind the
// turn index.
func (s *State) RetractBan(side domain.Side, index int) error {
	if !side.IsPlaying() {
		return domain.ErrInvalidSide
	}
	if index < 0 || index >= len(s.bans[side]) {
		return domain.ErrSlotOutOfRange
	}
	s.bans[side] = slices.Delete(s.bans[side], index, index+1)
	return nil
}

// Reset returns the draft to its initial value: all slots empty, index
// zero, started flag cleared. Resetting twice is the same as resetting
// once.
func (s *State) Reset() {
	s.comps = map[domain.Side]Composition{
		domain.SideBlue: {},
		domain.SideRed:  {},
	}
	s.bans = map[domain.Side][]string{
		domain.SideBlue: {},
		domain.SideRed:  {},
	}
	s.index = 0
	s.started = false
}

// Composition returns a copy of a side's role assignments.
func (s *State) Composition(side domain.Side) Composition {
	out := Composition{}
	for role, id := range s.comps[side] {
		out[role] = id
	}
	return out
}

// Bans returns a copy of a side's ban list in ban order.
func (s *State) Bans(side domain.Side) []string {
	return slices.Clone(s.bans[side])
}

// FilledCount returns the number of committed picks plus ban entries
// across both sides. Absent retractions it always equals the turn index.
func (s *State) FilledCount() int {
	n := 0
	for _, side := range []domain.Side{domain.SideBlue, domain.SideRed} {
		n += len(s.comps[side]) + len(s.bans[side])
	}
	return n
}

// Snapshot is an immutable copy of the draft used for broadcasts and
// oracle requests.
type Snapshot struct {
	Index           int                    `json:"index"`
	Started         bool                   `json:"started"`
	Complete        bool                   `json:"complete"`
	BlueComposition map[domain.Role]string `json:"blueComposition"`
	RedComposition  map[domain.Role]string `json:"redComposition"`
	BlueBans        []string               `json:"blueBans"`
	RedBans         []string               `json:"redBans"`
	EloBracket      domain.EloBracket      `json:"eloBracket"`
	Patch           string                 `json:"patch,omitempty"`
}

// Snapshot copies the current draft state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Index:           s.index,
		Started:         s.started,
		Complete:        s.Complete(),
		BlueComposition: s.Composition(domain.SideBlue),
		RedComposition:  s.Composition(domain.SideRed),
		BlueBans:        s.Bans(domain.SideBlue),
		RedBans:         s.Bans(domain.SideRed),
		EloBracket:      s.bracket,
		Patch:           s.patch,
	}
}
