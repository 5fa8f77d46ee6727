package draft_test

import (
	"fmt"
	"testing"

	"github.com/dom/league-draft-engine/internal/domain"
	"github.com/dom/league-draft-engine/internal/draft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStartedState(t *testing.T) *draft.State {
	t.Helper()
	s := draft.NewState(draft.StandardSequence(), domain.BracketGold, "15.18")
	s.Start()
	return s
}

// champion returns a distinct fake champion id per turn.
func champion(i int) string {
	return fmt.Sprintf("Champ%02d", i)
}

func TestState_ApplyAction_RequiresStart(t *testing.T) {
	s := draft.NewState(draft.StandardSequence(), domain.BracketAll, "")

	err := s.ApplyAction("Aatrox")
	assert.ErrorIs(t, err, domain.ErrDraftNotStarted)
	assert.Equal(t, 0, s.Index())
}

func TestState_ApplyAction_FullDraft(t *testing.T) {
	s := newStartedState(t)
	seq := s.Sequence()

	for i := range seq {
		turn, ok := s.CurrentTurn()
		require.True(t, ok)
		require.Equal(t, seq[i], turn)
		require.NoError(t, s.ApplyAction(champion(i)))
		assert.Equal(t, i+1, s.Index())
		assert.Equal(t, s.Index(), s.FilledCount(), "index/fill invariant after turn %d", i)
	}

	_, ok := s.CurrentTurn()
	assert.False(t, ok)
	assert.True(t, s.Complete())
	assert.Len(t, s.Composition(domain.SideBlue), 5)
	assert.Len(t, s.Composition(domain.SideRed), 5)
	assert.Len(t, s.Bans(domain.SideBlue), 5)
	assert.Len(t, s.Bans(domain.SideRed), 5)

	err := s.ApplyAction("OneMore")
	assert.ErrorIs(t, err, domain.ErrDraftComplete)
}

func TestState_ApplyAction_DuplicateChampion(t *testing.T) {
	s := newStartedState(t)
	require.NoError(t, s.ApplyAction("Aatrox"))

	before := s.Snapshot()
	err := s.ApplyAction("Aatrox")
	assert.ErrorIs(t, err, domain.ErrChampionUnavailable)
	assert.Equal(t, before, s.Snapshot(), "rejected action must leave state unchanged")
}

func TestState_ApplyAction_DuplicateAcrossBanAndPick(t *testing.T) {
	s := newStartedState(t)

	// Burn the whole ban phase.
	for i := 0; i < 10; i++ {
		require.NoError(t, s.ApplyAction(champion(i)))
	}

	// First pick colliding with a red ban.
	err := s.ApplyAction(champion(1))
	assert.ErrorIs(t, err, domain.ErrChampionUnavailable)
	assert.Equal(t, 10, s.Index())
}

func TestState_ApplyAction_BanListFull(t *testing.T) {
	// Generated sequences never exceed the capacity, so drive the state
	// with a hand-built sequence of six blue ban turns.
	seq := make(draft.Sequence, 0, 6)
	for i := 0; i < 6; i++ {
		seq = append(seq, draft.Turn{Side: domain.SideBlue, Action: domain.ActionTypeBan})
	}

	s := draft.NewState(seq, domain.BracketAll, "")
	s.Start()
	for i := 0; i < draft.BanCapacity; i++ {
		require.NoError(t, s.ApplyAction(champion(i)))
	}

	before := s.Snapshot()
	err := s.ApplyAction(champion(5))
	assert.ErrorIs(t, err, domain.ErrBanListFull)
	assert.Equal(t, before, s.Snapshot())
}

func TestState_RetractBan_ThenReuse(t *testing.T) {
	s := newStartedState(t)
	require.NoError(t, s.ApplyAction("Zed")) // blue ban 0

	require.NoError(t, s.RetractBan(domain.SideBlue, 0))
	assert.Empty(t, s.Bans(domain.SideBlue))
	// Retract is out-of-band: the index stays where the draft left it.
	assert.Equal(t, 1, s.Index())

	// Zed is free again for the next acting side.
	require.NoError(t, s.ApplyAction("Zed")) // red ban 0
	assert.Equal(t, []string{"Zed"}, s.Bans(domain.SideRed))
}

func TestState_RetractPick_ThenReuse(t *testing.T) {
	s := newStartedState(t)
	for i := 0; i < 10; i++ {
		require.NoError(t, s.ApplyAction(champion(i)))
	}
	require.NoError(t, s.ApplyAction("Gnar")) // blue top
	require.Equal(t, "Gnar", s.Composition(domain.SideBlue)[domain.RoleTop])

	require.NoError(t, s.RetractPick(domain.SideBlue, domain.RoleTop))
	_, filled := s.Composition(domain.SideBlue)[domain.RoleTop]
	assert.False(t, filled)
	assert.Equal(t, 11, s.Index(), "retract must not rewind the cursor")

	// The emptied slot is not reopened; the freed champion may be taken by
	// a later turn instead.
	require.NoError(t, s.ApplyAction("Gnar")) // red top
	assert.Equal(t, "Gnar", s.Composition(domain.SideRed)[domain.RoleTop])
}

func TestState_Retract_Errors(t *testing.T) {
	s := newStartedState(t)
	require.NoError(t, s.ApplyAction("Ahri"))

	tests := []struct {
		name    string
		run     func() error
		wantErr error
	}{
		{"empty pick slot", func() error { return s.RetractPick(domain.SideBlue, domain.RoleMid) }, domain.ErrSlotEmpty},
		{"invalid role", func() error { return s.RetractPick(domain.SideBlue, "feeder") }, domain.ErrInvalidRole},
		{"spectator side", func() error { return s.RetractPick(domain.SideSpectator, domain.RoleMid) }, domain.ErrInvalidSide},
		{"ban index out of range", func() error { return s.RetractBan(domain.SideBlue, 3) }, domain.ErrSlotOutOfRange},
		{"negative ban index", func() error { return s.RetractBan(domain.SideRed, -1) }, domain.ErrSlotOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), tt.wantErr)
		})
	}
}

func TestState_Reset_Idempotent(t *testing.T) {
	s := newStartedState(t)
	for i := 0; i < 7; i++ {
		require.NoError(t, s.ApplyAction(champion(i)))
	}

	s.Reset()
	once := s.Snapshot()
	s.Reset()
	twice := s.Snapshot()

	assert.Equal(t, once, twice)
	assert.Equal(t, 0, once.Index)
	assert.False(t, once.Started)
	assert.Empty(t, once.BlueBans)
	assert.Empty(t, once.RedBans)
	assert.Empty(t, once.BlueComposition)
	assert.Empty(t, once.RedComposition)
}

func TestState_GlobalUniqueness(t *testing.T) {
	s := newStartedState(t)
	for i := range s.Sequence() {
		require.NoError(t, s.ApplyAction(champion(i)))

		seen := map[string]bool{}
		snap := s.Snapshot()
		for _, id := range snap.BlueBans {
			assert.False(t, seen[id], "%s appears twice", id)
			seen[id] = true
		}
		for _, id := range snap.RedBans {
			assert.False(t, seen[id], "%s appears twice", id)
			seen[id] = true
		}
		for _, id := range snap.BlueComposition {
			assert.False(t, seen[id], "%s appears twice", id)
			seen[id] = true
		}
		for _, id := range snap.RedComposition {
			assert.False(t, seen[id], "%s appears twice", id)
			seen[id] = true
		}
	}
}

func TestState_SnapshotIsACopy(t *testing.T) {
	s := newStartedState(t)
	require.NoError(t, s.ApplyAction("Rell"))

	snap := s.Snapshot()
	snap.BlueBans[0] = "Tampered"

	assert.Equal(t, []string{"Rell"}, s.Bans(domain.SideBlue))
}
