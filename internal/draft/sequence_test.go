package draft_test

import (
	"fmt"
	"testing"

	"github.com/dom/league-draft-engine/internal/domain"
	"github.com/dom/league-draft-engine/internal/draft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSequence_StandardFormat(t *testing.T) {
	seq := draft.GenerateSequence(5, domain.AllRoles)
	require.Len(t, seq, 20)

	// Ban phase: strict blue/red alternation, blue first.
	for i := 0; i < 10; i++ {
		turn := seq[i]
		assert.Equal(t, domain.ActionTypeBan, turn.Action, "turn %d", i)
		assert.Empty(t, turn.Role, "turn %d", i)
		if i%2 == 0 {
			assert.Equal(t, domain.SideBlue, turn.Side, "turn %d", i)
		} else {
			assert.Equal(t, domain.SideRed, turn.Side, "turn %d", i)
		}
	}

	// Pick phase snakes: leading side flips at every role boundary.
	wantPicks := []draft.Turn{
		{Side: domain.SideBlue, Action: domain.ActionTypePick, Role: domain.RoleTop},
		{Side: domain.SideRed, Action: domain.ActionTypePick, Role: domain.RoleTop},
		{Side: domain.SideRed, Action: domain.ActionTypePick, Role: domain.RoleJungle},
		{Side: domain.SideBlue, Action: domain.ActionTypePick, Role: domain.RoleJungle},
		{Side: domain.SideBlue, Action: domain.ActionTypePick, Role: domain.RoleMid},
		{Side: domain.SideRed, Action: domain.ActionTypePick, Role: domain.RoleMid},
		{Side: domain.SideRed, Action: domain.ActionTypePick, Role: domain.RoleADC},
		{Side: domain.SideBlue, Action: domain.ActionTypePick, Role: domain.RoleADC},
		{Side: domain.SideBlue, Action: domain.ActionTypePick, Role: domain.RoleSupport},
		{Side: domain.SideRed, Action: domain.ActionTypePick, Role: domain.RoleSupport},
	}
	assert.Equal(t, wantPicks, []draft.Turn(seq[10:]))
}

func TestGenerateSequence_Length(t *testing.T) {
	tests := []struct {
		banCount int
		roles    []domain.Role
	}{
		{0, domain.AllRoles},                      // blind pick, no bans
		{3, domain.AllRoles},                      // reduced ban format
		{5, domain.AllRoles},                      // standard
		{5, []domain.Role{domain.RoleMid}},        // 1v1 showmatch
		{2, []domain.Role{domain.RoleTop, domain.RoleJungle, domain.RoleMid}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("bans=%d roles=%d", tt.banCount, len(tt.roles)), func(t *testing.T) {
			seq := draft.GenerateSequence(tt.banCount, tt.roles)
			assert.Len(t, seq, 2*tt.banCount+2*len(tt.roles))

			// Each side gets exactly banCount bans and one pick per role.
			counts := map[domain.Side]map[domain.ActionType]int{
				domain.SideBlue: {},
				domain.SideRed:  {},
			}
			for _, turn := range seq {
				counts[turn.Side][turn.Action]++
			}
			for _, side := range []domain.Side{domain.SideBlue, domain.SideRed} {
				assert.Equal(t, tt.banCount, counts[side][domain.ActionTypeBan])
				assert.Equal(t, len(tt.roles), counts[side][domain.ActionTypePick])
			}
		})
	}
}

func TestGenerateSequence_BothSidesPickEveryRole(t *testing.T) {
	seq := draft.StandardSequence()

	picked := map[domain.Side]map[domain.Role]int{
		domain.SideBlue: {},
		domain.SideRed:  {},
	}
	for _, turn := range seq {
		if turn.Action == domain.ActionTypePick {
			picked[turn.Side][turn.Role]++
		}
	}
	for _, side := range []domain.Side{domain.SideBlue, domain.SideRed} {
		for _, role := range domain.AllRoles {
			assert.Equal(t, 1, picked[side][role], "%s %s", side, role)
		}
	}
}

func TestSequence_At(t *testing.T) {
	seq := draft.StandardSequence()

	turn, ok := seq.At(0)
	require.True(t, ok)
	assert.Equal(t, domain.SideBlue, turn.Side)

	_, ok = seq.At(len(seq))
	assert.False(t, ok, "index past the end signals a complete draft")

	_, ok = seq.At(-1)
	assert.False(t, ok)
}
