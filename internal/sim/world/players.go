package world

import (
	"sort"

	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/logic/validation"
)

type player struct {
	ID    model.PlayerID
	Name  string
	State model.PlayerState

	moves validation.MoveBudget
}

// playerTable is the authoritative per-player store, keyed by id.
type playerTable struct {
	byID map[model.PlayerID]*player
}

func newPlayerTable() *playerTable {
	return &playerTable{byID: map[model.PlayerID]*player{}}
}

// Player implements validation.Players.
func (t *playerTable) Player(id model.PlayerID) (model.PlayerState, bool) {
	p := t.byID[id]
	if p == nil {
		return model.PlayerState{}, false
	}
	return p.State, true
}

func (t *playerTable) get(id model.PlayerID) *player { return t.byID[id] }

func (t *playerTable) add(p *player) { t.byID[p.ID] = p }

func (t *playerTable) remove(id model.PlayerID) bool {
	if _, ok := t.byID[id]; !ok {
		return false
	}
	delete(t.byID, id)
	return true
}

func (t *playerTable) len() int { return len(t.byID) }

// sortedIDs gives a deterministic iteration order.
func (t *playerTable) sortedIDs() []model.PlayerID {
	ids := make([]model.PlayerID, 0, len(t.byID))
	for id := range t.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
