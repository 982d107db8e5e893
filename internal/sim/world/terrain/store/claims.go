package store

import "github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"

// BeginTick forgets the previous tick's claims.
func (s *EditStore) BeginTick() {
	for k := range s.claims {
		delete(s.claims, k)
	}
}

// Claim reserves p for player for the rest of the tick. The first claimant
// wins; a later claim by a different player fails and reports the holder.
// Repeat claims by the holder succeed.
func (s *EditStore) Claim(p model.VoxelPos, player model.PlayerID) (model.PlayerID, bool) {
	if holder, ok := s.claims[p]; ok && holder != player {
		return holder, false
	}
	s.claims[p] = player
	return player, true
}
