package state

import (
	"github.com/matzehuels/racktower/pkg/errors"
	"github.com/matzehuels/racktower/pkg/rack"
	"github.com/matzehuels/racktower/pkg/rack/geometry"
)

// Migrate upgrades a whole-U slot sequence to half-U in place when step is
// [rack.HalfU] and the state holds exactly one slot per U. Each legacy slot
// becomes two: the top half keeps its label, the bottom half is labeled
// 0.5 lower, and both carry the original occupant and module. A module
// shorter than the whole-U slots it held (a 0.5U module took a full legacy
// slot) keeps only the top half-slots it needs; the rest become empty.
//
// Migrate reports whether it changed s. A sequence whose length matches
// neither resolution is left alone for layout.Restore to reject.
func Migrate(s *State, step rack.Resolution) (bool, error) {
	if s == nil || step != rack.HalfU {
		return false, nil
	}
	h := s.Config.HeightUnits
	if len(s.Slots) != geometry.SlotCount(h, rack.WholeU) || len(s.Slots) == geometry.SlotCount(h, step) {
		return false, nil
	}

	out := make([]rack.Slot, 0, 2*len(s.Slots))
	for k, legacy := range s.Slots {
		if want := float64(h - k); legacy.UPosition != want {
			return false, errors.New(errors.ErrCodeInvalidState,
				"legacy slot %d is labeled %v, want %v", k, legacy.UPosition, want)
		}
		top, bottom := legacy, legacy
		bottom.UPosition = legacy.UPosition - float64(step)
		if legacy.Module != nil {
			m := *legacy.Module
			bottom.Module = &m
		}
		out = append(out, top, bottom)
	}

	held := make(map[string]int)
	for i := range out {
		slot := &out[i]
		if slot.OccupantID == "" || slot.Module == nil {
			continue
		}
		held[slot.OccupantID]++
		if held[slot.OccupantID] > geometry.Span(*slot.Module, step) {
			slot.OccupantID = ""
			slot.Module = nil
		}
	}
	s.Slots = out
	return true, nil
}
