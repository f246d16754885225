// Package geometry derives rack slot sequences and labels from a height and
// resolution.
//
// Everything here is a pure function: no occupancy knowledge, no mutation,
// identical inputs always give identical output. The layout engine builds
// on these functions; renderers use them for U labels.
package geometry

import (
	"math"
	"strconv"

	"github.com/matzehuels/racktower/pkg/rack"
)

// SlotCount returns the number of slots a rack of height whole units has at
// resolution step.
func SlotCount(height int, step rack.Resolution) int {
	return int(math.Round(float64(height) / float64(step)))
}

// UPositionAt returns the U label of the slot at index. Index 0 is the top
// of the rack and carries the highest label.
func UPositionAt(height int, step rack.Resolution, index int) float64 {
	return float64(height) - float64(index)*float64(step)
}

// GenerateSlots returns height/step empty slots labeled from height down
// to step.
func GenerateSlots(height int, step rack.Resolution) []rack.Slot {
	n := SlotCount(height, step)
	slots := make([]rack.Slot, n)
	for i := range slots {
		slots[i] = rack.Slot{UPosition: UPositionAt(height, step, i)}
	}
	return slots
}

// Grow returns the empty slots to prepend when a rack grows from oldHeight
// to newHeight. Labels run from newHeight down to just above oldHeight.
// It returns nil when newHeight <= oldHeight.
func Grow(oldHeight, newHeight int, step rack.Resolution) []rack.Slot {
	if newHeight <= oldHeight {
		return nil
	}
	n := SlotCount(newHeight-oldHeight, step)
	slots := make([]rack.Slot, n)
	for i := range slots {
		slots[i] = rack.Slot{UPosition: UPositionAt(newHeight, step, i)}
	}
	return slots
}

// Span returns how many slots a module occupies: ceil(height/step).
func Span(m rack.Module, step rack.Resolution) int {
	return int(math.Ceil(m.HeightUnits/float64(step) - 1e-9))
}

// TopAligned reports whether a module may start at index. In half-U racks
// modules of 1U or more must start on a whole-U boundary (even index);
// thinner modules may start anywhere. Whole-U racks are always aligned.
func TopAligned(index int, m rack.Module, step rack.Resolution) bool {
	if step != rack.HalfU || m.HeightUnits < 1 {
		return true
	}
	return index%2 == 0
}

// Label formats a U position: "U10", "U9.5".
func Label(u float64) string {
	return "U" + strconv.FormatFloat(u, 'f', -1, 64)
}

// Labels returns the label of every slot in order.
func Labels(slots []rack.Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = Label(s.UPosition)
	}
	return out
}

// IndexOf returns the slot index carrying label u, or -1 when the rack has
// no such slot.
func IndexOf(height int, step rack.Resolution, u float64) int {
	idx := (float64(height) - u) / float64(step)
	if idx != math.Trunc(idx) || idx < 0 || int(idx) >= SlotCount(height, step) {
		return -1
	}
	return int(idx)
}
