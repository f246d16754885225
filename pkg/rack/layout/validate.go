package layout

import (
	"fmt"
	"math"

	"github.com/matzehuels/racktower/pkg/errors"
	"github.com/matzehuels/racktower/pkg/rack"
	"github.com/matzehuels/racktower/pkg/rack/geometry"
)

// Discarded is a saved instance that [Salvage] could not keep.
type Discarded struct {
	ID     string
	Reason error
}

// Restore rebuilds an engine from a persisted slot sequence. Each slot's
// cached module becomes the instance's module; every invariant is checked
// and any violation is reported as INVALID_STATE.
func Restore(cfg rack.Config, slots []rack.Slot, opts ...Option) (*Engine, error) {
	e, discarded, err := Salvage(cfg, slots, opts...)
	if err != nil {
		return nil, err
	}
	if len(discarded) > 0 {
		return nil, discarded[0].Reason
	}
	return e, nil
}

// Salvage is the lenient form of [Restore]. The configuration, slot count
// and labels must still be right, but an instance that is truncated,
// split, misaligned or carries a broken module is left out instead of
// failing the whole layout. Dropped instances are returned in slot order.
func Salvage(cfg rack.Config, slots []rack.Slot, opts ...Option) (*Engine, []Discarded, error) {
	e, err := New(cfg, opts...)
	if err != nil {
		return nil, nil, err
	}

	if len(slots) != len(e.slots) {
		return nil, nil, errors.New(errors.ErrCodeInvalidState,
			"%dU rack at %s resolution needs %d slots, got %d",
			cfg.HeightUnits, e.step, len(e.slots), len(slots))
	}

	type candidate struct {
		inst Instance
		err  error
	}
	candidates := make(map[string]*candidate)
	var order []string

	for i, s := range slots {
		if s.UPosition != e.slots[i].UPosition {
			return nil, nil, errors.New(errors.ErrCodeInvalidState,
				"slot %d is labeled %v, want %v", i, s.UPosition, e.slots[i].UPosition)
		}
		if s.OccupantID == "" {
			continue
		}

		c, ok := candidates[s.OccupantID]
		if !ok {
			c = &candidate{inst: Instance{ID: s.OccupantID, Anchor: i}}
			if s.Module != nil {
				c.inst.Module = *s.Module
			}
			candidates[s.OccupantID] = c
			order = append(order, s.OccupantID)
		}
		switch {
		case c.err != nil:
		case s.Module == nil:
			c.err = invalid("slot %d is held by %s but carries no module", i, s.OccupantID)
		case !sameModule(c.inst.Module, *s.Module):
			c.err = invalid("instance %s shows different modules in different slots", s.OccupantID)
		case i != c.inst.End():
			c.err = invalid("instance %s is split around slot %d", s.OccupantID, i)
		}
		c.inst.Span++
	}

	var discarded []Discarded
	for _, id := range order {
		c := candidates[id]
		if c.err == nil {
			c.err = e.admit(c.inst)
		}
		if c.err != nil {
			discarded = append(discarded, Discarded{
				ID:     id,
				Reason: errors.Wrap(errors.ErrCodeInvalidState, c.err, "instance %s", id),
			})
			continue
		}
		inst := c.inst
		e.instances[id] = &inst
		for i := inst.Anchor; i < inst.End(); i++ {
			e.slots[i].OccupantID = id
		}
	}

	if err := e.Validate(); err != nil {
		return nil, nil, err
	}
	return e, discarded, nil
}

// admit checks a saved instance against the rules a fresh placement obeys
// and against the number of slots it actually held.
func (e *Engine) admit(inst Instance) error {
	if err := e.Check(inst.Anchor, inst.Module, ""); err != nil {
		return err
	}
	if span := geometry.Span(inst.Module, e.step); inst.Span != span {
		return invalid("instance %s holds %d slots, module needs %d", inst.ID, inst.Span, span)
	}
	return nil
}

// Validate checks every layout invariant:
//   - the slot count and labels match the configured height and resolution
//   - every occupant id has an instance and every instance holds exactly
//     Span contiguous slots starting at Anchor
//   - Span matches the module height
//   - instances of 1U or more are top-aligned in half-U racks
func (e *Engine) Validate() error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	want := geometry.GenerateSlots(e.cfg.HeightUnits, e.step)
	if len(e.slots) != len(want) {
		return invalid("slot count %d, want %d", len(e.slots), len(want))
	}

	counts := make(map[string]int)
	for i, s := range e.slots {
		if s.UPosition != want[i].UPosition {
			return invalid("slot %d labeled %v, want %v", i, s.UPosition, want[i].UPosition)
		}
		if s.Module != nil {
			return invalid("slot %d caches a module internally", i)
		}
		if s.OccupantID == "" {
			continue
		}
		inst, ok := e.instances[s.OccupantID]
		if !ok {
			return invalid("slot %d held by unknown instance %s", i, s.OccupantID)
		}
		if !inst.Covers(i) {
			return invalid("slot %d held by %s outside its range [%d,%d)", i, inst.ID, inst.Anchor, inst.End())
		}
		counts[s.OccupantID]++
	}

	for id, inst := range e.instances {
		if inst.ID != id {
			return invalid("instance table key %s holds %s", id, inst.ID)
		}
		if span := geometry.Span(inst.Module, e.step); inst.Span != span {
			return invalid("instance %s spans %d slots, module needs %d", id, inst.Span, span)
		}
		if counts[id] != inst.Span {
			return invalid("instance %s holds %d slots, want %d", id, counts[id], inst.Span)
		}
		if !geometry.TopAligned(inst.Anchor, inst.Module, e.step) {
			return invalid("instance %s starts at odd slot %d", id, inst.Anchor)
		}
		if e.step == rack.WholeU && inst.Module.HeightUnits != math.Trunc(inst.Module.HeightUnits) {
			return invalid("instance %s is %vU in a whole-U rack", id, inst.Module.HeightUnits)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidState, "%s", fmt.Sprintf(format, args...))
}

func sameModule(a, b rack.Module) bool {
	if a.ShowName == nil || b.ShowName == nil {
		if a.ShowName != b.ShowName {
			return false
		}
	} else if *a.ShowName != *b.ShowName {
		return false
	}
	a.ShowName, b.ShowName = nil, nil
	return a == b
}
