package layout

import (
	"fmt"
	"math"

	"github.com/matzehuels/racktower/pkg/errors"
	"github.com/matzehuels/racktower/pkg/rack"
	"github.com/matzehuels/racktower/pkg/rack/geometry"
)

// CommitResult describes a successful placement.
type CommitResult struct {
	InstanceID string
	Anchor     int
	Span       int
	Moved      bool
	Slots      []rack.Slot
}

// Check reports why m cannot be placed with its top at target, or nil when
// it can. movingID names an instance being relocated: slots it holds do not
// count as collisions. Check never mutates the engine.
func (e *Engine) Check(target int, m rack.Module, movingID string) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if e.step == rack.WholeU && m.HeightUnits != math.Trunc(m.HeightUnits) {
		return errors.New(errors.ErrCodeInvalidModule,
			"%s is %vU; this rack only models whole units", m.ID, m.HeightUnits)
	}

	span := geometry.Span(m, e.step)

	if target < 0 || target >= len(e.slots) {
		return errors.New(errors.ErrCodeOutOfBounds,
			"slot %d does not exist in a %d-slot rack", target, len(e.slots))
	}
	if !geometry.TopAligned(target, m, e.step) {
		return errors.New(errors.ErrCodeMisalignedPlacement,
			"%vU modules must start on a whole-U boundary (slot %d is at %s)",
			m.HeightUnits, target, geometry.Label(e.slots[target].UPosition))
	}
	if target+span > len(e.slots) {
		return errors.New(errors.ErrCodeOutOfBounds,
			"not enough space below %s for a %vU module",
			geometry.Label(e.slots[target].UPosition), m.HeightUnits)
	}

	for i := target; i < target+span; i++ {
		occ := e.slots[i].OccupantID
		if occ != "" && occ != movingID {
			return errors.New(errors.ErrCodeSpaceOccupied,
				"%s is occupied by %s", geometry.Label(e.slots[i].UPosition), occ)
		}
	}
	return nil
}

// CanPlace reports whether [Engine.Check] accepts the placement.
func (e *Engine) CanPlace(target int, m rack.Module, movingID string) bool {
	return e.Check(target, m, movingID) == nil
}

// Targets returns every slot index where m could be dropped, top first.
func (e *Engine) Targets(m rack.Module, movingID string) []int {
	var out []int
	for i := range e.slots {
		if e.CanPlace(i, m, movingID) {
			out = append(out, i)
		}
	}
	return out
}

// Place commits m with its top at target. When movingID is set the existing
// instance is cleared first and keeps its id; otherwise a fresh id is
// generated. Nothing changes when an error is returned.
func (e *Engine) Place(target int, m rack.Module, movingID string) (CommitResult, error) {
	if movingID != "" {
		if _, ok := e.instances[movingID]; !ok {
			return CommitResult{}, e.reject("place", errors.New(errors.ErrCodeInstanceNotFound,
				"instance %q is not in the rack", movingID))
		}
	}
	if err := e.Check(target, m, movingID); err != nil {
		return CommitResult{}, e.reject("place", err)
	}

	span := geometry.Span(m, e.step)
	id := movingID
	if movingID != "" {
		e.clearInstance(movingID)
	} else {
		id = e.nextID(m.ID)
	}

	for i := target; i < target+span; i++ {
		e.slots[i].OccupantID = id
	}
	e.instances[id] = &Instance{ID: id, Module: m, Anchor: target, Span: span}

	moved := movingID != ""
	e.hooks.OnPlace(id, m.ID, target, span, moved)

	return CommitResult{
		InstanceID: id,
		Anchor:     target,
		Span:       span,
		Moved:      moved,
		Slots:      e.Slots(),
	}, nil
}

// Remove clears every slot held by instanceID. It reports whether anything
// was removed; an unknown id is not an error.
func (e *Engine) Remove(instanceID string) bool {
	if _, ok := e.instances[instanceID]; !ok || instanceID == "" {
		return false
	}
	e.clearInstance(instanceID)
	e.hooks.OnRemove(instanceID)
	return true
}

// clearInstance scans the whole sequence so a stale anchor can never leave
// orphaned slots behind.
func (e *Engine) clearInstance(id string) {
	for i := range e.slots {
		if e.slots[i].OccupantID == id {
			e.slots[i].OccupantID = ""
		}
	}
	delete(e.instances, id)
}

func (e *Engine) nextID(moduleID string) string {
	base := moduleID + "-" + e.newID()
	id := base
	for n := 2; e.instances[id] != nil; n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	return id
}
