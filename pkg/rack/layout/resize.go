package layout

import (
	"fmt"
	"strconv"

	"github.com/matzehuels/racktower/pkg/errors"
	"github.com/matzehuels/racktower/pkg/rack"
	"github.com/matzehuels/racktower/pkg/rack/geometry"
)

// Prompt describes a destructive action awaiting confirmation.
type Prompt struct {
	Action    string     // "resize" or "clear"
	Message   string     // question to show the user
	Instances []Instance // instances that will be lost
}

// ConfirmFunc asks the user to approve a destructive action. Returning false
// aborts the action with no change.
type ConfirmFunc func(Prompt) bool

// Always approves every prompt. Useful for scripted callers that already
// asked (for example a --yes flag).
func Always(Prompt) bool { return true }

// Never declines every prompt.
func Never(Prompt) bool { return false }

func ask(confirm ConfirmFunc, p Prompt) bool {
	return confirm != nil && confirm(p)
}

// Resize changes the rack height. Growth prepends empty slots at the top;
// shrinking drops slots from the top. The floor never moves, so placed
// equipment keeps its U position.
//
// Resizing to the current height is a no-op and reports false. Shrinking
// past placed instances asks confirm with every instance touching the
// removed range; those instances are removed whole on approval.
func (e *Engine) Resize(newHeight int, confirm ConfirmFunc) (bool, error) {
	if err := rack.ValidateHeight(newHeight); err != nil {
		return false, e.reject("resize", err)
	}

	old := e.cfg.HeightUnits
	switch {
	case newHeight == old:
		return false, nil
	case newHeight > old:
		e.grow(newHeight)
		e.hooks.OnResize(old, newHeight, nil)
		return true, nil
	}

	cut := geometry.SlotCount(old-newHeight, e.step)
	lost := e.instancesIn(0, cut)
	if len(lost) > 0 {
		p := Prompt{
			Action: "resize",
			Message: fmt.Sprintf("Reducing size will remove modules in the top %dU. Continue?",
				old-newHeight),
			Instances: lost,
		}
		if !ask(confirm, p) {
			return false, e.reject("resize", errors.New(errors.ErrCodeDestructiveResizeDeclined,
				"resize to %dU would remove %d module(s); not confirmed", newHeight, len(lost)).
				WithDetails(instanceIDs(lost)...))
		}
	}

	next := make([]rack.Slot, len(e.slots)-cut)
	copy(next, e.slots[cut:])
	for _, inst := range lost {
		for i := range next {
			if next[i].OccupantID == inst.ID {
				next[i].OccupantID = ""
			}
		}
		delete(e.instances, inst.ID)
	}
	for _, inst := range e.instances {
		inst.Anchor -= cut
	}

	e.slots = next
	e.cfg.HeightUnits = newHeight
	e.hooks.OnResize(old, newHeight, instanceIDs(lost))
	return true, nil
}

func (e *Engine) grow(newHeight int) {
	added := geometry.Grow(e.cfg.HeightUnits, newHeight, e.step)
	e.slots = append(added, e.slots...)
	for _, inst := range e.instances {
		inst.Anchor += len(added)
	}
	e.cfg.HeightUnits = newHeight
}

// Clear empties the rack after confirmation.
func (e *Engine) Clear(confirm ConfirmFunc) error {
	p := Prompt{
		Action:    "clear",
		Message:   "Clear entire rack layout?",
		Instances: e.Instances(),
	}
	if !ask(confirm, p) {
		return e.reject("clear", errors.New(errors.ErrCodeClearDeclined, "clear rack not confirmed"))
	}

	e.slots = geometry.GenerateSlots(e.cfg.HeightUnits, e.step)
	e.instances = make(map[string]*Instance)
	e.hooks.OnClear(e.cfg.HeightUnits)
	return nil
}

// SetWidth switches the rack's width class. Slots are unaffected.
func (e *Engine) SetWidth(w rack.WidthClass) error {
	if !w.Valid() {
		return e.reject("width", errors.New(errors.ErrCodeInvalidWidth, "unknown rack width %q", w))
	}
	e.cfg.Width = w
	return nil
}

// instancesIn returns the instances holding any slot in [from, to).
func (e *Engine) instancesIn(from, to int) []Instance {
	seen := make(map[string]bool)
	var out []Instance
	for i := from; i < to && i < len(e.slots); i++ {
		id := e.slots[i].OccupantID
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if inst, ok := e.instances[id]; ok {
			out = append(out, *inst)
		}
	}
	return out
}

func instanceIDs(insts []Instance) []string {
	out := make([]string, len(insts))
	for i, inst := range insts {
		out[i] = inst.ID
	}
	return out
}

// Describe formats an instance for prompts: "Server 2U (U10-8.5)".
func (e *Engine) Describe(inst Instance) string {
	top := geometry.UPositionAt(e.cfg.HeightUnits, e.step, inst.Anchor)
	bottom := geometry.UPositionAt(e.cfg.HeightUnits, e.step, inst.End()-1)
	if inst.Span == 1 {
		return fmt.Sprintf("%s (%s)", inst.Module.Name, geometry.Label(top))
	}
	return fmt.Sprintf("%s (%s-%s)", inst.Module.Name, geometry.Label(top),
		strconv.FormatFloat(bottom, 'f', -1, 64))
}
