package layout

import (
	"github.com/matzehuels/racktower/pkg/errors"
	"github.com/matzehuels/racktower/pkg/rack"
)

// BulkEditModule applies patch to the module of every placed instance whose
// module id is moduleID, keeping occupant ids and positions. It returns the
// number of instances updated.
//
// Changing the height of a module that is placed would change its span, so
// such patches are rejected with MODULE_IN_USE; remove the instances first.
func (e *Engine) BulkEditModule(moduleID string, patch rack.ModulePatch) (int, error) {
	var matched []*Instance
	for _, inst := range e.instances {
		if inst.Module.ID == moduleID {
			matched = append(matched, inst)
		}
	}
	if len(matched) == 0 || patch.Empty() {
		return 0, nil
	}

	if patch.ChangesHeight(matched[0].Module) {
		return 0, e.reject("edit", errors.New(errors.ErrCodeModuleInUse,
			"%s has %d placement(s); remove them before changing its height", moduleID, len(matched)).
			WithDetails(idsOf(matched)...))
	}

	updated := matched[0].Module.Apply(patch)
	if err := updated.Validate(); err != nil {
		return 0, e.reject("edit", err)
	}

	for _, inst := range matched {
		inst.Module = inst.Module.Apply(patch)
	}
	return len(matched), nil
}

// Placements returns how many instances of moduleID are in the rack.
func (e *Engine) Placements(moduleID string) int {
	n := 0
	for _, inst := range e.instances {
		if inst.Module.ID == moduleID {
			n++
		}
	}
	return n
}

func idsOf(insts []*Instance) []string {
	out := make([]string, len(insts))
	for i, inst := range insts {
		out[i] = inst.ID
	}
	return out
}
