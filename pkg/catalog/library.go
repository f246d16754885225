package catalog

import (
	"github.com/google/uuid"

	"github.com/matzehuels/racktower/pkg/errors"
	"github.com/matzehuels/racktower/pkg/rack"
)

// Library holds the user's custom modules in creation order.
//
// Library is not safe for concurrent use; the planner serializes access.
type Library struct {
	modules []rack.Module
	newID   func() string
}

// NewLibrary loads persisted custom modules. Every module must validate and
// carry a unique custom id.
func NewLibrary(modules []rack.Module) (*Library, error) {
	l, rejected := LoadLibrary(modules)
	if len(rejected) > 0 {
		return nil, rejected[0]
	}
	return l, nil
}

// LoadLibrary is the lenient form of [NewLibrary]: modules that fail
// validation or repeat an id are skipped and their errors returned.
func LoadLibrary(modules []rack.Module) (*Library, []error) {
	l := &Library{newID: func() string { return uuid.NewString()[:8] }}
	seen := make(map[string]bool, len(modules))
	var rejected []error
	for _, m := range modules {
		if err := l.admit(m, seen); err != nil {
			rejected = append(rejected, err)
			continue
		}
		seen[m.ID] = true
		l.modules = append(l.modules, clone(m))
	}
	return l, rejected
}

func (l *Library) admit(m rack.Module, seen map[string]bool) error {
	if !m.IsCustom() {
		return errors.New(errors.ErrCodeInvalidModule, "custom module id %q lacks the %q prefix", m.ID, rack.CustomPrefix)
	}
	if seen[m.ID] {
		return errors.New(errors.ErrCodeInvalidModule, "duplicate custom module id %q", m.ID)
	}
	return m.Validate()
}

// Clone returns an independent copy of the library.
func (l *Library) Clone() *Library {
	c := &Library{newID: l.newID, modules: make([]rack.Module, len(l.modules))}
	for i, m := range l.modules {
		c.modules[i] = clone(m)
	}
	return c
}

// Add creates a custom module with a fresh "custom-" id. An empty color
// falls back to [DefaultColor].
func (l *Library) Add(name string, height float64, category rack.Category, color, image string) (rack.Module, error) {
	if color == "" {
		color = DefaultColor
	}
	m := rack.Module{
		ID:             l.uniqueID(),
		Name:           name,
		HeightUnits:    height,
		Category:       category,
		Color:          color,
		FaceplateImage: image,
	}
	if err := validateCustom(m); err != nil {
		return rack.Module{}, err
	}
	l.modules = append(l.modules, m)
	return clone(m), nil
}

// Update applies patch to the custom module id and returns the result.
func (l *Library) Update(id string, patch rack.ModulePatch) (rack.Module, error) {
	i, err := l.index(id)
	if err != nil {
		return rack.Module{}, err
	}
	updated := l.modules[i].Apply(patch)
	if err := validateCustom(updated); err != nil {
		return rack.Module{}, err
	}
	l.modules[i] = updated
	return clone(updated), nil
}

// Delete removes the custom module id.
func (l *Library) Delete(id string) error {
	i, err := l.index(id)
	if err != nil {
		return err
	}
	l.modules = append(l.modules[:i], l.modules[i+1:]...)
	return nil
}

// Get returns the custom module id.
func (l *Library) Get(id string) (rack.Module, bool) {
	for _, m := range l.modules {
		if m.ID == id {
			return clone(m), true
		}
	}
	return rack.Module{}, false
}

// All returns a copy of every custom module in creation order.
func (l *Library) All() []rack.Module {
	out := make([]rack.Module, len(l.modules))
	for i, m := range l.modules {
		out[i] = clone(m)
	}
	return out
}

// Len returns the number of custom modules.
func (l *Library) Len() int { return len(l.modules) }

func (l *Library) index(id string) (int, error) {
	if !rack.IsCustomID(id) {
		return -1, errors.New(errors.ErrCodeInvalidModule, "%q is a built-in module and cannot be changed", id)
	}
	for i, m := range l.modules {
		if m.ID == id {
			return i, nil
		}
	}
	return -1, errors.New(errors.ErrCodeModuleNotFound, "custom module %q not found", id)
}

func (l *Library) uniqueID() string {
	for {
		id := rack.CustomPrefix + l.newID()
		if _, ok := l.Get(id); !ok {
			return id
		}
	}
}

func validateCustom(m rack.Module) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.HeightUnits > rack.MaxHeight {
		return errors.New(errors.ErrCodeInvalidModule, "module height %vU exceeds the tallest rack (%dU)", m.HeightUnits, rack.MaxHeight)
	}
	return nil
}
