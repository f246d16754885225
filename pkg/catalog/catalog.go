package catalog

import (
	"strings"

	"github.com/matzehuels/racktower/pkg/errors"
	"github.com/matzehuels/racktower/pkg/rack"
)

// Catalog is the union of the built-in modules and a custom [Library].
type Catalog struct {
	lib *Library
}

// Group is one category's modules in display order.
type Group struct {
	Category rack.Category `json:"category"`
	Modules  []rack.Module `json:"modules"`
}

// New returns a catalog over lib. A nil lib means no custom modules.
func New(lib *Library) *Catalog {
	if lib == nil {
		lib, _ = NewLibrary(nil)
	}
	return &Catalog{lib: lib}
}

// Library returns the custom module library.
func (c *Catalog) Library() *Library { return c.lib }

// Lookup resolves a module id against the built-in list, then the library.
func (c *Catalog) Lookup(id string) (rack.Module, error) {
	if rack.IsCustomID(id) {
		if m, ok := c.lib.Get(id); ok {
			return m, nil
		}
	} else {
		for _, m := range builtin {
			if m.ID == id {
				return clone(m), nil
			}
		}
	}
	return rack.Module{}, errors.New(errors.ErrCodeModuleNotFound, "module %q not found", id)
}

// All returns built-in modules followed by custom modules.
func (c *Catalog) All() []rack.Module {
	return append(Builtin(), c.lib.All()...)
}

// Grouped returns the non-empty category groups in [rack.Categories]
// order. Only modules whose name contains query (case-insensitively) are
// included; an empty query matches everything.
func (c *Catalog) Grouped(query string) []Group {
	query = strings.ToLower(strings.TrimSpace(query))
	byCat := make(map[rack.Category][]rack.Module)
	for _, m := range c.All() {
		if query != "" && !strings.Contains(strings.ToLower(m.Name), query) {
			continue
		}
		byCat[m.Category] = append(byCat[m.Category], m)
	}

	var groups []Group
	for _, cat := range rack.Categories {
		if mods := byCat[cat]; len(mods) > 0 {
			groups = append(groups, Group{Category: cat, Modules: mods})
		}
	}
	return groups
}
