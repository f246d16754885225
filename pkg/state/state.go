// Package state persists a rack layout between runs.
//
// A [State] is the plain value handed across the load/save boundary: the
// rack configuration, the slot sequence with each occupied slot carrying
// its module, and the user's custom modules. Stores read and write whole
// states; they know nothing about placement rules. Callers rebuild a
// layout engine from a loaded state with layout.Restore.
//
// # Backends
//
//   - [FileStore]: one JSON file, written atomically
//   - [MemoryStore]: in-process, for tests and ephemeral sessions
//
// # Legacy layouts
//
// Layouts saved before half-U support have one slot per U. [Migrate]
// detects them by length and expands each slot into two.
package state

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"

	"github.com/matzehuels/racktower/pkg/rack"
)

// State is a persisted rack layout.
type State struct {
	Config        rack.Config   `json:"config"`
	Slots         []rack.Slot   `json:"slots"`
	CustomModules []rack.Module `json:"customModules"`
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := &State{Config: s.Config, Slots: rack.CloneSlots(s.Slots)}
	out.CustomModules = append([]rack.Module(nil), s.CustomModules...)
	return out
}

// Store is the interface for layout persistence backends.
type Store interface {
	// Load returns the saved state, or nil, nil when nothing was saved.
	Load(ctx context.Context) (*State, error)

	// Save replaces the saved state.
	Save(ctx context.Context, s *State) error

	// Close releases backend resources.
	Close() error
}

// Encode serializes s as indented JSON.
func Encode(s *State) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a saved state. Comments and trailing commas are tolerated
// so hand-edited files still load.
func Decode(data []byte) (*State, error) {
	var s State
	if err := json.Unmarshal(jsonc.ToJSON(data), &s); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &s, nil
}
