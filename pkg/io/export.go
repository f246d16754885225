package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/racktower/pkg/state"
)

// WriteJSON encodes a layout as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON] or used as a state file.
func WriteJSON(s *state.State, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a layout to a JSON file at path.
func ExportJSON(s *state.State, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteJSON(s, w) })
}

// PlanOf converts a layout into a plan. Placements are listed top to
// bottom. Custom modules that are still placed but were deleted from the
// library are written to the module list so the plan stays importable.
func PlanOf(s *state.State) Plan {
	p := Plan{
		Rack:    PlanRack{Height: s.Config.HeightUnits, Width: s.Config.Width},
		Modules: append(s.CustomModules[:0:0], s.CustomModules...),
	}
	known := make(map[string]bool)
	for _, m := range p.Modules {
		known[m.ID] = true
	}

	seen := make(map[string]bool)
	for _, slot := range s.Slots {
		if slot.Empty() || seen[slot.OccupantID] || slot.Module == nil {
			continue
		}
		seen[slot.OccupantID] = true
		m := *slot.Module
		p.Placements = append(p.Placements, Placement{
			Instance: slot.OccupantID,
			Module:   m.ID,
			Top:      slot.UPosition,
		})
		if m.IsCustom() && !known[m.ID] {
			known[m.ID] = true
			p.Modules = append(p.Modules, m)
		}
	}
	return p
}

// WriteTOML encodes a layout as a TOML plan and writes it to w.
func WriteTOML(s *state.State, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(PlanOf(s)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportTOML writes a layout to a TOML plan file at path.
func ExportTOML(s *state.State, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteTOML(s, w) })
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
