package io

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/matzehuels/racktower/pkg/catalog"
	"github.com/matzehuels/racktower/pkg/errors"
	"github.com/matzehuels/racktower/pkg/rack"
	"github.com/matzehuels/racktower/pkg/rack/geometry"
	"github.com/matzehuels/racktower/pkg/rack/layout"
	"github.com/matzehuels/racktower/pkg/state"
)

// ReadJSON decodes a JSON layout from r. The layout is not validated
// against the placement rules; restore it through the planner for that.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*state.State, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	s, err := state.Decode(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid layout JSON")
	}
	return s, nil
}

// ImportJSON reads a JSON layout file at path.
func ImportJSON(path string) (*state.State, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// DecodePlan parses a TOML plan. Unknown keys are rejected so typos do not
// silently drop settings.
func DecodePlan(r io.Reader) (Plan, error) {
	var p Plan
	md, err := toml.NewDecoder(r).Decode(&p)
	if err != nil {
		return Plan{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid plan TOML")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Plan{}, errors.New(errors.ErrCodeInvalidFormat, "unknown plan keys: %s", strings.Join(keys, ", "))
	}
	return p, nil
}

// ReadTOML decodes a TOML plan from r and builds the layout it describes at
// resolution step by replaying every placement through the layout engine.
func ReadTOML(r io.Reader, step rack.Resolution) (*state.State, error) {
	p, err := DecodePlan(r)
	if err != nil {
		return nil, err
	}
	return p.Build(step)
}

// ImportTOML reads a TOML plan file at path; see [ReadTOML].
func ImportTOML(path string, step rack.Resolution) (*state.State, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadTOML(f, step)
}

// Build lays out the plan on an empty rack at resolution step.
func (p Plan) Build(step rack.Resolution) (*state.State, error) {
	cfg := rack.Config{HeightUnits: p.Rack.Height, Width: p.Rack.Width}
	if cfg.Width == "" {
		cfg.Width = rack.Width19Inch
	}

	lib, err := catalog.NewLibrary(p.Modules)
	if err != nil {
		return nil, err
	}
	cat := catalog.New(lib)

	// suffix is consumed by the id generator for the next placement.
	var suffix string
	e, err := layout.New(cfg,
		layout.WithResolution(step),
		layout.WithIDGenerator(func() string { return suffix }))
	if err != nil {
		return nil, err
	}

	for i, pl := range p.Placements {
		m, err := cat.Lookup(pl.Module)
		if err != nil {
			return nil, fmt.Errorf("placement %d: %w", i+1, err)
		}
		index := geometry.IndexOf(cfg.HeightUnits, step, pl.Top)
		if index < 0 {
			return nil, fmt.Errorf("placement %d: %w", i+1, errors.New(errors.ErrCodeOutOfBounds,
				"%s is not a slot in a %dU rack", geometry.Label(pl.Top), cfg.HeightUnits))
		}

		suffix = strings.TrimPrefix(pl.Instance, m.ID+"-")
		if pl.Instance == "" || suffix == pl.Instance || errors.ValidateIdentifier("instance id", pl.Instance) != nil {
			suffix = randomSuffix()
		}
		if _, err := e.Place(index, m, ""); err != nil {
			return nil, fmt.Errorf("placement %d (%s at %s): %w", i+1, m.ID, geometry.Label(pl.Top), err)
		}
	}

	return &state.State{
		Config:        e.Config(),
		Slots:         e.Slots(),
		CustomModules: lib.All(),
	}, nil
}

func randomSuffix() string { return uuid.NewString()[:8] }
