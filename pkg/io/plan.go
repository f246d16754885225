package io

import "github.com/matzehuels/racktower/pkg/rack"

// Plan is the TOML interchange form of a layout.
type Plan struct {
	Rack       PlanRack      `toml:"rack"`
	Modules    []rack.Module `toml:"module,omitempty"`
	Placements []Placement   `toml:"placement,omitempty"`
}

// PlanRack holds the rack settings of a plan.
type PlanRack struct {
	Height int             `toml:"height"`
	Width  rack.WidthClass `toml:"width,omitempty"`
}

// Placement puts one module instance into the rack.
type Placement struct {
	Instance string  `toml:"instance,omitempty"`
	Module   string  `toml:"module"`
	Top      float64 `toml:"top"`
}
