// Package pkg holds the racktower libraries.
//
// # Overview
//
// racktower plans the front elevation of an equipment rack: a vertical
// column of rack units (U) into which modules of a given height are placed.
// The pkg directory is organized by concern:
//
//  1. [rack] - Data model (configuration, modules, slots)
//  2. [rack/geometry] - Pure slot arithmetic (labels, spans, alignment)
//  3. [rack/layout] - The layout engine that owns the slot sequence
//  4. [catalog] - Built-in and custom module definitions
//  5. [planner] - Ties engine, catalog and persistence together
//  6. [state], [cache], [io] - Persistence, render cache and plan files
//  7. [render/elevation] - Text and SVG elevation drawings
//  8. [api] - HTTP shell for a browser front-end
//
// # Architecture
//
// A placement request flows through:
//
//	catalog.Lookup(moduleID)
//	         ↓
//	layout.Engine.Check / Place (geometry + collision)
//	         ↓
//	state.Store.Save (JSON on disk)
//	         ↓
//	elevation.Text / elevation.RenderSVG
//
// # Quick Start
//
//	p, err := planner.Open(ctx, state.NewMemoryStore(nil), planner.Options{})
//	if err != nil {
//	    return err
//	}
//	placed, err := p.Place(ctx, 0, "server-2u", "")
//
// [rack]: github.com/matzehuels/racktower/pkg/rack
// [rack/geometry]: github.com/matzehuels/racktower/pkg/rack/geometry
// [rack/layout]: github.com/matzehuels/racktower/pkg/rack/layout
// [catalog]: github.com/matzehuels/racktower/pkg/catalog
// [planner]: github.com/matzehuels/racktower/pkg/planner
// [state]: github.com/matzehuels/racktower/pkg/state
// [cache]: github.com/matzehuels/racktower/pkg/cache
// [io]: github.com/matzehuels/racktower/pkg/io
// [render/elevation]: github.com/matzehuels/racktower/pkg/render/elevation
// [api]: github.com/matzehuels/racktower/pkg/api
package pkg
