// Package planner owns a rack layout session: the layout engine, the custom
// module library and the store they are persisted to.
//
// Every mutating method forwards to the engine and saves the resulting
// state before returning, so the store always reflects the last accepted
// operation. Rejected operations leave both the engine and the store
// untouched, and so does a save that fails: the in-memory layout is rolled
// back to what the store still holds. Both the CLI and the HTTP shell drive the rack through a
// Planner.
//
// A Planner is not safe for concurrent use.
package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/racktower/pkg/catalog"
	"github.com/matzehuels/racktower/pkg/errors"
	"github.com/matzehuels/racktower/pkg/observability"
	"github.com/matzehuels/racktower/pkg/rack"
	"github.com/matzehuels/racktower/pkg/rack/geometry"
	"github.com/matzehuels/racktower/pkg/rack/layout"
	"github.com/matzehuels/racktower/pkg/state"
)

// Options configures [Open].
type Options struct {
	// DefaultHeight is used for a fresh rack and when saved state cannot be
	// restored. Zero means [rack.DefaultHeight].
	DefaultHeight int

	// Width is used for a fresh rack. Empty means 19 inch.
	Width rack.WidthClass

	// Resolution is the slot height. Zero means [rack.HalfU].
	Resolution rack.Resolution

	// Logger receives load and save diagnostics. Nil means log.Default().
	Logger *log.Logger

	// EngineOptions are passed to every engine the planner creates.
	EngineOptions []layout.Option
}

func (o *Options) setDefaults() {
	if o.DefaultHeight == 0 {
		o.DefaultHeight = rack.DefaultHeight
	}
	if o.Width == "" {
		o.Width = rack.Width19Inch
	}
	if o.Resolution == 0 {
		o.Resolution = rack.HalfU
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

func (o Options) engineOptions() []layout.Option {
	return append([]layout.Option{layout.WithResolution(o.Resolution)}, o.EngineOptions...)
}

// Planner is a persisted rack layout session.
type Planner struct {
	store   state.Store
	engine  *layout.Engine
	catalog *catalog.Catalog
	logger  *log.Logger
	opts    Options

	recovered bool
	fellBack  bool
	discarded []layout.Discarded
}

// Open loads the saved layout from store. A missing layout starts a fresh
// rack. A layout that cannot be read, migrated or restored is logged and
// replaced by a fresh default rack; the broken file is left in place until
// the next save.
func Open(ctx context.Context, store state.Store, opts Options) (*Planner, error) {
	if store == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "planner needs a store")
	}
	opts.setDefaults()
	if !opts.Resolution.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported resolution %v", float64(opts.Resolution))
	}

	p := &Planner{store: store, logger: opts.Logger, opts: opts}

	s, err := store.Load(ctx)
	if err != nil {
		p.logger.Warn("could not load saved layout; starting fresh", "error", err)
		p.fallback(nil)
		return p, nil
	}
	if s == nil {
		p.logger.Debug("no saved layout", "height", opts.DefaultHeight)
		cfg := rack.Config{HeightUnits: opts.DefaultHeight, Width: opts.Width}
		if e, err := layout.New(cfg, opts.engineOptions()...); err == nil {
			p.engine = e
			p.catalog = catalog.New(nil)
			return p, nil
		}
		p.fallback(nil)
		return p, nil
	}

	lib, rejected := catalog.LoadLibrary(s.CustomModules)
	for _, err := range rejected {
		p.logger.Warn("dropping invalid custom module", "error", err)
	}
	if len(rejected) > 0 {
		p.recovered = true
	}
	p.catalog = catalog.New(lib)

	before := len(s.Slots)
	migrated, err := state.Migrate(s, opts.Resolution)
	if err != nil {
		p.logger.Warn("could not migrate saved layout; starting fresh", "error", err)
		p.fallback(lib)
		return p, nil
	}
	if migrated {
		observability.Store().OnMigrate(ctx, before, len(s.Slots))
		p.logger.Info("upgraded layout to half-U slots", "from", before, "to", len(s.Slots))
	}

	if len(s.Slots) == 0 && s.Config.Validate() == nil {
		// Settings without slots: lay out an empty rack of the saved size.
		p.engine, err = layout.New(s.Config, opts.engineOptions()...)
	} else {
		p.engine, p.discarded, err = layout.Salvage(s.Config, s.Slots, opts.engineOptions()...)
	}
	if err != nil {
		p.logger.Warn("saved layout is inconsistent; starting fresh", "error", err)
		p.fallback(lib)
		return p, nil
	}

	for _, d := range p.discarded {
		p.logger.Warn("dropping inconsistent placement", "instance", d.ID, "error", d.Reason)
	}
	if len(p.discarded) > 0 {
		p.recovered = true
	}

	if migrated {
		if err := p.save(ctx); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Planner) fallback(lib *catalog.Library) {
	p.engine = layout.InitializeDefault(p.opts.DefaultHeight, p.opts.engineOptions()...)
	if p.catalog == nil {
		p.catalog = catalog.New(lib)
	}
	p.recovered = true
	p.fellBack = true
}

// Recovered reports whether Open discarded some or all of the saved state.
func (p *Planner) Recovered() bool { return p.recovered }

// FellBack reports whether Open replaced the saved rack with a fresh one.
func (p *Planner) FellBack() bool { return p.fellBack }

// Discarded returns the saved placements Open left out because they broke
// a layout rule. It is empty when the whole layout was replaced.
func (p *Planner) Discarded() []layout.Discarded { return p.discarded }

// Engine returns the layout engine. Mutating it directly bypasses
// persistence.
func (p *Planner) Engine() *layout.Engine { return p.engine }

// Catalog returns the module catalog.
func (p *Planner) Catalog() *catalog.Catalog { return p.catalog }

// Snapshot returns the current state as it would be saved.
func (p *Planner) Snapshot() *state.State {
	return &state.State{
		Config:        p.engine.Config(),
		Slots:         p.engine.Slots(),
		CustomModules: p.catalog.Library().All(),
	}
}

// Close closes the underlying store.
func (p *Planner) Close() error { return p.store.Close() }

func (p *Planner) save(ctx context.Context) error {
	start := time.Now()
	if err := p.store.Save(ctx, p.Snapshot()); err != nil {
		p.logger.Error("save layout", "error", err)
		return errors.Wrap(errors.ErrCodeInternal, err, "save layout")
	}
	p.logger.Debug("saved layout", "duration", time.Since(start).Round(time.Millisecond))
	return nil
}

// commit runs fn and saves when it reports a change. If fn or the save
// fails, the engine and library are put back as they were.
func (p *Planner) commit(ctx context.Context, fn func() (bool, error)) error {
	engine, lib := p.engine.Clone(), p.catalog.Library().Clone()
	changed, err := fn()
	if err == nil && changed {
		err = p.save(ctx)
	}
	if err != nil {
		p.engine = engine
		p.catalog = catalog.New(lib)
	}
	return err
}

// =============================================================================
// Rack
// =============================================================================

// Resize changes the rack height; see [layout.Engine.Resize].
func (p *Planner) Resize(ctx context.Context, height int, confirm layout.ConfirmFunc) (bool, error) {
	var changed bool
	err := p.commit(ctx, func() (bool, error) {
		var err error
		changed, err = p.engine.Resize(height, confirm)
		return changed, err
	})
	return changed && err == nil, err
}

// SetWidth switches the rack width class.
func (p *Planner) SetWidth(ctx context.Context, w rack.WidthClass) error {
	if p.engine.Config().Width == w {
		return nil
	}
	return p.commit(ctx, func() (bool, error) {
		return true, p.engine.SetWidth(w)
	})
}

// Clear empties the rack after confirmation.
func (p *Planner) Clear(ctx context.Context, confirm layout.ConfirmFunc) error {
	return p.commit(ctx, func() (bool, error) {
		return true, p.engine.Clear(confirm)
	})
}

// Replace swaps the whole layout for s after validating it, for example
// when importing a file. s is migrated if needed.
func (p *Planner) Replace(ctx context.Context, s *state.State) error {
	if s == nil {
		return errors.New(errors.ErrCodeInvalidInput, "no layout to import")
	}
	s = s.Clone()
	if _, err := state.Migrate(s, p.opts.Resolution); err != nil {
		return err
	}
	lib, err := catalog.NewLibrary(s.CustomModules)
	if err != nil {
		return err
	}

	var e *layout.Engine
	if len(s.Slots) == 0 {
		e, err = layout.New(s.Config, p.opts.engineOptions()...)
	} else {
		e, err = layout.Restore(s.Config, s.Slots, p.opts.engineOptions()...)
	}
	if err != nil {
		return err
	}

	return p.commit(ctx, func() (bool, error) {
		p.engine = e
		p.catalog = catalog.New(lib)
		return true, nil
	})
}

// =============================================================================
// Placement
// =============================================================================

// resolve returns the module to place. A move without a module id keeps
// the instance's own module.
func (p *Planner) resolve(moduleID, movingID string) (rack.Module, error) {
	if moduleID == "" && movingID != "" {
		inst, ok := p.engine.Instance(movingID)
		if !ok {
			return rack.Module{}, errors.New(errors.ErrCodeInstanceNotFound, "instance %q is not in the rack", movingID)
		}
		return inst.Module, nil
	}
	return p.catalog.Lookup(moduleID)
}

// Check reports whether moduleID (or the instance movingID) may be dropped
// with its top at index. It never changes anything.
func (p *Planner) Check(index int, moduleID, movingID string) error {
	m, err := p.resolve(moduleID, movingID)
	if err != nil {
		return err
	}
	return p.engine.Check(index, m, movingID)
}

// Targets returns the resolved module and every slot index it could be
// dropped at, top first.
func (p *Planner) Targets(moduleID, movingID string) (rack.Module, []int, error) {
	m, err := p.resolve(moduleID, movingID)
	if err != nil {
		return rack.Module{}, nil, err
	}
	return m, p.engine.Targets(m, movingID), nil
}

// Place drops moduleID with its top at index. When movingID is set the
// existing instance is relocated instead; moduleID may then be empty.
func (p *Planner) Place(ctx context.Context, index int, moduleID, movingID string) (layout.CommitResult, error) {
	m, err := p.resolve(moduleID, movingID)
	if err != nil {
		return layout.CommitResult{}, err
	}
	var res layout.CommitResult
	err = p.commit(ctx, func() (bool, error) {
		var err error
		res, err = p.engine.Place(index, m, movingID)
		return true, err
	})
	if err != nil {
		return layout.CommitResult{}, err
	}
	return res, nil
}

// PlaceAt is [Planner.Place] addressed by the U label of the module's top
// slot, for example 10 or 9.5.
func (p *Planner) PlaceAt(ctx context.Context, top float64, moduleID, movingID string) (layout.CommitResult, error) {
	index := p.engine.IndexOf(top)
	if index < 0 {
		return layout.CommitResult{}, errors.New(errors.ErrCodeOutOfBounds,
			"%s is not a slot in this %dU rack", geometry.Label(top), p.engine.Config().HeightUnits)
	}
	return p.Place(ctx, index, moduleID, movingID)
}

// Remove deletes an instance. Unknown ids report false without error.
func (p *Planner) Remove(ctx context.Context, instanceID string) (bool, error) {
	var removed bool
	err := p.commit(ctx, func() (bool, error) {
		removed = p.engine.Remove(instanceID)
		return removed, nil
	})
	return removed && err == nil, err
}

// =============================================================================
// Custom modules
// =============================================================================

// CreateModule adds a custom module to the library.
func (p *Planner) CreateModule(ctx context.Context, name string, height float64, category rack.Category, color, image string) (rack.Module, error) {
	var m rack.Module
	err := p.commit(ctx, func() (bool, error) {
		var err error
		m, err = p.catalog.Library().Add(name, height, category, color, image)
		return true, err
	})
	if err != nil {
		return rack.Module{}, err
	}
	return m, nil
}

// EditModule updates a custom module and every placed instance of it. It
// returns the number of placed instances updated.
func (p *Planner) EditModule(ctx context.Context, id string, patch rack.ModulePatch) (int, error) {
	lib := p.catalog.Library()
	current, ok := lib.Get(id)
	if !ok {
		if _, err := p.catalog.Lookup(id); err == nil {
			return 0, errors.New(errors.ErrCodeInvalidModule, "%q is a built-in module and cannot be changed", id)
		}
		return 0, errors.New(errors.ErrCodeModuleNotFound, "custom module %q not found", id)
	}
	if err := current.Apply(patch).Validate(); err != nil {
		return 0, err
	}

	var n int
	err := p.commit(ctx, func() (bool, error) {
		var err error
		if n, err = p.engine.BulkEditModule(id, patch); err != nil {
			return false, err
		}
		if _, err := lib.Update(id, patch); err != nil {
			return false, fmt.Errorf("update library after editing %d placement(s): %w", n, err)
		}
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// DeleteModule removes a custom module from the library. Instances already
// in the rack keep their copy of the module.
func (p *Planner) DeleteModule(ctx context.Context, id string) error {
	return p.commit(ctx, func() (bool, error) {
		return true, p.catalog.Library().Delete(id)
	})
}
