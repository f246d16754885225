package layout

import (
	"sort"

	"github.com/google/uuid"

	"github.com/matzehuels/racktower/pkg/errors"
	"github.com/matzehuels/racktower/pkg/observability"
	"github.com/matzehuels/racktower/pkg/rack"
	"github.com/matzehuels/racktower/pkg/rack/geometry"
)

// Instance is one placed occurrence of a module.
type Instance struct {
	ID     string      `json:"id"`
	Module rack.Module `json:"module"`
	Anchor int         `json:"anchor"` // topmost slot index
	Span   int         `json:"span"`
}

// End returns the index just below the instance's bottom slot.
func (i Instance) End() int { return i.Anchor + i.Span }

// Covers reports whether the instance occupies slot index.
func (i Instance) Covers(index int) bool {
	return index >= i.Anchor && index < i.End()
}

// Engine is the rack layout state machine.
type Engine struct {
	cfg       rack.Config
	step      rack.Resolution
	slots     []rack.Slot // UPosition and OccupantID only
	instances map[string]*Instance
	newID     func() string
	hooks     observability.LayoutHooks
}

// Option configures an Engine.
type Option func(*Engine)

// WithResolution sets the slot height. The default is [rack.HalfU].
func WithResolution(r rack.Resolution) Option {
	return func(e *Engine) { e.step = r }
}

// WithIDGenerator replaces the random suffix used for new instance ids.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithHooks routes engine events to h instead of the global registry.
func WithHooks(h observability.LayoutHooks) Option {
	return func(e *Engine) {
		if h != nil {
			e.hooks = h
		}
	}
}

func randomSuffix() string {
	return uuid.NewString()[:8]
}

func newEngine(cfg rack.Config, opts []Option) *Engine {
	e := &Engine{
		cfg:       cfg,
		step:      rack.HalfU,
		instances: make(map[string]*Instance),
		newID:     randomSuffix,
		hooks:     observability.Layout(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cfg.Width == "" {
		e.cfg.Width = rack.Width19Inch
	}
	return e
}

// New creates an empty rack for cfg.
func New(cfg rack.Config, opts ...Option) (*Engine, error) {
	e := newEngine(cfg, opts)
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	if !e.step.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported resolution %v", float64(e.step))
	}
	e.slots = geometry.GenerateSlots(e.cfg.HeightUnits, e.step)
	return e, nil
}

// InitializeDefault creates an empty 19-inch rack that never fails: an
// out-of-range height falls back to [rack.DefaultHeight] and an unsupported
// resolution to [rack.HalfU]. It is the recovery path when persisted state
// cannot be loaded.
func InitializeDefault(height int, opts ...Option) *Engine {
	if rack.ValidateHeight(height) != nil {
		height = rack.DefaultHeight
	}
	e := newEngine(rack.Config{HeightUnits: height, Width: rack.Width19Inch}, opts)
	if !e.step.Valid() {
		e.step = rack.HalfU
	}
	if !e.cfg.Width.Valid() {
		e.cfg.Width = rack.Width19Inch
	}
	e.slots = geometry.GenerateSlots(e.cfg.HeightUnits, e.step)
	return e
}

// Clone returns an independent copy of the engine with the same options.
func (e *Engine) Clone() *Engine {
	c := *e
	c.slots = append([]rack.Slot(nil), e.slots...)
	c.instances = make(map[string]*Instance, len(e.instances))
	for id, inst := range e.instances {
		cp := *inst
		c.instances[id] = &cp
	}
	return &c
}

// Config returns the active rack configuration.
func (e *Engine) Config() rack.Config { return e.cfg }

// Resolution returns the slot height.
func (e *Engine) Resolution() rack.Resolution { return e.step }

// Len returns the number of slots.
func (e *Engine) Len() int { return len(e.slots) }

// Slots returns a copy of the slot sequence with each occupied slot carrying
// its own copy of the instance's module.
func (e *Engine) Slots() []rack.Slot {
	out := make([]rack.Slot, len(e.slots))
	for i, s := range e.slots {
		out[i] = rack.Slot{UPosition: s.UPosition, OccupantID: s.OccupantID}
		if inst := e.instances[s.OccupantID]; inst != nil {
			m := inst.Module
			out[i].Module = &m
		}
	}
	return out
}

// Instances returns every placed instance ordered from top to bottom.
func (e *Engine) Instances() []Instance {
	out := make([]Instance, 0, len(e.instances))
	for _, inst := range e.instances {
		out = append(out, *inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Anchor < out[j].Anchor })
	return out
}

// Instance looks up a placed instance by id.
func (e *Engine) Instance(id string) (Instance, bool) {
	inst, ok := e.instances[id]
	if !ok {
		return Instance{}, false
	}
	return *inst, true
}

// InstanceAt returns the instance covering slot index, if any.
func (e *Engine) InstanceAt(index int) (Instance, bool) {
	if index < 0 || index >= len(e.slots) {
		return Instance{}, false
	}
	return e.Instance(e.slots[index].OccupantID)
}

// Occupied returns the number of occupied slots.
func (e *Engine) Occupied() int {
	n := 0
	for _, s := range e.slots {
		if !s.Empty() {
			n++
		}
	}
	return n
}

// Span returns how many slots m occupies at this engine's resolution.
func (e *Engine) Span(m rack.Module) int { return geometry.Span(m, e.step) }

// IndexOf returns the slot index labeled u, or -1.
func (e *Engine) IndexOf(u float64) int {
	return geometry.IndexOf(e.cfg.HeightUnits, e.step, u)
}

func (e *Engine) reject(op string, err error) error {
	e.hooks.OnReject(op, err)
	return err
}
