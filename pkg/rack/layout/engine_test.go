package layout

import (
	"fmt"
	"testing"

	"github.com/matzehuels/racktower/pkg/errors"
	"github.com/matzehuels/racktower/pkg/rack"
)

var (
	server1U  = rack.Module{ID: "server-1u", Name: "Server 1U", HeightUnits: 1, Category: rack.CategoryServer}
	server2U  = rack.Module{ID: "server-2u", Name: "Server 2U", HeightUnits: 2, Category: rack.CategoryServer}
	server4U  = rack.Module{ID: "server-4u", Name: "Server 4U", HeightUnits: 4, Category: rack.CategoryServer}
	shelfHalf = rack.Module{ID: "shelf-05u", Name: "Shelf 0.5U", HeightUnits: 0.5, Category: rack.CategoryAccessory}
)

// counterIDs returns a deterministic id generator: "1", "2", ...
func counterIDs() Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprint(n)
	})
}

func newTestEngine(t *testing.T, height int, opts ...Option) *Engine {
	t.Helper()
	e, err := New(rack.Config{HeightUnits: height, Width: rack.Width19Inch}, append([]Option{counterIDs()}, opts...)...)
	if err != nil {
		t.Fatalf("New(%d) error: %v", height, err)
	}
	return e
}

func mustPlace(t *testing.T, e *Engine, target int, m rack.Module) string {
	t.Helper()
	res, err := e.Place(target, m, "")
	if err != nil {
		t.Fatalf("Place(%d, %s) error: %v", target, m.ID, err)
	}
	return res.InstanceID
}

func assertValid(t *testing.T, e *Engine) {
	t.Helper()
	if err := e.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestNew(t *testing.T) {
	e := newTestEngine(t, 10)

	if e.Len() != 20 {
		t.Errorf("Len() = %d, want 20", e.Len())
	}
	if e.Resolution() != rack.HalfU {
		t.Errorf("Resolution() = %v, want %v", e.Resolution(), rack.HalfU)
	}
	if e.Config().Width != rack.Width19Inch {
		t.Errorf("Width = %q, want %q", e.Config().Width, rack.Width19Inch)
	}
	assertValid(t, e)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  rack.Config
		opts []Option
		want errors.Code
	}{
		{"too short", rack.Config{HeightUnits: 3}, nil, errors.ErrCodeInvalidHeight},
		{"too tall", rack.Config{HeightUnits: 53}, nil, errors.ErrCodeInvalidHeight},
		{"bad width", rack.Config{HeightUnits: 10, Width: "23inch"}, nil, errors.ErrCodeInvalidWidth},
		{"bad resolution", rack.Config{HeightUnits: 10}, []Option{WithResolution(0.25)}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, tt.opts...)
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want code %v", err, tt.want)
			}
		})
	}
}

func TestInitializeDefault(t *testing.T) {
	tests := []struct {
		height int
		want   int
	}{
		{12, 12},
		{0, rack.DefaultHeight},
		{99, rack.DefaultHeight},
	}

	for _, tt := range tests {
		e := InitializeDefault(tt.height, WithResolution(0.3))
		if e.Config().HeightUnits != tt.want {
			t.Errorf("InitializeDefault(%d) height = %d, want %d", tt.height, e.Config().HeightUnits, tt.want)
		}
		if e.Resolution() != rack.HalfU {
			t.Errorf("InitializeDefault resolution = %v, want half", e.Resolution())
		}
		assertValid(t, e)
	}
}

func TestSlotsAreCopies(t *testing.T) {
	e := newTestEngine(t, 4)
	mustPlace(t, e, 0, server1U)

	slots := e.Slots()
	slots[0].Module.Name = "mutated"
	slots[2].OccupantID = "ghost"

	again := e.Slots()
	if again[0].Module.Name != "Server 1U" {
		t.Error("mutating Slots() output changed the engine's module")
	}
	if again[2].OccupantID != "" {
		t.Error("mutating Slots() output changed the engine's occupants")
	}
	assertValid(t, e)
}

func TestSlotModuleAgreesWithOccupant(t *testing.T) {
	e := newTestEngine(t, 6)
	mustPlace(t, e, 0, server2U)
	mustPlace(t, e, 5, shelfHalf)

	for i, s := range e.Slots() {
		if (s.OccupantID == "") != (s.Module == nil) {
			t.Errorf("slot %d: occupant %q, module %v", i, s.OccupantID, s.Module)
		}
	}
}

func TestClone(t *testing.T) {
	e := newTestEngine(t, 6)
	a := mustPlace(t, e, 0, server2U)

	c := e.Clone()
	if !e.Remove(a) {
		t.Fatal("Remove failed")
	}
	mustPlace(t, e, 4, server1U)

	assertValid(t, c)
	if inst, ok := c.Instance(a); !ok || inst.Anchor != 0 {
		t.Errorf("clone instance = %+v, %v; want anchor 0", inst, ok)
	}
	if got := c.Occupied(); got != 4 {
		t.Errorf("clone Occupied() = %d, want 4", got)
	}
}

func TestInstances(t *testing.T) {
	e := newTestEngine(t, 10)
	low := mustPlace(t, e, 10, server1U)
	high := mustPlace(t, e, 0, server2U)

	insts := e.Instances()
	if len(insts) != 2 {
		t.Fatalf("Instances() len = %d, want 2", len(insts))
	}
	if insts[0].ID != high || insts[1].ID != low {
		t.Errorf("Instances() order = [%s %s], want [%s %s]", insts[0].ID, insts[1].ID, high, low)
	}

	inst, ok := e.InstanceAt(3)
	if !ok || inst.ID != high {
		t.Errorf("InstanceAt(3) = %v, %v; want %s", inst.ID, ok, high)
	}
	if _, ok := e.InstanceAt(4); ok {
		t.Error("InstanceAt(4) should be empty")
	}
	if _, ok := e.InstanceAt(-1); ok {
		t.Error("InstanceAt(-1) should be empty")
	}
	if e.Occupied() != 6 {
		t.Errorf("Occupied() = %d, want 6", e.Occupied())
	}
}

func TestDescribe(t *testing.T) {
	e := newTestEngine(t, 10)
	id := mustPlace(t, e, 0, server2U)
	inst, _ := e.Instance(id)

	if got, want := e.Describe(inst), "Server 2U (U10-8.5)"; got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}

	half := mustPlace(t, e, 7, shelfHalf)
	inst, _ = e.Instance(half)
	if got, want := e.Describe(inst), "Shelf 0.5U (U6.5)"; got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}
