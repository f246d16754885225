package planner

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/racktower/pkg/errors"
	"github.com/matzehuels/racktower/pkg/rack"
	"github.com/matzehuels/racktower/pkg/rack/geometry"
	"github.com/matzehuels/racktower/pkg/rack/layout"
	"github.com/matzehuels/racktower/pkg/state"
)

// failingStore fails every load and counts saves.
type failingStore struct {
	loadErr error
	saveErr error
	saves   int
}

func (f *failingStore) Load(context.Context) (*state.State, error) { return nil, f.loadErr }
func (f *failingStore) Save(context.Context, *state.State) error {
	f.saves++
	return f.saveErr
}
func (f *failingStore) Close() error { return nil }

func testOptions() Options {
	n := 0
	return Options{
		Logger: log.New(io.Discard),
		EngineOptions: []layout.Option{layout.WithIDGenerator(func() string {
			n++
			return fmt.Sprint(n)
		})},
	}
}

func openMemory(t *testing.T, initial *state.State) (*Planner, *state.MemoryStore) {
	t.Helper()
	store := state.NewMemoryStore(initial)
	p, err := Open(context.Background(), store, testOptions())
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	return p, store
}

func saved(t *testing.T, store state.Store) *state.State {
	t.Helper()
	s, err := store.Load(context.Background())
	if err != nil || s == nil {
		t.Fatalf("Load = %v, %v", s, err)
	}
	return s
}

func TestOpenFresh(t *testing.T) {
	p, _ := openMemory(t, nil)

	if p.Engine().Config() != rack.DefaultConfig() {
		t.Errorf("config = %+v, want default", p.Engine().Config())
	}
	if p.Recovered() {
		t.Error("fresh open reported recovery")
	}
}

func TestOpenFallsBackOnLoadError(t *testing.T) {
	store := &failingStore{loadErr: fmt.Errorf("disk on fire")}
	opts := testOptions()
	opts.DefaultHeight = 12

	p, err := Open(context.Background(), store, opts)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if !p.Recovered() || !p.FellBack() || p.Engine().Config().HeightUnits != 12 {
		t.Errorf("recovered = %v, fell back = %v, height = %d", p.Recovered(), p.FellBack(), p.Engine().Config().HeightUnits)
	}
	if store.saves != 0 {
		t.Error("fallback overwrote the saved layout")
	}
}

func TestOpenFallsBackOnInconsistentState(t *testing.T) {
	slots := geometry.GenerateSlots(6, rack.HalfU)
	slots[1].OccupantID = "ghost" // occupant without module
	custom := rack.Module{ID: "custom-1", Name: "Kept", HeightUnits: 1, Category: rack.CategoryGeneric}

	p, _ := openMemory(t, &state.State{
		Config:        rack.Config{HeightUnits: 6, Width: rack.Width19Inch},
		Slots:         slots,
		CustomModules: []rack.Module{custom},
	})

	if !p.Recovered() || p.Engine().Occupied() != 0 {
		t.Errorf("recovered = %v, occupied = %d", p.Recovered(), p.Engine().Occupied())
	}
	if d := p.Discarded(); len(d) != 1 || d[0].ID != "ghost" {
		t.Errorf("Discarded() = %+v, want ghost", d)
	}
	if _, err := p.Catalog().Lookup("custom-1"); err != nil {
		t.Errorf("custom library lost on slot recovery: %v", err)
	}
}

func TestOpenFallsBackOnWrongSlotCount(t *testing.T) {
	p, _ := openMemory(t, &state.State{
		Config: rack.Config{HeightUnits: 6, Width: rack.Width19Inch},
		Slots:  geometry.GenerateSlots(4, rack.HalfU),
	})

	if !p.Recovered() || len(p.Discarded()) != 0 {
		t.Errorf("recovered = %v, discarded = %+v", p.Recovered(), p.Discarded())
	}
	if got := p.Engine().Config().HeightUnits; got != rack.DefaultHeight {
		t.Errorf("height = %d, want default %d", got, rack.DefaultHeight)
	}
}

// holdLegacy marks whole-U slots as held by one instance of m.
func holdLegacy(slots []rack.Slot, id string, m rack.Module, indices ...int) {
	for _, i := range indices {
		mm := m
		slots[i].OccupantID = id
		slots[i].Module = &mm
	}
}

func TestOpenKeepsIntactPlacements(t *testing.T) {
	server := rack.Module{ID: "server-2u", Name: "Server 2U", HeightUnits: 2, Category: rack.CategoryServer}
	sw := rack.Module{ID: "switch-24", Name: "24-Port Switch", HeightUnits: 1, Category: rack.CategoryNetwork}

	// A shrink in the old app could cut a module in half.
	legacy := geometry.GenerateSlots(10, rack.WholeU)
	holdLegacy(legacy, "server-2u-cut", server, 0)
	holdLegacy(legacy, "switch-24-old", sw, 6)

	p, store := openMemory(t, &state.State{Config: rack.Config{HeightUnits: 10, Width: rack.Width19Inch}, Slots: legacy})

	if !p.Recovered() || p.FellBack() {
		t.Errorf("recovered = %v, fell back = %v; want true, false", p.Recovered(), p.FellBack())
	}
	if d := p.Discarded(); len(d) != 1 || d[0].ID != "server-2u-cut" {
		t.Errorf("Discarded() = %+v, want server-2u-cut", d)
	}
	if _, ok := p.Engine().Instance("server-2u-cut"); ok {
		t.Error("truncated instance kept")
	}
	inst, ok := p.Engine().Instance("switch-24-old")
	if !ok || inst.Anchor != 12 || inst.Span != 2 {
		t.Errorf("switch = %+v, %v; want anchor 12 span 2", inst, ok)
	}
	if got := saved(t, store).Slots[12].OccupantID; got != "switch-24-old" {
		t.Errorf("saved slot 12 = %q, want switch-24-old", got)
	}
}

func TestOpenMigratesHalfUModule(t *testing.T) {
	server := rack.Module{ID: "server-2u", Name: "Server 2U", HeightUnits: 2, Category: rack.CategoryServer}
	half := rack.Module{ID: "gen-05u", Name: "Generic 0.5U", HeightUnits: 0.5, Category: rack.CategoryGeneric}

	legacy := geometry.GenerateSlots(10, rack.WholeU)
	holdLegacy(legacy, "server-2u-old", server, 0, 1)
	holdLegacy(legacy, "gen-05u-old", half, 5)

	p, _ := openMemory(t, &state.State{Config: rack.Config{HeightUnits: 10, Width: rack.Width19Inch}, Slots: legacy})

	if p.Recovered() {
		t.Fatalf("Recovered() = true, discarded %+v", p.Discarded())
	}
	tests := []struct {
		id           string
		anchor, span int
	}{
		{"server-2u-old", 0, 4},
		{"gen-05u-old", 10, 1},
	}
	for _, tt := range tests {
		inst, ok := p.Engine().Instance(tt.id)
		if !ok || inst.Anchor != tt.anchor || inst.Span != tt.span {
			t.Errorf("%s = %+v, %v; want anchor %d span %d", tt.id, inst, ok, tt.anchor, tt.span)
		}
	}
	if got := p.Engine().Occupied(); got != 5 {
		t.Errorf("Occupied() = %d, want 5", got)
	}
}

func TestOpenSkipsInvalidCustomModules(t *testing.T) {
	good := rack.Module{ID: "custom-good", Name: "Good", HeightUnits: 1, Category: rack.CategoryGeneric}
	bad := rack.Module{ID: "custom-bad", Name: "Bad", HeightUnits: 0, Category: rack.CategoryGeneric}

	p, _ := openMemory(t, &state.State{
		Config:        rack.Config{HeightUnits: 6, Width: rack.Width19Inch},
		CustomModules: []rack.Module{bad, good},
	})

	if !p.Recovered() {
		t.Error("Recovered() = false, want true")
	}
	if _, err := p.Catalog().Lookup("custom-good"); err != nil {
		t.Errorf("valid custom module lost: %v", err)
	}
	if _, err := p.Catalog().Lookup("custom-bad"); !errors.Is(err, errors.ErrCodeModuleNotFound) {
		t.Errorf("Lookup(custom-bad) error = %v, want MODULE_NOT_FOUND", err)
	}
}

func TestOpenSettingsWithoutSlots(t *testing.T) {
	p, _ := openMemory(t, &state.State{Config: rack.Config{HeightUnits: 20, Width: rack.Width10Inch}})

	if got := p.Engine().Config(); got.HeightUnits != 20 || got.Width != rack.Width10Inch {
		t.Errorf("config = %+v", got)
	}
	if p.Engine().Len() != 40 {
		t.Errorf("Len() = %d, want 40", p.Engine().Len())
	}
}

func TestOpenMigratesLegacyLayout(t *testing.T) {
	legacy := geometry.GenerateSlots(10, rack.WholeU)
	m := rack.Module{ID: "server-2u", Name: "Server 2U", HeightUnits: 2, Category: rack.CategoryServer}
	for _, i := range []int{0, 1} {
		mm := m
		legacy[i].OccupantID = "server-2u-old"
		legacy[i].Module = &mm
	}

	p, store := openMemory(t, &state.State{Config: rack.Config{HeightUnits: 10, Width: rack.Width19Inch}, Slots: legacy})

	if p.Recovered() {
		t.Fatal("migration fell back to a fresh rack")
	}
	inst, ok := p.Engine().Instance("server-2u-old")
	if !ok || inst.Anchor != 0 || inst.Span != 4 {
		t.Errorf("migrated instance = %+v, %v", inst, ok)
	}
	if got := len(saved(t, store).Slots); got != 20 {
		t.Errorf("saved slots after migration = %d, want 20", got)
	}
}

func TestMutationsPersist(t *testing.T) {
	ctx := context.Background()
	p, store := openMemory(t, nil)

	res, err := p.Place(ctx, 0, "server-2u", "")
	if err != nil {
		t.Fatalf("Place error: %v", err)
	}
	if s := saved(t, store); s.Slots[0].OccupantID != res.InstanceID {
		t.Errorf("saved top occupant = %q, want %q", s.Slots[0].OccupantID, res.InstanceID)
	}

	if _, err := p.PlaceAt(ctx, 6, "", res.InstanceID); err != nil {
		t.Fatalf("PlaceAt move error: %v", err)
	}
	if s := saved(t, store); s.Slots[0].OccupantID != "" || s.Slots[8].OccupantID != res.InstanceID {
		t.Error("move not persisted")
	}

	if _, err := p.Resize(ctx, 12, layout.Never); err != nil {
		t.Fatalf("Resize error: %v", err)
	}
	if err := p.SetWidth(ctx, rack.Width10Inch); err != nil {
		t.Fatal(err)
	}
	if got := saved(t, store).Config; got.HeightUnits != 12 || got.Width != rack.Width10Inch {
		t.Errorf("saved config = %+v", got)
	}

	removed, err := p.Remove(ctx, res.InstanceID)
	if err != nil || !removed {
		t.Fatalf("Remove = %v, %v", removed, err)
	}
	if saved(t, store).Slots[12].OccupantID != "" {
		t.Error("remove not persisted")
	}
}

func TestRejectedMutationsDoNotSave(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{}
	p, err := Open(ctx, store, testOptions())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := p.Place(ctx, 1, "server-1u", ""); !errors.Is(err, errors.ErrCodeMisalignedPlacement) {
		t.Errorf("misaligned Place error = %v", err)
	}
	if _, err := p.Place(ctx, 0, "no-such-module", ""); !errors.Is(err, errors.ErrCodeModuleNotFound) {
		t.Errorf("unknown module error = %v", err)
	}
	if _, err := p.PlaceAt(ctx, 11, "server-1u", ""); !errors.Is(err, errors.ErrCodeOutOfBounds) {
		t.Errorf("PlaceAt(U11) error = %v", err)
	}
	if err := p.Clear(ctx, layout.Never); !errors.Is(err, errors.ErrCodeClearDeclined) {
		t.Errorf("declined Clear error = %v", err)
	}
	if removed, err := p.Remove(ctx, "nothing"); removed || err != nil {
		t.Errorf("Remove(unknown) = %v, %v", removed, err)
	}
	if changed, err := p.Resize(ctx, 10, layout.Always); changed || err != nil {
		t.Errorf("Resize(same) = %v, %v", changed, err)
	}
	if store.saves != 0 {
		t.Errorf("rejected operations saved %d time(s)", store.saves)
	}
}

func TestSaveErrorSurfaces(t *testing.T) {
	ctx := context.Background()
	p, _ := Open(ctx, &failingStore{saveErr: fmt.Errorf("read-only")}, testOptions())

	if _, err := p.Place(ctx, 0, "server-1u", ""); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("Place with failing save error = %v, want INTERNAL_ERROR", err)
	}
}

func TestSaveErrorRollsBack(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore(nil)
	p, err := Open(ctx, store, testOptions())
	if err != nil {
		t.Fatal(err)
	}
	res, err := p.Place(ctx, 0, "server-1u", "")
	if err != nil {
		t.Fatal(err)
	}
	mod, err := p.CreateModule(ctx, "Box", 1, rack.CategoryGeneric, "", "")
	if err != nil {
		t.Fatal(err)
	}

	// Reopen the same layout over a store that refuses writes.
	broken := &readOnlyStore{State: saved(t, store)}
	p, err = Open(ctx, broken, testOptions())
	if err != nil {
		t.Fatal(err)
	}

	renamed := "Renamed"
	ops := []struct {
		name string
		run  func() error
	}{
		{"place", func() error { _, err := p.Place(ctx, 4, "server-2u", ""); return err }},
		{"move", func() error { _, err := p.Place(ctx, 8, "", res.InstanceID); return err }},
		{"remove", func() error { _, err := p.Remove(ctx, res.InstanceID); return err }},
		{"resize", func() error { _, err := p.Resize(ctx, 4, layout.Always); return err }},
		{"width", func() error { return p.SetWidth(ctx, rack.Width10Inch) }},
		{"clear", func() error { return p.Clear(ctx, layout.Always) }},
		{"create module", func() error { _, err := p.CreateModule(ctx, "Other", 1, rack.CategoryGeneric, "", ""); return err }},
		{"edit module", func() error { _, err := p.EditModule(ctx, mod.ID, rack.ModulePatch{Name: &renamed}); return err }},
		{"delete module", func() error { return p.DeleteModule(ctx, mod.ID) }},
	}
	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			if err := op.run(); !errors.Is(err, errors.ErrCodeInternal) {
				t.Fatalf("error = %v, want INTERNAL_ERROR", err)
			}
			got := p.Snapshot()
			if got.Config != broken.State.Config {
				t.Errorf("config = %+v, want %+v", got.Config, broken.State.Config)
			}
			if n := p.Engine().Occupied(); n != 2 {
				t.Errorf("Occupied() = %d, want 2", n)
			}
			if inst, ok := p.Engine().Instance(res.InstanceID); !ok || inst.Anchor != 0 {
				t.Errorf("instance = %+v, %v; want anchor 0", inst, ok)
			}
			if m, ok := p.Catalog().Library().Get(mod.ID); !ok || m.Name != "Box" || p.Catalog().Library().Len() != 1 {
				t.Errorf("library = %+v", p.Catalog().Library().All())
			}
		})
	}
}

// readOnlyStore loads a fixed layout and rejects every save.
type readOnlyStore struct {
	State *state.State
}

func (r *readOnlyStore) Load(context.Context) (*state.State, error) { return r.State.Clone(), nil }
func (r *readOnlyStore) Save(context.Context, *state.State) error {
	return fmt.Errorf("read-only")
}
func (r *readOnlyStore) Close() error { return nil }

func TestCheck(t *testing.T) {
	ctx := context.Background()
	p, _ := openMemory(t, nil)
	res, _ := p.Place(ctx, 0, "server-1u", "")

	if err := p.Check(0, "server-1u", ""); !errors.Is(err, errors.ErrCodeSpaceOccupied) {
		t.Errorf("Check occupied = %v", err)
	}
	if err := p.Check(0, "", res.InstanceID); err != nil {
		t.Errorf("Check self = %v", err)
	}
	if err := p.Check(0, "", "ghost"); !errors.Is(err, errors.ErrCodeInstanceNotFound) {
		t.Errorf("Check ghost = %v", err)
	}
}

func TestTargets(t *testing.T) {
	ctx := context.Background()
	p, _ := openMemory(t, nil)
	res, _ := p.Place(ctx, 0, "server-4u", "")

	m, got, err := p.Targets("server-4u", "")
	if err != nil {
		t.Fatalf("Targets error: %v", err)
	}
	if m.ID != "server-4u" || fmt.Sprint(got) != "[8 10 12]" {
		t.Errorf("Targets = %s %v, want server-4u [8 10 12]", m.ID, got)
	}

	if _, got, _ := p.Targets("", res.InstanceID); fmt.Sprint(got) != "[0 2 4 6 8 10 12]" {
		t.Errorf("Targets moving = %v", got)
	}
	if _, _, err := p.Targets("toaster", ""); !errors.Is(err, errors.ErrCodeModuleNotFound) {
		t.Errorf("Targets unknown = %v", err)
	}
}

func TestCustomModuleLifecycle(t *testing.T) {
	ctx := context.Background()
	p, store := openMemory(t, nil)

	m, err := p.CreateModule(ctx, "Lab Box", 2, rack.CategoryServer, "", "")
	if err != nil {
		t.Fatalf("CreateModule error: %v", err)
	}
	a, _ := p.Place(ctx, 0, m.ID, "")
	b, _ := p.Place(ctx, 8, m.ID, "")

	name := "Lab Box v2"
	n, err := p.EditModule(ctx, m.ID, rack.ModulePatch{Name: &name})
	if err != nil || n != 2 {
		t.Fatalf("EditModule = %d, %v; want 2, nil", n, err)
	}
	for _, id := range []string{a.InstanceID, b.InstanceID} {
		if inst, _ := p.Engine().Instance(id); inst.Module.Name != name {
			t.Errorf("instance %s name = %q", id, inst.Module.Name)
		}
	}
	if got, _ := p.Catalog().Lookup(m.ID); got.Name != name {
		t.Errorf("library name = %q", got.Name)
	}

	height := 1.0
	if _, err := p.EditModule(ctx, m.ID, rack.ModulePatch{HeightUnits: &height}); !errors.Is(err, errors.ErrCodeModuleInUse) {
		t.Errorf("height edit error = %v, want MODULE_IN_USE", err)
	}
	if got, _ := p.Catalog().Lookup(m.ID); got.HeightUnits != 2 {
		t.Error("rejected height edit reached the library")
	}

	if _, err := p.EditModule(ctx, "server-1u", rack.ModulePatch{Name: &name}); !errors.Is(err, errors.ErrCodeInvalidModule) {
		t.Errorf("edit builtin error = %v", err)
	}
	if _, err := p.EditModule(ctx, "custom-zzz", rack.ModulePatch{Name: &name}); !errors.Is(err, errors.ErrCodeModuleNotFound) {
		t.Errorf("edit unknown error = %v", err)
	}

	if err := p.DeleteModule(ctx, m.ID); err != nil {
		t.Fatalf("DeleteModule error: %v", err)
	}
	if p.Engine().Placements(m.ID) != 2 {
		t.Error("deleting a custom module removed its placements")
	}
	if s := saved(t, store); len(s.CustomModules) != 0 {
		t.Errorf("saved library = %v, want empty", s.CustomModules)
	}
}

func TestReopenRestoresSession(t *testing.T) {
	ctx := context.Background()
	p, store := openMemory(t, nil)
	m, _ := p.CreateModule(ctx, "Edge", 1, rack.CategoryNetwork, "bg-red-700", "")
	res, _ := p.Place(ctx, 4, m.ID, "")

	again, err := Open(ctx, store, testOptions())
	if err != nil {
		t.Fatal(err)
	}
	inst, ok := again.Engine().Instance(res.InstanceID)
	if !ok || inst.Anchor != 4 || inst.Module.Color != "bg-red-700" {
		t.Errorf("reopened instance = %+v, %v", inst, ok)
	}
	if _, err := again.Catalog().Lookup(m.ID); err != nil {
		t.Errorf("custom module lost: %v", err)
	}
}

func TestReplace(t *testing.T) {
	ctx := context.Background()
	p, _ := openMemory(t, nil)
	p.Place(ctx, 0, "server-1u", "")

	other, _ := openMemory(t, nil)
	other.Resize(ctx, 20, layout.Never)
	other.Place(ctx, 2, "server-4u", "")

	if err := p.Replace(ctx, other.Snapshot()); err != nil {
		t.Fatalf("Replace error: %v", err)
	}
	if p.Engine().Config().HeightUnits != 20 || len(p.Engine().Instances()) != 1 {
		t.Errorf("replaced engine = %+v, %d instances", p.Engine().Config(), len(p.Engine().Instances()))
	}

	bad := other.Snapshot()
	bad.Slots = bad.Slots[:5]
	if err := p.Replace(ctx, bad); !errors.Is(err, errors.ErrCodeInvalidState) {
		t.Errorf("Replace(bad) error = %v, want INVALID_STATE", err)
	}
	if p.Engine().Config().HeightUnits != 20 {
		t.Error("failed Replace changed the engine")
	}
}
