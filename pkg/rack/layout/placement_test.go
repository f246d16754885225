package layout

import (
	"reflect"
	"testing"

	"github.com/matzehuels/racktower/pkg/errors"
	"github.com/matzehuels/racktower/pkg/rack"
)

func TestCheck(t *testing.T) {
	e := newTestEngine(t, 4) // 8 half-U slots
	occupant := mustPlace(t, e, 6, server1U)

	tests := []struct {
		name   string
		target int
		m      rack.Module
		moving string
		want   errors.Code
	}{
		{"4U fills rack exactly", 0, server4U, occupant, ""},
		{"4U at index 2 overflows", 2, server4U, "", errors.ErrCodeOutOfBounds},
		{"whole-U module at odd index", 1, server1U, "", errors.ErrCodeMisalignedPlacement},
		{"half-U module at odd index", 5, shelfHalf, "", ""},
		{"negative target", -1, shelfHalf, "", errors.ErrCodeOutOfBounds},
		{"target past floor", 8, shelfHalf, "", errors.ErrCodeOutOfBounds},
		{"collision", 4, server2U, "", errors.ErrCodeSpaceOccupied},
		{"self overlap while moving", 4, server2U, occupant, ""},
		{"invalid module", 0, rack.Module{ID: "x", Name: "x", HeightUnits: 0.3, Category: rack.CategoryGeneric}, "", errors.ErrCodeInvalidModule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.Check(tt.target, tt.m, tt.moving)
			if got := errors.GetCode(err); got != tt.want {
				t.Errorf("Check() code = %q, want %q (err %v)", got, tt.want, err)
			}
			if e.CanPlace(tt.target, tt.m, tt.moving) != (tt.want == "") {
				t.Errorf("CanPlace() disagrees with Check()")
			}
		})
	}
}

func TestCheckIsPure(t *testing.T) {
	e := newTestEngine(t, 10)
	mustPlace(t, e, 0, server2U)
	before := e.Slots()

	for i := -2; i < e.Len()+2; i++ {
		e.CanPlace(i, server1U, "")
		e.CanPlace(i, shelfHalf, "")
	}

	if !reflect.DeepEqual(before, e.Slots()) {
		t.Error("CanPlace mutated the slot sequence")
	}
}

func TestBoundaryScenario(t *testing.T) {
	e := newTestEngine(t, 4)
	if e.Len() != 8 {
		t.Fatalf("Len() = %d, want 8", e.Len())
	}

	if _, err := e.Place(2, server4U, ""); !errors.Is(err, errors.ErrCodeOutOfBounds) {
		t.Errorf("Place(2, 4U) error = %v, want OUT_OF_BOUNDS", err)
	}
	if e.Occupied() != 0 {
		t.Errorf("failed Place left %d occupied slots", e.Occupied())
	}

	res, err := e.Place(0, server4U, "")
	if err != nil {
		t.Fatalf("Place(0, 4U) error: %v", err)
	}
	if res.Span != 8 || res.Anchor != 0 {
		t.Errorf("CommitResult = anchor %d span %d, want 0/8", res.Anchor, res.Span)
	}
	for i, s := range res.Slots {
		if s.OccupantID != res.InstanceID {
			t.Errorf("slot %d occupant = %q, want %q", i, s.OccupantID, res.InstanceID)
		}
	}
	assertValid(t, e)
}

func TestPlaceAssignsUniqueIDs(t *testing.T) {
	e := newTestEngine(t, 10, WithIDGenerator(func() string { return "same" }))

	a := mustPlace(t, e, 0, server1U)
	b := mustPlace(t, e, 2, server1U)
	c := mustPlace(t, e, 4, server1U)

	if a != "server-1u-same" {
		t.Errorf("first id = %q, want server-1u-same", a)
	}
	if a == b || b == c || a == c {
		t.Errorf("ids not unique: %s %s %s", a, b, c)
	}
	assertValid(t, e)
}

func TestPlaceDefaultIDs(t *testing.T) {
	e, err := New(rack.DefaultConfig())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	res, err := e.Place(0, server1U, "")
	if err != nil {
		t.Fatalf("Place error: %v", err)
	}
	if len(res.InstanceID) != len("server-1u-")+8 {
		t.Errorf("InstanceID = %q, want server-1u-<8 chars>", res.InstanceID)
	}
}

func TestMoveScenario(t *testing.T) {
	e := newTestEngine(t, 10, WithResolution(rack.WholeU))
	id := mustPlace(t, e, 0, server2U)

	res, err := e.Place(4, server2U, id)
	if err != nil {
		t.Fatalf("move error: %v", err)
	}
	if res.InstanceID != id || !res.Moved {
		t.Errorf("move result = %+v, want same id and Moved", res)
	}

	slots := e.Slots()
	for _, i := range []int{0, 1} {
		if !slots[i].Empty() || slots[i].Module != nil {
			t.Errorf("slot %d not cleared after move", i)
		}
	}
	for _, i := range []int{4, 5} {
		if slots[i].OccupantID != id {
			t.Errorf("slot %d occupant = %q, want %q", i, slots[i].OccupantID, id)
		}
	}
	assertValid(t, e)
}

func TestMoveOverlappingSelf(t *testing.T) {
	e := newTestEngine(t, 10)
	id := mustPlace(t, e, 0, server2U) // slots 0-3

	if _, err := e.Place(2, server2U, id); err != nil {
		t.Fatalf("overlapping move error: %v", err)
	}

	inst, _ := e.Instance(id)
	if inst.Anchor != 2 || inst.Span != 4 {
		t.Errorf("instance = anchor %d span %d, want 2/4", inst.Anchor, inst.Span)
	}
	if !e.Slots()[0].Empty() || !e.Slots()[1].Empty() {
		t.Error("old top slots still occupied")
	}
	assertValid(t, e)
}

func TestMoveRejectedLeavesStateIntact(t *testing.T) {
	e := newTestEngine(t, 10)
	id := mustPlace(t, e, 0, server2U)
	other := mustPlace(t, e, 8, server1U)
	before := e.Slots()

	if _, err := e.Place(6, server2U, id); !errors.Is(err, errors.ErrCodeSpaceOccupied) {
		t.Errorf("move into %s error = %v, want SPACE_OCCUPIED", other, err)
	}
	if _, err := e.Place(4, server2U, "missing"); !errors.Is(err, errors.ErrCodeInstanceNotFound) {
		t.Errorf("move unknown id error = %v, want INSTANCE_NOT_FOUND", err)
	}
	if !reflect.DeepEqual(before, e.Slots()) {
		t.Error("rejected move mutated the rack")
	}
}

func TestPlaceRemoveRoundTrip(t *testing.T) {
	e := newTestEngine(t, 10)
	mustPlace(t, e, 0, server1U)
	before := e.Slots()

	id := mustPlace(t, e, 4, server2U)
	if !e.Remove(id) {
		t.Fatal("Remove() = false for placed instance")
	}

	if !reflect.DeepEqual(before, e.Slots()) {
		t.Error("place+remove did not restore the slot sequence")
	}
	assertValid(t, e)
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	e := newTestEngine(t, 10)
	mustPlace(t, e, 0, server1U)
	before := e.Slots()

	if e.Remove("nope") || e.Remove("") {
		t.Error("Remove() = true for unknown id")
	}
	if !reflect.DeepEqual(before, e.Slots()) {
		t.Error("Remove of unknown id mutated the rack")
	}
}

func TestWholeURejectsFractionalModules(t *testing.T) {
	e := newTestEngine(t, 10, WithResolution(rack.WholeU))

	if err := e.Check(0, shelfHalf, ""); !errors.Is(err, errors.ErrCodeInvalidModule) {
		t.Errorf("Check(0.5U) in whole-U rack = %v, want INVALID_MODULE", err)
	}
	if err := e.Check(3, server1U, ""); err != nil {
		t.Errorf("Check(1U at odd index) in whole-U rack = %v, want nil", err)
	}
}

func TestTargets(t *testing.T) {
	e := newTestEngine(t, 4)
	mustPlace(t, e, 0, server1U) // slots 0-1

	got := e.Targets(server2U, "")
	want := []int{2, 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Targets(2U) = %v, want %v", got, want)
	}

	got = e.Targets(shelfHalf, "")
	want = []int{2, 3, 4, 5, 6, 7}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Targets(0.5U) = %v, want %v", got, want)
	}
}
