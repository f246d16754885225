// Package layout owns the authoritative slot sequence of a rack and is the
// only place it is mutated.
//
// An [Engine] holds the ordered slots (index 0 = top of the rack) together
// with a table of placed instances. Slots only store occupant ids; the
// module each instance shows lives once in the instance table, and
// [Engine.Slots] produces the denormalized per-slot view that persistence
// and renderers consume.
//
// # Placement Convention
//
// A placement target index is the TOPMOST slot the module will occupy. The
// module extends downward (increasing index) for Span slots. The same
// convention is used by [Engine.Check] (live drag feedback) and
// [Engine.Place] (commit).
//
// # Rules
//
// In order, a placement must satisfy:
//
//  1. Alignment (half-U racks): modules of 1U or more start on an even index.
//  2. Boundary: the module does not extend below the floor.
//  3. Collision: every covered slot is empty or held by the instance being moved.
//
// Violations are reported as MISALIGNED_PLACEMENT, OUT_OF_BOUNDS and
// SPACE_OCCUPIED errors from [github.com/matzehuels/racktower/pkg/errors].
//
// # Atomicity
//
// Every mutating operation either commits completely or returns an error and
// leaves the engine untouched. Destructive operations (shrinking past placed
// instances, clearing) ask a [ConfirmFunc] first; a nil or declining
// callback aborts them.
//
// The engine is not safe for concurrent use. Check and CanPlace are pure
// reads and may be called freely between mutations.
package layout
