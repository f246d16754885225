// Package rack defines the data model shared by every racktower component.
//
// A rack is an ordered sequence of [Slot] values, index 0 being the topmost
// physical position. Each slot is one resolution step tall ([HalfU] or
// [WholeU]) and is labeled with a descending U number, so U1 is always the
// bottom of the rack. A placed module instance is the set of contiguous
// slots sharing one occupant id.
//
// # Core Types
//
//   - [Module]: an immutable catalog record (built-in or custom)
//   - [Slot]: one addressable cell of rack height
//   - [Config]: rack height in whole U plus the [WidthClass]
//   - [Resolution]: the height of a single slot
//
// Slot generation lives in [github.com/matzehuels/racktower/pkg/rack/geometry];
// all mutation goes through [github.com/matzehuels/racktower/pkg/rack/layout].
//
// # Serialization
//
// JSON field names are the persisted layout:
//
//	{"heightUnits": 10, "widthClass": "19inch"}
//	{"uPosition": 10, "occupantId": "server-1u-0a1b2c3d", "module": {...}}
//
// Decoders also accept the field names written by earlier versions of the
// tool (heightU, widthStandard, moduleId, uSize, type, image).
package rack
