// Package io imports and exports rack layouts.
//
// # JSON
//
// The JSON format is the persisted [state.State] itself: rack settings, the
// full slot sequence and the custom module library. [WriteJSON] and
// [ReadJSON] round-trip a layout exactly, and ReadJSON accepts the same
// legacy field names and comments the state file does.
//
// # TOML plans
//
// A plan is a hand-editable description of a rack that lists placements by
// the U label of each module's top edge instead of spelling out every slot:
//
//	[rack]
//	height = 12
//	width = "19inch"
//
//	[[module]]
//	id = "custom-7f3a9c21"
//	name = "Lab Router"
//	height_units = 1.0
//	category = "network"
//
//	[[placement]]
//	module = "server-2u"
//	top = 12.0
//
//	[[placement]]
//	instance = "custom-7f3a9c21-edge"
//	module = "custom-7f3a9c21"
//	top = 9.0
//
// [ReadTOML] replays the placements in order onto an empty rack through the
// layout engine, so a plan with overlapping or misaligned modules is
// rejected with the same error the engine would report for a manual drop.
// Instance ids are kept when they start with their module id.
package io
