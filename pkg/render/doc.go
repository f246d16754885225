// Package render groups the rack visualizations.
//
// The [elevation] subpackage draws the front view of a rack from the
// layout engine's slot sequence, either as a styled terminal diagram or
// as Graphviz-rendered SVG. Renderers only read layout state.
//
// [elevation]: github.com/matzehuels/racktower/pkg/render/elevation
package render
