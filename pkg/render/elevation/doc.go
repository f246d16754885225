// Package elevation draws a rack's front elevation.
//
// Renderers consume the slot sequence produced by the layout engine and
// never change it. Two outputs are provided:
//
//   - [Text]: a terminal diagram styled with lipgloss, one line per slot
//   - [ToDOT] and [RenderSVG]: a Graphviz HTML-table diagram where each
//     module is a single cell spanning its slots, rendered in-process with
//     go-graphviz
//
// Both size rows by the slot's resolution step so a 2U server is twice as
// tall as a 1U switch, and both label rows with their U position.
package elevation
