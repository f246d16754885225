// Package catalog lists the modules a user can drop into a rack.
//
// The catalog has two parts: the built-in list shipped with racktower and a
// user-managed [Library] of custom modules. [Catalog] joins them for lookup
// by id; custom ids always carry the "custom-" prefix so the two namespaces
// never collide.
//
// [Capacity] answers the width-dependent questions renderers ask about a
// module's faceplate, such as how many outlets a PDU shows in a 10-inch rack.
package catalog
