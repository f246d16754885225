package catalog

import "github.com/matzehuels/racktower/pkg/rack"

func hidden() *bool {
	v := false
	return &v
}

func mod(id, name string, u float64, c rack.Category, color string, showName *bool) rack.Module {
	return rack.Module{ID: id, Name: name, HeightUnits: u, Category: c, Color: color, ShowName: showName}
}

var builtin = []rack.Module{
	mod("gen-05u", "Generic 0.5U", 0.5, rack.CategoryGeneric, "bg-gray-700", nil),
	mod("gen-1u", "Generic 1U", 1, rack.CategoryGeneric, "bg-gray-700", nil),
	mod("gen-2u", "Generic 2U", 2, rack.CategoryGeneric, "bg-gray-700", nil),
	mod("gen-3u", "Generic 3U", 3, rack.CategoryGeneric, "bg-gray-700", nil),
	mod("gen-4u", "Generic 4U", 4, rack.CategoryGeneric, "bg-gray-700", nil),

	mod("server-1u", "Server 1U", 1, rack.CategoryServer, "bg-indigo-950", nil),
	mod("server-2u", "Server 2U", 2, rack.CategoryServer, "bg-indigo-950", nil),
	mod("server-3u", "Server 3U", 3, rack.CategoryServer, "bg-indigo-950", nil),
	mod("server-4u", "Server 4U", 4, rack.CategoryServer, "bg-indigo-950", nil),

	mod("nas-1u-35", `1U 3.5" HDD Bay`, 1, rack.CategoryStorage, "bg-gray-800", hidden()),
	mod("nas-2u-35", `2U 3.5" HDD Bay`, 2, rack.CategoryStorage, "bg-gray-800", hidden()),
	mod("nas-2u-25", `2U 2.5" SSD Bay`, 2, rack.CategoryStorage, "bg-gray-800", hidden()),

	mod("switch-48", "48-Port Switch", 1, rack.CategoryNetwork, "bg-cyan-950", hidden()),
	mod("switch-24", "24-Port Switch", 1, rack.CategoryNetwork, "bg-cyan-950", hidden()),
	mod("switch-16", "16-Port Switch", 1, rack.CategoryNetwork, "bg-cyan-950", hidden()),
	mod("switch-8", "8-Port Switch", 1, rack.CategoryNetwork, "bg-cyan-950", hidden()),
	mod("switch-5", "5-Port Switch", 1, rack.CategoryNetwork, "bg-cyan-950", hidden()),

	mod("pdu-1u", "PDU 1U", 1, rack.CategoryPower, "bg-gray-800", hidden()),
	mod("ups-1u", "UPS 1U", 1, rack.CategoryPower, "bg-gray-800", hidden()),

	mod("patch-panel-05u", "Patch Panel 0.5U", 0.5, rack.CategoryAccessory, "bg-neutral-900", hidden()),
	mod("patch-panel-1u", "Patch Panel 1U", 1, rack.CategoryAccessory, "bg-neutral-900", hidden()),
	mod("cable-man-1u", "Cable Management", 1, rack.CategoryAccessory, "bg-neutral-800", nil),
	mod("vent-1u", "1U Vent", 1, rack.CategoryAccessory, "bg-slate-700", nil),
	mod("vent-2u", "2U Vent", 2, rack.CategoryAccessory, "bg-slate-700", nil),
	mod("vent-3u", "3U Vent", 3, rack.CategoryAccessory, "bg-slate-700", nil),
	mod("shelf-05u", "Shelf 0.5U", 0.5, rack.CategoryAccessory, "bg-slate-800", nil),
	mod("shelf-1u", "Shelf 1U", 1, rack.CategoryAccessory, "bg-slate-800", nil),
	mod("rpi-mount", "1U Raspberry Pi Mount", 1, rack.CategoryAccessory, "bg-slate-900", hidden()),
	mod("rpi-mount-2u", "2U Raspberry Pi Mount", 2, rack.CategoryAccessory, "bg-slate-900", hidden()),
}

// Builtin returns a copy of the built-in module list in display order.
func Builtin() []rack.Module {
	out := make([]rack.Module, len(builtin))
	for i, m := range builtin {
		out[i] = clone(m)
	}
	return out
}

func clone(m rack.Module) rack.Module {
	if m.ShowName != nil {
		v := *m.ShowName
		m.ShowName = &v
	}
	return m
}
