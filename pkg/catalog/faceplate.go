package catalog

import "github.com/matzehuels/racktower/pkg/rack"

// Feature names the repeated element drawn on a faceplate.
type Feature string

// Faceplate features.
const (
	FeatureNone    Feature = ""
	FeatureFans    Feature = "fans"
	FeatureBays    Feature = "bays"
	FeatureCaddies Feature = "caddies"
	FeaturePorts   Feature = "ports"
	FeatureOutlets Feature = "outlets"
	FeatureMounts  Feature = "mounts"
)

// Faceplate describes how many repeated elements a module shows at a given
// rack width, laid out as Rows rows of PerRow.
type Faceplate struct {
	Feature Feature `json:"feature,omitempty"`
	Rows    int     `json:"rows,omitempty"`
	PerRow  int     `json:"perRow,omitempty"`
}

// Total returns Rows*PerRow.
func (f Faceplate) Total() int { return f.Rows * f.PerRow }

// Capacity returns the faceplate layout of a built-in module at width w.
// Custom modules and modules without repeated elements return the zero
// Faceplate.
func Capacity(m rack.Module, w rack.WidthClass) Faceplate {
	narrow := w == rack.Width10Inch
	pick := func(wide, small int) int {
		if narrow {
			return small
		}
		return wide
	}

	switch m.ID {
	case "server-1u":
		return Faceplate{FeatureFans, 1, pick(8, 4)}
	case "server-2u":
		return Faceplate{FeatureFans, 1, pick(4, 2)}
	case "nas-1u-35":
		return Faceplate{FeatureBays, 1, pick(4, 2)}
	case "nas-2u-35":
		return Faceplate{FeatureBays, 3, pick(4, 2)}
	case "nas-2u-25":
		return Faceplate{FeatureCaddies, 1, pick(20, 10)}
	case "switch-48":
		return Faceplate{FeaturePorts, 2, pick(24, 12)}
	case "switch-24":
		return Faceplate{FeaturePorts, 2, 12}
	case "switch-16":
		return Faceplate{FeaturePorts, 2, 8}
	case "switch-8":
		return Faceplate{FeaturePorts, 1, 8}
	case "switch-5":
		return Faceplate{FeaturePorts, 1, 5}
	case "patch-panel-05u", "patch-panel-1u":
		return Faceplate{FeaturePorts, 1, pick(24, 12)}
	case "pdu-1u":
		return Faceplate{FeatureOutlets, 1, pick(10, 4)}
	case "rpi-mount", "rpi-mount-2u":
		return Faceplate{FeatureMounts, 1, 4}
	}
	return Faceplate{}
}
