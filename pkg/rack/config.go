package rack

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/racktower/pkg/errors"
)

// Rack height bounds, in whole U.
const (
	MinHeight     = 4
	MaxHeight     = 52
	DefaultHeight = 10
)

// WidthClass is the physical rack standard. It only changes per-category
// faceplate capacity, never the slot model.
type WidthClass string

// Supported width classes.
const (
	Width19Inch WidthClass = "19inch"
	Width10Inch WidthClass = "10inch"
)

// Valid reports whether w is a supported width class.
func (w WidthClass) Valid() bool {
	return w == Width19Inch || w == Width10Inch
}

// ParseWidth accepts "19inch", "19", "10inch" or "10".
func ParseWidth(s string) (WidthClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "19inch", "19", `19"`:
		return Width19Inch, nil
	case "10inch", "10", `10"`:
		return Width10Inch, nil
	}
	return "", errors.New(errors.ErrCodeInvalidWidth, "unknown rack width %q (want 19inch or 10inch)", s)
}

// Resolution is the height of one slot in U.
type Resolution float64

// Supported resolutions.
const (
	HalfU  Resolution = 0.5
	WholeU Resolution = 1
)

// Valid reports whether r is a supported resolution.
func (r Resolution) Valid() bool { return r == HalfU || r == WholeU }

// String returns "half" or "whole".
func (r Resolution) String() string {
	if r == WholeU {
		return "whole"
	}
	return "half"
}

// ParseResolution accepts "half", "0.5", "whole" or "1".
func ParseResolution(s string) (Resolution, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "half", "0.5", "half-u":
		return HalfU, nil
	case "whole", "1", "whole-u":
		return WholeU, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown resolution %q (want half or whole)", s)
}

// Config is the persisted rack configuration.
type Config struct {
	HeightUnits int        `json:"heightUnits" toml:"height_units"`
	Width       WidthClass `json:"widthClass" toml:"width"`
}

// DefaultConfig returns a 10U, 19-inch rack.
func DefaultConfig() Config {
	return Config{HeightUnits: DefaultHeight, Width: Width19Inch}
}

// Validate checks the height bounds and width class.
func (c Config) Validate() error {
	if err := ValidateHeight(c.HeightUnits); err != nil {
		return err
	}
	if !c.Width.Valid() {
		return errors.New(errors.ErrCodeInvalidWidth, "unknown rack width %q", c.Width)
	}
	return nil
}

// UnmarshalJSON accepts the legacy heightU/widthStandard names. A missing
// width defaults to 19 inch.
func (c *Config) UnmarshalJSON(data []byte) error {
	type plain Config
	var raw struct {
		plain
		HeightU       *int       `json:"heightU"`
		WidthStandard WidthClass `json:"widthStandard"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = Config(raw.plain)
	if c.HeightUnits == 0 && raw.HeightU != nil {
		c.HeightUnits = *raw.HeightU
	}
	if c.Width == "" {
		c.Width = raw.WidthStandard
	}
	if c.Width == "" {
		c.Width = Width19Inch
	}
	return nil
}

// ValidateHeight rejects heights outside [MinHeight, MaxHeight].
func ValidateHeight(h int) error {
	if h < MinHeight || h > MaxHeight {
		return errors.New(errors.ErrCodeInvalidHeight, "rack height must be between %dU and %dU, got %dU", MinHeight, MaxHeight, h)
	}
	return nil
}

// ParseHeight converts user input into a rack height. Anything that is not
// a whole number inside the bounds is INVALID_HEIGHT.
func ParseHeight(s string) (int, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "U"), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New(errors.ErrCodeInvalidHeight, "rack height %q is not a number", s)
	}
	if v != math.Trunc(v) {
		return 0, errors.New(errors.ErrCodeInvalidHeight, "rack height must be a whole number of units, got %v", v)
	}
	h := int(v)
	if err := ValidateHeight(h); err != nil {
		return 0, err
	}
	return h, nil
}
