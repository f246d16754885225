package rack

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/racktower/pkg/errors"
)

// Category classifies a module for grouping and faceplate rendering.
type Category string

// Module categories.
const (
	CategoryServer    Category = "server"
	CategoryStorage   Category = "storage"
	CategoryNetwork   Category = "network"
	CategoryPower     Category = "power"
	CategoryAccessory Category = "accessory"
	CategoryGeneric   Category = "generic"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryServer,
	CategoryStorage,
	CategoryNetwork,
	CategoryPower,
	CategoryAccessory,
	CategoryGeneric,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory normalizes s into a Category. The legacy spelling
// "networking" maps to [CategoryNetwork].
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c == "networking" {
		c = CategoryNetwork
	}
	if !c.Valid() {
		return "", errors.New(errors.ErrCodeInvalidModule, "unknown category %q", s)
	}
	return c, nil
}

// CustomPrefix marks ids of user-defined modules.
const CustomPrefix = "custom-"

// IsCustomID reports whether id belongs to a user-defined module.
func IsCustomID(id string) bool {
	return strings.HasPrefix(id, CustomPrefix)
}

// Module is a catalog entry. Modules are values: editing one produces a new
// Module via [Module.Apply].
type Module struct {
	ID             string   `json:"id" toml:"id"`
	Name           string   `json:"name" toml:"name"`
	HeightUnits    float64  `json:"heightUnits" toml:"height_units"`
	Category       Category `json:"category" toml:"category"`
	Color          string   `json:"color,omitempty" toml:"color,omitempty"`
	FaceplateImage string   `json:"faceplateImage,omitempty" toml:"faceplate_image,omitempty"`
	ShowName       *bool    `json:"showName,omitempty" toml:"show_name,omitempty"`
}

// Validate checks the fields every placement relies on.
func (m Module) Validate() error {
	if err := errors.ValidateIdentifier("module id", m.ID); err != nil {
		return err
	}
	if err := errors.ValidateModuleName(m.Name); err != nil {
		return err
	}
	if err := errors.ValidateHalfUnits(m.HeightUnits); err != nil {
		return err
	}
	if !m.Category.Valid() {
		return errors.New(errors.ErrCodeInvalidModule, "unknown category %q", m.Category)
	}
	return nil
}

// NameVisible reports whether renderers should print the module name on
// its faceplate. Unset means visible.
func (m Module) NameVisible() bool {
	return m.ShowName == nil || *m.ShowName
}

// IsCustom reports whether m is a user-defined module.
func (m Module) IsCustom() bool { return IsCustomID(m.ID) }

// ModulePatch lists the editable fields of a module. Nil fields are left
// unchanged.
type ModulePatch struct {
	Name           *string   `json:"name,omitempty"`
	HeightUnits    *float64  `json:"heightUnits,omitempty"`
	Category       *Category `json:"category,omitempty"`
	Color          *string   `json:"color,omitempty"`
	FaceplateImage *string   `json:"faceplateImage,omitempty"`
	ShowName       *bool     `json:"showName,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ModulePatch) Empty() bool {
	return p.Name == nil && p.HeightUnits == nil && p.Category == nil &&
		p.Color == nil && p.FaceplateImage == nil && p.ShowName == nil
}

// ChangesHeight reports whether applying p to m would change its height.
func (p ModulePatch) ChangesHeight(m Module) bool {
	return p.HeightUnits != nil && *p.HeightUnits != m.HeightUnits
}

// Apply returns a copy of m with the patch applied. The id never changes.
func (m Module) Apply(p ModulePatch) Module {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.HeightUnits != nil {
		m.HeightUnits = *p.HeightUnits
	}
	if p.Category != nil {
		m.Category = *p.Category
	}
	if p.Color != nil {
		m.Color = *p.Color
	}
	if p.FaceplateImage != nil {
		m.FaceplateImage = *p.FaceplateImage
	}
	if p.ShowName != nil {
		v := *p.ShowName
		m.ShowName = &v
	}
	return m
}

// UnmarshalJSON accepts both the current field names and the legacy
// uSize/type/image names.
func (m *Module) UnmarshalJSON(data []byte) error {
	type plain Module
	var raw struct {
		plain
		USize *float64 `json:"uSize"`
		Type  string   `json:"type"`
		Image string   `json:"image"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*m = Module(raw.plain)
	if m.HeightUnits == 0 && raw.USize != nil {
		m.HeightUnits = *raw.USize
	}
	if m.Category == "" && raw.Type != "" {
		m.Category = Category(raw.Type)
	}
	if m.Category == "networking" {
		m.Category = CategoryNetwork
	}
	if m.FaceplateImage == "" {
		m.FaceplateImage = raw.Image
	}
	return nil
}
