package rack

import "encoding/json"

// Slot is one resolution-step cell of the rack. An empty OccupantID means
// the slot is free; Module is set exactly when OccupantID is.
type Slot struct {
	UPosition  float64 `json:"uPosition"`
	OccupantID string  `json:"occupantId"`
	Module     *Module `json:"module,omitempty"`
}

// Empty reports whether the slot holds no instance.
func (s Slot) Empty() bool { return s.OccupantID == "" }

// Clear returns s with its occupant removed.
func (s Slot) Clear() Slot {
	return Slot{UPosition: s.UPosition}
}

type slotJSON struct {
	UPosition  float64 `json:"uPosition"`
	OccupantID *string `json:"occupantId"`
	Module     *Module `json:"module,omitempty"`
}

// MarshalJSON writes an empty occupant as null.
func (s Slot) MarshalJSON() ([]byte, error) {
	out := slotJSON{UPosition: s.UPosition, Module: s.Module}
	if s.OccupantID != "" {
		id := s.OccupantID
		out.OccupantID = &id
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts occupantId as null or string, and the legacy
// moduleId field.
func (s *Slot) UnmarshalJSON(data []byte) error {
	var raw struct {
		slotJSON
		ModuleID *string `json:"moduleId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Slot{UPosition: raw.UPosition, Module: raw.Module}
	switch {
	case raw.OccupantID != nil:
		s.OccupantID = *raw.OccupantID
	case raw.ModuleID != nil:
		s.OccupantID = *raw.ModuleID
	}
	return nil
}

// CloneSlots returns a deep copy of slots. Module values are copied so the
// result shares no pointers with the input.
func CloneSlots(slots []Slot) []Slot {
	out := make([]Slot, len(slots))
	for i, s := range slots {
		out[i] = s
		if s.Module != nil {
			m := *s.Module
			out[i].Module = &m
		}
	}
	return out
}
