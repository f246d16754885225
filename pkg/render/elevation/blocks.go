package elevation

import (
	"github.com/matzehuels/racktower/pkg/rack"
)

// Block is one contiguous run of slots held by the same instance.
type Block struct {
	InstanceID string
	Module     rack.Module
	Top        int // first slot index
	Span       int
}

// Blocks groups an occupied slot sequence into blocks, top first. Empty
// slots are skipped.
func Blocks(slots []rack.Slot) []Block {
	var out []Block
	for i := 0; i < len(slots); {
		s := slots[i]
		if s.Empty() || s.Module == nil {
			i++
			continue
		}
		j := i + 1
		for j < len(slots) && slots[j].OccupantID == s.OccupantID {
			j++
		}
		out = append(out, Block{InstanceID: s.OccupantID, Module: *s.Module, Top: i, Span: j - i})
		i = j
	}
	return out
}

func blockAt(blocks []Block) map[int]Block {
	m := make(map[int]Block, len(blocks))
	for _, b := range blocks {
		m[b.Top] = b
	}
	return m
}

// step returns the resolution implied by the slot sequence.
func step(slots []rack.Slot, height int) rack.Resolution {
	if len(slots) == height {
		return rack.WholeU
	}
	return rack.HalfU
}
