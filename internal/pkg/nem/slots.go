package nem

import (
	"fmt"

	"github.com/anicoll/nem-integration/internal/pkg/model"
)

// SlotCount is the number of 5 minute periods in a settlement window.
const SlotCount = 6

// Slot is one 5 minute position of a window. Record is nil for a placeholder,
// RegionID is populated either way.
type Slot struct {
	Index    int
	RegionID model.RegionID
	Record   *PriceRecord
}

// Slots is the fixed, ordered set of six window positions, indexed 1..6 at
// offsets 0,5,10,15,20,25 minutes from the window start.
type Slots [SlotCount]Slot

// Filled counts the slots holding a real record.
func (s Slots) Filled() int {
	n := 0
	for _, slot := range s {
		if slot.Record != nil {
			n++
		}
	}
	return n
}

// AlignSlots buckets records whose period start falls inside the window into
// the six slots. Records outside the window are dropped. When two records land
// on the same slot the last one wins, mirroring upstream de-duplication; this
// is a known simplification, not a correctness guarantee. A record on the grid
// but off a 5 minute boundary is malformed upstream data.
func AlignSlots(records []PriceRecord, window Window, regionID model.RegionID) (Slots, error) {
	var slots Slots
	for i := range slots {
		slots[i] = Slot{Index: i + 1, RegionID: regionID}
	}
	for _, rec := range records {
		if !window.Contains(rec.PeriodStart) {
			continue
		}
		offset := rec.PeriodStart.In(MarketTime).Minute() % 30
		if offset%5 != 0 {
			return Slots{}, fmt.Errorf("%w: period start minute offset %d for region %s",
				ErrIntegrity, offset, regionID)
		}
		rec := rec
		slots[offset/5].Record = &rec
	}
	return slots, nil
}
