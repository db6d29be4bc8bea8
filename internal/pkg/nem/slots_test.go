package nem

import (
	"testing"
	"time"

	"github.com/anicoll/nem-integration/internal/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWindow() Window {
	start := time.Date(2026, 8, 30, 10, 0, 0, 0, MarketTime)
	return Window{Start: start, End: start.Add(30 * time.Minute)}
}

func actualAt(window Window, offsetMinutes int, priceMW float64) PriceRecord {
	start := window.Start.Add(time.Duration(offsetMinutes) * time.Minute)
	return PriceRecord{
		PeriodType:     model.PeriodTypeActual,
		SettlementTime: start.Add(5 * time.Minute),
		PeriodStart:    start,
		RegionID:       model.RegionNSW,
		PricePerMW:     priceMW,
		PricePerKW:     priceMW / 1000,
	}
}

func TestAlignSlots_AlwaysSixOrderedSlots(t *testing.T) {
	window := testWindow()

	for count := 0; count <= SlotCount; count++ {
		records := make([]PriceRecord, 0, count)
		for i := 0; i < count; i++ {
			records = append(records, actualAt(window, i*5, 50000))
		}

		slots, err := AlignSlots(records, window, model.RegionNSW)
		require.NoError(t, err)

		assert.Equal(t, count, slots.Filled())
		for i, slot := range slots {
			assert.Equal(t, i+1, slot.Index)
			assert.Equal(t, model.RegionNSW, slot.RegionID)
			if i < count {
				assert.NotNil(t, slot.Record)
			} else {
				assert.Nil(t, slot.Record)
			}
		}
	}
}

func TestAlignSlots_FiltersRecordsOutsideWindow(t *testing.T) {
	window := testWindow()
	records := []PriceRecord{
		actualAt(window, -5, 10000),  // previous window
		actualAt(window, 0, 20000),   // slot 1
		actualAt(window, 30, 30000),  // next window
		actualAt(window, 25, 40000),  // slot 6
	}

	slots, err := AlignSlots(records, window, model.RegionNSW)
	require.NoError(t, err)

	assert.Equal(t, 2, slots.Filled())
	require.NotNil(t, slots[0].Record)
	assert.Equal(t, 20000.0, slots[0].Record.PricePerMW)
	require.NotNil(t, slots[5].Record)
	assert.Equal(t, 40000.0, slots[5].Record.PricePerMW)
}

func TestAlignSlots_DuplicateSlotKeepsLast(t *testing.T) {
	window := testWindow()
	records := []PriceRecord{
		actualAt(window, 10, 11111),
		actualAt(window, 10, 22222),
	}

	slots, err := AlignSlots(records, window, model.RegionNSW)
	require.NoError(t, err)

	assert.Equal(t, 1, slots.Filled())
	require.NotNil(t, slots[2].Record)
	assert.Equal(t, 22222.0, slots[2].Record.PricePerMW)
}

func TestAlignSlots_OffGridMinuteIsIntegrityError(t *testing.T) {
	window := testWindow()
	rec := actualAt(window, 0, 50000)
	rec.PeriodStart = window.Start.Add(7 * time.Minute)

	_, err := AlignSlots([]PriceRecord{rec}, window, model.RegionNSW)
	assert.ErrorIs(t, err, ErrIntegrity)
}

func TestAlignSlots_EmptyInputProducesPlaceholders(t *testing.T) {
	slots, err := AlignSlots(nil, testWindow(), model.RegionTAS)
	require.NoError(t, err)

	assert.Equal(t, 0, slots.Filled())
	for _, slot := range slots {
		assert.Equal(t, model.RegionTAS, slot.RegionID)
		assert.Nil(t, slot.Record)
	}
}
