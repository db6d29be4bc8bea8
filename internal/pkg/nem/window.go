package nem

import "time"

// MarketTime is the NEM civil clock: UTC+10 with no daylight saving.
// All window math and feed timestamps are interpreted in this zone.
var MarketTime = time.FixedZone("AEST", 10*60*60)

// Window is one 30 minute settlement window, six 5 minute periods.
type Window struct {
	Start time.Time
	End   time.Time
}

// CurrentWindow returns the settlement window containing now. Start is the
// most recent :00 or :30 boundary of the market clock, End is Start + 30min.
func CurrentWindow(now time.Time) Window {
	now = now.In(MarketTime)
	start := now.Add(-(time.Duration(now.Minute()%30)*time.Minute +
		time.Duration(now.Second())*time.Second +
		time.Duration(now.Nanosecond())))
	return Window{Start: start, End: start.Add(30 * time.Minute)}
}

// Contains reports whether t falls in [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}
