package analytics

import "time"

// Range is a closed created_at interval.
type Range struct {
	Start time.Time
	End   time.Time
}

// DayOf is the default range: local midnight to local end-of-day of t.
func DayOf(t time.Time) Range {
	y, m, d := t.Date()
	return Range{
		Start: time.Date(y, m, d, 0, 0, 0, 0, t.Location()),
		End:   time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location()),
	}
}

// Previous returns the immediately preceding period of identical duration,
// ending just before this range starts. For a DayOf range that is exactly
// the previous calendar day, midnight included.
func (r Range) Previous() Range {
	d := r.End.Sub(r.Start)
	return Range{
		Start: r.Start.Add(-d - time.Millisecond),
		End:   r.Start.Add(-time.Millisecond),
	}
}

type Filter struct {
	StoreSlug       string
	Range           Range
	ComparePrevious bool
}
