package service

import "time"

// SeasonStart returns the start instant (midnight UTC) of the season that
// is active at now, for a season anchored to the given start month and
// day. When now falls before this year's anchor, the active season began
// at last year's anchor. The boundary is inclusive: an instant exactly at
// the anchor belongs to the new season.
//
// The function is pure; callers that memoize the result must key the
// cache by at least (month, day, year(now)) so year rollover and
// mid-season settings edits invalidate it.
func SeasonStart(month, day int, now time.Time) time.Time {
	month = clampInt(month, 1, 12)
	day = clampInt(day, 1, 31)

	candidate := seasonAnchor(now.Year(), month, day)
	if now.Before(candidate) {
		return seasonAnchor(now.Year()-1, month, day)
	}
	return candidate
}

// seasonAnchor builds the anchor instant for one specific year, clamping
// the configured day to the number of days the month actually has in that
// year (Feb 29 anchors land on Feb 28 in non-leap years). The clamp is
// computed here rather than left to time.Date normalization, which would
// silently spill an out-of-range day into the next month.
func seasonAnchor(year, month, day int) time.Time {
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// daysInMonth returns the length of a month in a given year. Day zero of
// the following month normalizes to this month's last day.
func daysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
