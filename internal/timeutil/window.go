// Package timeutil computes the query window for a daily processing run.
package timeutil

import "time"

// YesterdayRange returns the start (00:00:00) and end (23:59:59) of the
// calendar day before now, in now's location. The source collection stores
// publish dates as ISO-8601 strings, so both bounds are formatted by the
// caller and compared lexically.
func YesterdayRange(now time.Time) (time.Time, time.Time) {
	yesterday := now.AddDate(0, 0, -1)
	loc := now.Location()

	start := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, loc)
	end := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 23, 59, 59, 0, loc)
	return start, end
}
