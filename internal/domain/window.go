package domain

// IsWithinLightWindow reports whether now falls inside [start, end).
// When start > end the window wraps past midnight. start == end is an empty
// window and never matches.
func IsWithinLightWindow(now, start, end TimeOfDay) bool {
	if start <= end {
		return now >= start && now < end
	}
	return now >= start || now < end
}
