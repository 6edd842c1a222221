package services

// NeedsSnapshot reports whether a version record must carry a full content
// copy. Version 1 always does (it has no predecessor to diff against), and
// so does every multiple of the interval, which bounds reconstruction to at
// most interval-1 diff applications.
func NeedsSnapshot(versionNumber, interval int) bool {
	if versionNumber == 1 {
		return true
	}
	if interval <= 0 {
		return false
	}
	return versionNumber%interval == 0
}
