package plan

import "time"

// ShouldRegenerate reports whether a stored plan is stale. Plans
// regenerate at most once per calendar day, however often they are
// requested.
func ShouldRegenerate(lastGenerated, now time.Time) bool {
	if lastGenerated.IsZero() {
		return true
	}
	ly, lm, ld := lastGenerated.UTC().Date()
	ny, nm, nd := now.UTC().Date()
	return ly != ny || lm != nm || ld != nd
}
