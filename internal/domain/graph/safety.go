package graph

import "convroute/internal/domain/format"

// pathViolatesSafety scans a complete path's category sequence for a
// consecutive image -> video -> audio run anywhere in it, applied once a
// path reaches its destination vertex (per the search's arrival-time safety
// check), rather than pruned eagerly during expansion.
func pathViolatesSafety(categories []string) bool {
	for i := 0; i+2 < len(categories); i++ {
		if categories[i] == format.CategoryImage &&
			categories[i+1] == format.CategoryVideo &&
			categories[i+2] == format.CategoryAudio {
			return true
		}
	}
	return false
}
