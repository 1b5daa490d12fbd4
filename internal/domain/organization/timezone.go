package organization

import (
	"strings"
	"time"
)

// DefaultTimezone is the fallback zone used when an organization's
// stored identifier cannot be resolved
const DefaultTimezone = "America/Sao_Paulo"

// ResolveLocation resolves a raw timezone identifier to a concrete
// location. It never fails: an ordered candidate list is tried and the
// first identifier the platform can load wins. A malformed or legacy
// identifier in the database is a self-healing condition, not an error.
//
// Candidate order:
//  1. the raw identifier, trimmed and with internal spaces collapsed
//     to underscores ("America/Sao Paulo" -> "America/Sao_Paulo")
//  2. DefaultTimezone
//  3. UTC
func ResolveLocation(raw string) *time.Location {
	for _, candidate := range []string{NormalizeTimezone(raw), DefaultTimezone, "UTC"} {
		if candidate == "" {
			continue
		}
		if loc, err := time.LoadLocation(candidate); err == nil {
			return loc
		}
	}
	// UTC always resolves; this is unreachable on a working platform
	return time.UTC
}

// NormalizeTimezone trims the identifier and collapses internal space
// runs to single underscores. Returns "" for blank input.
func NormalizeTimezone(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}
	return strings.Join(fields, "_")
}
