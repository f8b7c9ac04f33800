package library

import (
	"strings"

	"cloudsync/music"
)

// titleEqual compares titles after trimming and case folding.
func titleEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// artistsMatch reports whether any requested artist appears in the
// candidate's artist string. The match runs both ways so "周杰伦" matches a
// candidate credited as "周杰伦/费玉清" and a candidate credited as "周杰伦"
// matches a request for "周杰伦 (Jay Chou)". With no requested artists any
// non-empty candidate credit counts.
func artistsMatch(want []string, candidate string) bool {
	candidateLower := strings.ToLower(strings.TrimSpace(candidate))
	if len(want) == 0 {
		return candidateLower != ""
	}

	candidateParts := music.SplitArtists(candidateLower)
	for _, w := range want {
		wLower := strings.ToLower(strings.TrimSpace(w))
		if wLower == "" {
			continue
		}
		if strings.Contains(candidateLower, wLower) {
			return true
		}
		for _, part := range candidateParts {
			if strings.Contains(wLower, part) {
				return true
			}
		}
	}
	return false
}
