package preview

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// normalize strips a name down to lowercase alphanumerics so that
// punctuation, spacing and case differences between catalogs don't matter.
func normalize(value string) string {
	return nonAlphanumeric.ReplaceAllString(strings.ToLower(value), "")
}

// scoreCandidate rates how well a provider candidate matches the requested
// track. Exact normalized track-name match scores +5, the requested name
// appearing inside the candidate's scores +2. Artist matches score +4 exact,
// +1 substring.
func scoreCandidate(trackName, artistName string, candidate Candidate) int {
	score := 0
	track := normalize(trackName)
	artist := normalize(artistName)
	candidateTrack := normalize(candidate.TrackName)
	candidateArtist := normalize(candidate.ArtistName)

	if track != "" && track == candidateTrack {
		score += 5
	} else if track != "" && strings.Contains(candidateTrack, track) {
		score += 2
	}

	if artist != "" && artist == candidateArtist {
		score += 4
	} else if artist != "" && strings.Contains(candidateArtist, artist) {
		score += 1
	}

	return score
}

// bestCandidateURL picks the highest-scoring candidate with a usable preview
// URL. Ties keep the first candidate seen; candidates without a URL are
// skipped regardless of score.
func bestCandidateURL(trackName, artistName string, candidates []Candidate) string {
	bestURL := ""
	bestScore := -1

	for _, candidate := range candidates {
		if candidate.URL == "" {
			continue
		}
		if score := scoreCandidate(trackName, artistName, candidate); score > bestScore {
			bestScore = score
			bestURL = candidate.URL
		}
	}

	return bestURL
}
