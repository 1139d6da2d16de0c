// Package mood maps user moods and detected emotions to genre buckets.
package mood

import "strings"

// Genre buckets backed by the catalog's mood column.
const (
	Happy     = "happy"
	Sad       = "sad"
	Calm      = "calm"
	Energetic = "energetic"
)

// routes maps normalized emotion labels to genre buckets.
var routes = map[string]string{
	"disgust":   Sad,
	"sad":       Sad,
	"happy":     Happy,
	"scared":    Calm,
	"angry":     Calm,
	"surprised": Energetic,
	"neutral":   Calm,
}

// Route maps a mood or emotion label to a genre bucket. Unrecognized values
// pass through as their own trimmed, lowercased bucket, so genre names like
// "calm" can be used as moods directly. Route never fails and bucket names
// are fixed points.
func Route(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if bucket, ok := routes[normalized]; ok {
		return bucket
	}
	return normalized
}
