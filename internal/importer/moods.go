package importer

import (
	"strings"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/justestif/go-mood-music/internal/catalog"
	"github.com/justestif/go-mood-music/internal/mood"
)

// moodClusterCount matches the number of genre buckets.
const moodClusterCount = 4

// tempoScale normalizes tempo into roughly the same [0,1] range as the other
// feature coordinates so it doesn't dominate the distance metric.
const tempoScale = 250.0

// AssignMoods fills the Mood field of every track. Tracks with audio
// features are grouped by k-means over (valence, energy, danceability,
// tempo) and labeled from their cluster's centroid; when clustering is not
// possible the centroid rules apply per track instead. Tracks without
// features fall back to title keywords and popularity.
func AssignMoods(tracks []catalog.Track) []catalog.Track {
	var withFeatures []int
	for i := range tracks {
		if hasMoodFeatures(&tracks[i]) {
			withFeatures = append(withFeatures, i)
		} else {
			tracks[i].Mood = moodFromTitle(tracks[i].Name, tracks[i].Popularity)
		}
	}

	if len(withFeatures) == 0 {
		return tracks
	}

	if len(withFeatures) < moodClusterCount {
		for _, i := range withFeatures {
			tracks[i].Mood = moodFromFeatures(*tracks[i].Valence, *tracks[i].Energy, *tracks[i].Tempo)
		}
		return tracks
	}

	type trackObservation struct {
		index  int
		coords clusters.Coordinates
	}

	var obs clusters.Observations
	observations := make([]trackObservation, len(withFeatures))
	for n, i := range withFeatures {
		observations[n] = trackObservation{
			index: i,
			coords: clusters.Coordinates{
				*tracks[i].Valence,
				*tracks[i].Energy,
				*tracks[i].Danceability,
				*tracks[i].Tempo / tempoScale,
			},
		}
		obs = append(obs, observations[n].coords)
	}

	km := kmeans.New()
	result, err := km.Partition(obs, moodClusterCount)
	if err != nil {
		// Clustering can fail on degenerate inputs; fall back per track.
		for _, i := range withFeatures {
			tracks[i].Mood = moodFromFeatures(*tracks[i].Valence, *tracks[i].Energy, *tracks[i].Tempo)
		}
		return tracks
	}

	// Label every track by its nearest centroid's bucket.
	for _, o := range observations {
		cluster := result.Nearest(o.coords)
		center := result[cluster].Center
		tracks[o.index].Mood = moodFromFeatures(center[0], center[1], center[3]*tempoScale)
	}

	return tracks
}

// hasMoodFeatures reports whether a track carries everything the clustering
// coordinates need.
func hasMoodFeatures(t *catalog.Track) bool {
	return t.Valence != nil && t.Energy != nil && t.Danceability != nil && t.Tempo != nil
}

// moodFromFeatures maps audio features to a genre bucket.
func moodFromFeatures(valence, energy, tempo float64) string {
	switch {
	case valence >= 0.62 && energy >= 0.52:
		return mood.Happy
	case valence <= 0.40 && energy <= 0.56:
		return mood.Sad
	case energy >= 0.70 || tempo >= 135:
		return mood.Energetic
	default:
		return mood.Calm
	}
}

// Title keyword sets for the featureless fallback.
var (
	sadTerms = []string{
		"sad", "cry", "tears", "lonely", "alone", "broken", "hurt",
		"pain", "miss", "goodbye", "dark", "lost",
	}
	energeticTerms = []string{
		"dance", "party", "run", "fast", "wild", "fire", "rage",
		"rock", "go", "up", "night", "move",
	}
	happyTerms = []string{
		"happy", "love", "sun", "smile", "joy", "fun", "shine",
		"good", "best", "beautiful",
	}
)

// moodFromTitle guesses a bucket from the track title, preferring sadness
// cues over energy cues over happiness cues, with popularity as a final
// nudge toward happy.
func moodFromTitle(name string, popularity float64) string {
	title := strings.ToLower(name)

	for _, term := range sadTerms {
		if strings.Contains(title, term) {
			return mood.Sad
		}
	}
	for _, term := range energeticTerms {
		if strings.Contains(title, term) {
			return mood.Energetic
		}
	}
	for _, term := range happyTerms {
		if strings.Contains(title, term) {
			return mood.Happy
		}
	}
	if popularity >= 75 {
		return mood.Happy
	}
	return mood.Calm
}
