package importer

import (
	"testing"

	"github.com/justestif/go-mood-music/internal/catalog"
	"github.com/justestif/go-mood-music/internal/mood"
)

func featureTrack(id string, valence, energy, danceability, tempo float64) catalog.Track {
	return catalog.Track{
		ID:           id,
		Name:         "Track " + id,
		Valence:      &valence,
		Energy:       &energy,
		Danceability: &danceability,
		Tempo:        &tempo,
	}
}

func TestAssignMoods_ThresholdFallback(t *testing.T) {
	// Fewer tracks than clusters forces the per-track threshold path.
	tests := []struct {
		name  string
		track catalog.Track
		want  string
	}{
		{"high valence and energy", featureTrack("a", 0.80, 0.70, 0.5, 120), mood.Happy},
		{"low valence and energy", featureTrack("b", 0.20, 0.30, 0.5, 90), mood.Sad},
		{"high energy only", featureTrack("c", 0.50, 0.85, 0.5, 110), mood.Energetic},
		{"fast tempo only", featureTrack("d", 0.50, 0.60, 0.5, 150), mood.Energetic},
		{"middle of the road", featureTrack("e", 0.50, 0.60, 0.5, 100), mood.Calm},
		{"happy wins over energetic", featureTrack("f", 0.70, 0.90, 0.5, 160), mood.Happy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssignMoods([]catalog.Track{tt.track})
			if got[0].Mood != tt.want {
				t.Errorf("AssignMoods() mood = %q, want %q", got[0].Mood, tt.want)
			}
		})
	}
}

func TestAssignMoods_TitleFallback(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		popularity float64
		want       string
	}{
		{"sad keyword", "Lonely Nights", 90, mood.Sad},
		{"energetic keyword", "Dance All Day", 10, mood.Energetic},
		{"happy keyword", "Walking on Sunshine", 10, mood.Happy},
		{"sad beats energetic", "Crying at the Party", 10, mood.Sad},
		{"popular with no keywords", "Track Seven", 80, mood.Happy},
		{"obscure with no keywords", "Track Seven", 40, mood.Calm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracks := AssignMoods([]catalog.Track{{ID: "x", Name: tt.title, Popularity: tt.popularity}})
			if tracks[0].Mood != tt.want {
				t.Errorf("AssignMoods() mood = %q, want %q", tracks[0].Mood, tt.want)
			}
		})
	}
}

func TestAssignMoods_ClusteredTracksGetBuckets(t *testing.T) {
	var tracks []catalog.Track
	// Two tight groups at opposite corners of the feature space, padded so
	// clustering has enough observations.
	for i := 0; i < 6; i++ {
		tracks = append(tracks, featureTrack("hi"+string(rune('a'+i)), 0.9, 0.9, 0.8, 140))
		tracks = append(tracks, featureTrack("lo"+string(rune('a'+i)), 0.1, 0.2, 0.2, 80))
	}

	got := AssignMoods(tracks)

	buckets := map[string]bool{
		mood.Happy: true, mood.Sad: true, mood.Calm: true, mood.Energetic: true,
	}
	for _, tr := range got {
		if !buckets[tr.Mood] {
			t.Errorf("track %s assigned mood %q, want one of the four buckets", tr.ID, tr.Mood)
		}
	}
}

func TestAssignMoods_MixedFeatureAvailability(t *testing.T) {
	tracks := []catalog.Track{
		featureTrack("a", 0.8, 0.7, 0.5, 120),
		{ID: "b", Name: "Sad Song"},
	}

	got := AssignMoods(tracks)

	if got[0].Mood != mood.Happy {
		t.Errorf("featured track mood = %q, want %q", got[0].Mood, mood.Happy)
	}
	if got[1].Mood != mood.Sad {
		t.Errorf("featureless track mood = %q, want %q", got[1].Mood, mood.Sad)
	}
}
