package catalog

import (
	"bytes"
	"strings"
	"testing"
)

func TestReadCSV(t *testing.T) {
	data := strings.Join([]string{
		"name,album,artist,id,popularity,mood,preview_url,source",
		"Song One,Album One,Artist One,id1,88,happy,https://example.com/1.m4a,playlist:abc",
		"Song Two,Album Two,Artist Two,id2,12,sad,,",
	}, "\n")

	snapshot, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	if !snapshot.HasSource {
		t.Error("ReadCSV() HasSource = false, want true")
	}
	if len(snapshot.Tracks) != 2 {
		t.Fatalf("ReadCSV() got %d tracks, want 2", len(snapshot.Tracks))
	}

	first := snapshot.Tracks[0]
	if first.Name != "Song One" || first.Artist != "Artist One" || first.ID != "id1" {
		t.Errorf("unexpected first track: %+v", first)
	}
	if first.Popularity != 88 {
		t.Errorf("Popularity = %v, want 88", first.Popularity)
	}
	if first.PreviewURL != "https://example.com/1.m4a" {
		t.Errorf("PreviewURL = %q", first.PreviewURL)
	}

	second := snapshot.Tracks[1]
	if second.PreviewURL != "" || second.Source != "" {
		t.Errorf("optional columns should default to empty: %+v", second)
	}
}

func TestReadCSV_NoSourceColumn(t *testing.T) {
	data := "name,artist,id,popularity,mood\nSong,Artist,id1,50,calm\n"

	snapshot, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if snapshot.HasSource {
		t.Error("ReadCSV() HasSource = true, want false")
	}
	if got := snapshot.Tracks[0].Mood; got != "calm" {
		t.Errorf("Mood = %q, want calm", got)
	}
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	energy := 0.7
	length := 215000
	original := &Snapshot{
		HasSource: true,
		Tracks: []Track{
			{
				Name: "Song", Album: "Album", Artist: "Artist", ID: "id1",
				Mood: "energetic", Popularity: 64, Source: "playlist:xyz",
				Energy: &energy, LengthMs: &length,
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, original); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	snapshot, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(snapshot.Tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(snapshot.Tracks))
	}

	track := snapshot.Tracks[0]
	if track.ID != "id1" || track.Mood != "energetic" || track.Source != "playlist:xyz" {
		t.Errorf("unexpected track after round trip: %+v", track)
	}
	if track.Energy == nil || *track.Energy != 0.7 {
		t.Errorf("Energy = %v, want 0.7", track.Energy)
	}
	if track.LengthMs == nil || *track.LengthMs != 215000 {
		t.Errorf("LengthMs = %v, want 215000", track.LengthMs)
	}
	if track.Valence != nil {
		t.Errorf("Valence = %v, want nil", track.Valence)
	}
}
