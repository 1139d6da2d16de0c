package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Canonical CSV column order, matching what the playlist importer writes.
var csvColumns = []string{
	"name", "album", "artist", "id", "release_date", "popularity", "length",
	"danceability", "acousticness", "energy", "instrumentalness", "liveness",
	"valence", "loudness", "speechiness", "tempo", "key", "time_signature",
	"mood", "preview_url", "source",
}

// LoadCSV reads a catalog snapshot from a CSV file. Rows keep file order.
// Unknown columns are ignored; missing optional columns default to empty.
func LoadCSV(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV parses a catalog snapshot from CSV data with a header row.
func ReadCSV(r io.Reader) (*Snapshot, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading catalog header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	_, hasSource := index["source"]

	snapshot := &Snapshot{HasSource: hasSource}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading catalog row: %w", err)
		}

		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}

		popularity, _ := strconv.ParseFloat(field("popularity"), 64)

		snapshot.Tracks = append(snapshot.Tracks, Track{
			Name:          field("name"),
			Album:         field("album"),
			Artist:        field("artist"),
			ID:            field("id"),
			Mood:          field("mood"),
			Popularity:    popularity,
			PreviewURL:    field("preview_url"),
			Source:        field("source"),
			ReleaseDate:   field("release_date"),
			LengthMs:      parseIntField(field("length")),
			Danceability:  parseFloatField(field("danceability")),
			Acousticness:  parseFloatField(field("acousticness")),
			Energy:        parseFloatField(field("energy")),
			Instrumental:  parseFloatField(field("instrumentalness")),
			Liveness:      parseFloatField(field("liveness")),
			Valence:       parseFloatField(field("valence")),
			Loudness:      parseFloatField(field("loudness")),
			Speechiness:   parseFloatField(field("speechiness")),
			Tempo:         parseFloatField(field("tempo")),
			Key:           parseIntField(field("key")),
			TimeSignature: parseIntField(field("time_signature")),
		})
	}

	return snapshot, nil
}

// WriteCSV writes a snapshot in the canonical column order, header first.
func WriteCSV(w io.Writer, snapshot *Snapshot) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvColumns); err != nil {
		return fmt.Errorf("writing catalog header: %w", err)
	}

	for _, t := range snapshot.Tracks {
		record := []string{
			t.Name, t.Album, t.Artist, t.ID, t.ReleaseDate,
			formatFloat(t.Popularity), formatIntField(t.LengthMs),
			formatFloatField(t.Danceability), formatFloatField(t.Acousticness),
			formatFloatField(t.Energy), formatFloatField(t.Instrumental),
			formatFloatField(t.Liveness), formatFloatField(t.Valence),
			formatFloatField(t.Loudness), formatFloatField(t.Speechiness),
			formatFloatField(t.Tempo), formatIntField(t.Key),
			formatIntField(t.TimeSignature), t.Mood, t.PreviewURL, t.Source,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing catalog row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func parseFloatField(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseIntField(raw string) *int {
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		// Importers sometimes write integral columns as floats.
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return nil
		}
		n := int(f)
		return &n
	}
	return &v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFloatField(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatIntField(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
