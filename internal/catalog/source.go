package catalog

import "context"

// Source provides catalog snapshots to the web layer. The Postgres track
// store satisfies it directly; FileSource adapts a CSV catalog.
type Source interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// FileSource serves a CSV catalog loaded once at startup. The file is the
// unit of change: edits require a restart, matching how the bundled dataset
// is shipped.
type FileSource struct {
	snapshot *Snapshot
}

// NewFileSource loads the catalog CSV at path.
func NewFileSource(path string) (*FileSource, error) {
	snapshot, err := LoadCSV(path)
	if err != nil {
		return nil, err
	}
	return &FileSource{snapshot: snapshot}, nil
}

func (s *FileSource) Snapshot(context.Context) (*Snapshot, error) {
	return s.snapshot, nil
}
