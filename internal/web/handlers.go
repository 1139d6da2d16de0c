package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/justestif/go-mood-music/internal/catalog"
	"github.com/justestif/go-mood-music/internal/emotion"
	"github.com/justestif/go-mood-music/internal/mood"
	"github.com/justestif/go-mood-music/internal/preview"
)

// uploadField is the multipart form field carrying the camera snapshot.
const uploadField = "snapshot"

// DefaultMaxUploadBytes caps snapshot uploads at 5 MB.
const DefaultMaxUploadBytes = 5 << 20

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Analyzer runs emotion analysis on an image file. *emotion.Pipeline is the
// production implementation.
type Analyzer interface {
	Analyze(path string) (*emotion.Result, error)
}

// HandlerConfig wires handler dependencies.
type HandlerConfig struct {
	Analyzer Analyzer
	Catalog  catalog.Source
	Ranker   *catalog.Ranker
	Resolver *preview.Resolver

	UploadDir      string
	MaxUploadBytes int64

	MaxPreviewLookups int
}

// Handlers contains HTTP handlers for the mood-music API.
type Handlers struct {
	analyzer Analyzer
	catalog  catalog.Source
	ranker   *catalog.Ranker
	resolver *preview.Resolver

	uploadDir      string
	maxUploadBytes int64
	maxLookups     int
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cfg HandlerConfig) *Handlers {
	if cfg.Ranker == nil {
		cfg.Ranker = catalog.NewRanker()
	}
	if cfg.Resolver == nil {
		cfg.Resolver = preview.NewResolver()
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = os.TempDir()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.MaxPreviewLookups <= 0 {
		cfg.MaxPreviewLookups = preview.DefaultLookupBudget
	}
	return &Handlers{
		analyzer:       cfg.Analyzer,
		catalog:        cfg.Catalog,
		ranker:         cfg.Ranker,
		resolver:       cfg.Resolver,
		uploadDir:      cfg.UploadDir,
		maxUploadBytes: cfg.MaxUploadBytes,
		maxLookups:     cfg.MaxPreviewLookups,
	}
}

// Info describes the service (GET /).
func (h *Handlers) Info(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"service": "mood-music",
		"status":  "ok",
		"endpoints": []string{
			"GET /api/songs?arg1=<mood>",
			"POST /api/camera",
			"POST /api/camera/analyze",
		},
	})
}

type songRow struct {
	Name       string `json:"name"`
	Album      string `json:"album"`
	Artist     string `json:"artist"`
	ID         string `json:"id"`
	Mood       string `json:"mood"`
	PreviewURL string `json:"preview_url"`
}

// Songs returns ranked tracks for a mood (GET /api/songs).
func (h *Handlers) Songs(w http.ResponseWriter, r *http.Request) {
	moodArg := r.URL.Query().Get("arg1")
	if moodArg == "" {
		respondError(w, http.StatusBadRequest, "missing required query parameter: arg1")
		return
	}

	bucket := mood.Route(moodArg)
	limit := parseLimit(r.URL.Query().Get("limit"))
	shuffle := parseBool(r.URL.Query().Get("shuffle"), true)

	snapshot, err := h.catalog.Snapshot(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}

	tracks := h.ranker.Rank(snapshot, bucket, catalog.RankOptions{
		Limit:   limit,
		Shuffle: shuffle,
	})

	rows := make([]songRow, len(tracks))
	var missing []int
	var reqs []preview.Request
	for i, t := range tracks {
		rows[i] = songRow{
			Name:       t.Name,
			Album:      t.Album,
			Artist:     t.Artist,
			ID:         t.ID,
			Mood:       t.Mood,
			PreviewURL: t.PreviewURL,
		}
		if t.PreviewURL == "" {
			missing = append(missing, i)
			reqs = append(reqs, preview.Request{ID: t.ID, Name: t.Name, Artist: t.Artist})
		}
	}

	if len(reqs) > 0 {
		budget := preview.NewBudget(h.maxLookups)
		urls := h.resolver.ResolveAll(r.Context(), budget, reqs)
		for n, i := range missing {
			rows[i].PreviewURL = urls[n]
		}
	}

	respondJSON(w, http.StatusOK, rows)
}

// Camera analyzes a snapshot and returns the routed genre (POST /api/camera).
func (h *Handlers) Camera(w http.ResponseWriter, r *http.Request) {
	result, ok := h.analyzeUpload(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"label": string(result.Label),
		"genre": mood.Route(string(result.Label)),
	})
}

// CameraAnalyze returns the full analysis (POST /api/camera/analyze).
func (h *Handlers) CameraAnalyze(w http.ResponseWriter, r *http.Request) {
	result, ok := h.analyzeUpload(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"label":         result.Label,
		"confidence":    result.Confidence,
		"probabilities": result.Probabilities,
		"genre":         mood.Route(string(result.Label)),
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
}

// analyzeUpload runs the shared snapshot intake and analysis. On failure it
// writes the error response and reports ok=false.
func (h *Handlers) analyzeUpload(w http.ResponseWriter, r *http.Request) (*emotion.Result, bool) {
	path, ok := h.saveSnapshot(w, r)
	if !ok {
		return nil, false
	}
	defer os.Remove(path)

	result, err := h.analyzer.Analyze(path)
	if err != nil {
		switch {
		case errors.Is(err, emotion.ErrNoFaceDetected):
			respondError(w, http.StatusUnprocessableEntity, "no face detected in image")
		case errors.Is(err, emotion.ErrInvalidImage):
			respondError(w, http.StatusBadRequest, "uploaded file is not a readable image")
		default:
			respondError(w, http.StatusInternalServerError, "emotion analysis failed")
		}
		return nil, false
	}
	return result, true
}

// saveSnapshot validates the multipart upload and writes it to a temp file
// in the upload directory. On failure it writes the error response and
// reports ok=false; on success the caller owns removal of the file.
func (h *Handlers) saveSnapshot(w http.ResponseWriter, r *http.Request) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds %d bytes", h.maxUploadBytes))
			return "", false
		}
		respondError(w, http.StatusBadRequest, "missing snapshot file")
		return "", false
	}
	defer file.Close()

	if header.Filename == "" {
		respondError(w, http.StatusBadRequest, "snapshot has no filename")
		return "", false
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		respondError(w, http.StatusUnsupportedMediaType,
			"unsupported image type; use jpg, jpeg, png or webp")
		return "", false
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to store upload")
		return "", false
	}

	path := filepath.Join(h.uploadDir, "snapshot_"+uuid.NewString()+ext)
	dst, err := os.Create(path)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to store upload")
		return "", false
	}

	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(path)
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds %d bytes", h.maxUploadBytes))
			return "", false
		}
		respondError(w, http.StatusInternalServerError, "unable to store upload")
		return "", false
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		respondError(w, http.StatusInternalServerError, "unable to store upload")
		return "", false
	}

	return path, true
}

// parseLimit reads a result limit, treating absent or malformed values as
// the default. Range clamping happens in the ranker.
func parseLimit(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

// parseBool reads a query flag with a fallback for absent or unknown values.
func parseBool(raw string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are already out; nothing useful left to send.
		return
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
