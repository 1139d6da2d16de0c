package emotion

import "errors"

// Sentinel errors. Callers branch with errors.Is; the web layer maps
// ErrNoFaceDetected and ErrInvalidImage to client-correctable responses and
// everything else to a server-side failure.
var (
	// ErrInvalidImage is returned when the input image cannot be decoded.
	ErrInvalidImage = errors.New("unable to decode image")

	// ErrNoFaceDetected is returned when the detector finds no face. This is
	// a recoverable condition, not a failure: the caller should prompt for a
	// clearer photo.
	ErrNoFaceDetected = errors.New("no face detected in image")

	// ErrModelUnavailable is returned when the cascade or emotion model
	// artifact cannot be loaded. This is a startup/availability problem, not
	// a per-request one.
	ErrModelUnavailable = errors.New("emotion model unavailable")

	// ErrAnalysisFailed is returned for unexpected pipeline failures, such as
	// an empty face region.
	ErrAnalysisFailed = errors.New("emotion analysis failed")
)
