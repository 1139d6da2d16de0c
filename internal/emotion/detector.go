package emotion

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Detection parameters, tuned for fewer false positives over recall.
const (
	detectScaleFactor  = 1.3
	detectMinNeighbors = 5
	detectMinSize      = 30
)

// FaceLocalizer detects candidate face regions in a grayscale image using a
// Haar cascade.
type FaceLocalizer struct {
	classifier gocv.CascadeClassifier
}

// NewFaceLocalizer loads the frontal-face cascade from the given path.
func NewFaceLocalizer(cascadePath string) (*FaceLocalizer, error) {
	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(cascadePath) {
		classifier.Close()
		return nil, fmt.Errorf("%w: loading face cascade %q", ErrModelUnavailable, cascadePath)
	}
	return &FaceLocalizer{classifier: classifier}, nil
}

// Locate returns zero or more face bounding boxes in detector enumeration
// order. An empty result is a normal outcome meaning "no face present".
func (l *FaceLocalizer) Locate(gray gocv.Mat) []image.Rectangle {
	return l.classifier.DetectMultiScaleWithParams(
		gray,
		detectScaleFactor,
		detectMinNeighbors,
		0,
		image.Pt(detectMinSize, detectMinSize),
		image.Pt(0, 0),
	)
}

// Close releases the cascade.
func (l *FaceLocalizer) Close() error {
	return l.classifier.Close()
}

// principalFace selects the most prominent face: the largest by bounding-box
// area, with ties broken by enumeration order (first found wins).
func principalFace(faces []image.Rectangle) image.Rectangle {
	best := faces[0]
	bestArea := best.Dx() * best.Dy()
	for _, face := range faces[1:] {
		if area := face.Dx() * face.Dy(); area > bestArea {
			best = face
			bestArea = area
		}
	}
	return best
}
