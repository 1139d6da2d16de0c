package emotion

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Pipeline orchestrates the full analysis: decode, grayscale, face detection,
// principal-face selection, normalization and classification. Detector and
// model artifacts are loaded once on first use; the loaded instances are
// reused for the life of the process.
type Pipeline struct {
	cascadePath string
	modelPath   string

	initOnce   sync.Once
	initErr    error
	localizer  *FaceLocalizer
	classifier *Classifier
}

// NewPipeline creates a Pipeline. Artifact loading is deferred to the first
// Analyze call.
func NewPipeline(cascadePath, modelPath string) *Pipeline {
	return &Pipeline{
		cascadePath: cascadePath,
		modelPath:   modelPath,
	}
}

// init loads the cascade and model exactly once, even under concurrent first
// use. A load failure is sticky: every later call reports it.
func (p *Pipeline) init() error {
	p.initOnce.Do(func() {
		localizer, err := NewFaceLocalizer(p.cascadePath)
		if err != nil {
			p.initErr = err
			return
		}
		classifier, err := NewClassifier(p.modelPath)
		if err != nil {
			localizer.Close()
			p.initErr = err
			return
		}
		p.localizer = localizer
		p.classifier = classifier
	})
	return p.initErr
}

// Analyze runs emotion analysis on the image at path. It returns
// ErrInvalidImage for undecodable input, ErrNoFaceDetected when the image
// contains no detectable face, ErrModelUnavailable when artifacts cannot be
// loaded, and ErrAnalysisFailed for other pipeline failures.
func (p *Pipeline) Analyze(path string) (*Result, error) {
	if err := p.init(); err != nil {
		return nil, err
	}

	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidImage, path)
	}
	defer img.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	faces := p.localizer.Locate(gray)
	if len(faces) == 0 {
		return nil, ErrNoFaceDetected
	}

	face := principalFace(faces).Intersect(image.Rect(0, 0, gray.Cols(), gray.Rows()))
	if face.Dx() <= 0 || face.Dy() <= 0 {
		return nil, fmt.Errorf("%w: detected face region is empty", ErrAnalysisFailed)
	}

	roi := gray.Region(face)
	defer roi.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(roi, &resized, image.Pt(inputSize, inputSize), 0, 0, gocv.InterpolationLinear)

	scaled := gocv.NewMat()
	defer scaled.Close()
	resized.ConvertToWithParams(&scaled, gocv.MatTypeCV32F, 1.0/255.0, 0)

	scores, err := p.classifier.Classify(scaled)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	return resultFromScores(scores), nil
}

// Close releases the loaded artifacts, if any.
func (p *Pipeline) Close() {
	if p.localizer != nil {
		p.localizer.Close()
	}
	if p.classifier != nil {
		p.classifier.Close()
	}
}
