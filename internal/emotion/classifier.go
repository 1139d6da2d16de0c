package emotion

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// inputSize is the classifier's expected region edge length in pixels.
const inputSize = 64

// Classifier runs the emotion network on a normalized face region. The
// underlying net is expensive to load and is shared process-wide; Forward is
// serialized because the net is not safe for concurrent use.
type Classifier struct {
	mu  sync.Mutex
	net gocv.Net
}

// NewClassifier loads the ONNX emotion model from the given path.
func NewClassifier(modelPath string) (*Classifier, error) {
	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		return nil, fmt.Errorf("%w: loading emotion model %q", ErrModelUnavailable, modelPath)
	}
	return &Classifier{net: net}, nil
}

// Classify consumes a 64x64 single-channel float region with values in [0,1]
// and returns the dense probability vector aligned with Labels.
func (c *Classifier) Classify(region gocv.Mat) ([]float32, error) {
	blob := gocv.BlobFromImage(region, 1.0, image.Pt(inputSize, inputSize), gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.net.SetInput(blob, "")
	output := c.net.Forward("")
	defer output.Close()

	if output.Empty() || output.Total() < len(Labels) {
		return nil, fmt.Errorf("unexpected classifier output shape")
	}

	scores := make([]float32, len(Labels))
	for i := range scores {
		scores[i] = output.GetFloatAt(0, i)
	}
	return scores, nil
}

// Close releases the network.
func (c *Classifier) Close() error {
	return c.net.Close()
}
