// Package emotion analyzes facial emotion in images: face detection, region
// selection, and classification into a fixed emotion set.
package emotion

// Label is one of the fixed emotion classes.
type Label string

const (
	Angry     Label = "angry"
	Disgust   Label = "disgust"
	Scared    Label = "scared"
	Happy     Label = "happy"
	Sad       Label = "sad"
	Surprised Label = "surprised"
	Neutral   Label = "neutral"
)

// Labels is the fixed label order. The classifier's output vector is aligned
// index-for-index with this slice; do not reorder.
var Labels = []Label{Angry, Disgust, Scared, Happy, Sad, Surprised, Neutral}

// Result is the outcome of analyzing one image.
type Result struct {
	Label         Label             `json:"label"`
	Confidence    float64           `json:"confidence"`
	Probabilities map[Label]float64 `json:"probabilities"`
}

// resultFromScores builds a Result from a classifier output vector. The label
// is the first maximum in label order, and the confidence is that label's
// probability.
func resultFromScores(scores []float32) *Result {
	best := 0
	for i, score := range scores {
		if score > scores[best] {
			best = i
		}
	}

	probabilities := make(map[Label]float64, len(Labels))
	for i, label := range Labels {
		if i < len(scores) {
			probabilities[label] = float64(scores[i])
		} else {
			probabilities[label] = 0
		}
	}

	return &Result{
		Label:         Labels[best],
		Confidence:    float64(scores[best]),
		Probabilities: probabilities,
	}
}
