// Package artifact defines the trained model artifacts used by the
// classifier and the forecaster. Artifacts are immutable after loading; a
// complete Set is published as one snapshot and replaced wholesale on
// reload.
package artifact

import (
	"time"
)

// Artifact names, used as storage keys.
const (
	NameClassifier = "cognitive_classifier"
	NameScaler     = "scaler"
	NameLabelCodec = "label_encoder"
	NamePredictor  = "progress_predictor"
)

// Names lists all artifact names in a stable order.
func Names() []string {
	return []string{NameClassifier, NameScaler, NameLabelCodec, NamePredictor}
}

// Scaler standardizes raw features with the stored per-feature mean and
// scale: (x - mean) / scale.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform standardizes a feature vector. The input is not modified.
func (s *Scaler) Transform(features []float64) []float64 {
	out := make([]float64, len(features))
	for i, x := range features {
		scale := 1.0
		if i < len(s.Scale) && s.Scale[i] != 0 {
			scale = s.Scale[i]
		}
		mean := 0.0
		if i < len(s.Mean) {
			mean = s.Mean[i]
		}
		out[i] = (x - mean) / scale
	}
	return out
}

// LabelCodec maps class indices to tier names. Classes are stored sorted
// alphabetically so persisted artifacts stay stable across retrains.
type LabelCodec struct {
	Classes []string `json:"classes"`
}

// Decode returns the tier name for a class index.
func (c *LabelCodec) Decode(index int) (string, bool) {
	if index < 0 || index >= len(c.Classes) {
		return "", false
	}
	return c.Classes[index], true
}

// Encode returns the class index for a tier name.
func (c *LabelCodec) Encode(label string) (int, bool) {
	for i, name := range c.Classes {
		if name == label {
			return i, true
		}
	}
	return 0, false
}

// TreeNode is one node of the trained decision tree. Leaves carry the
// predicted class and the vote fraction of that class at the leaf.
type TreeNode struct {
	Leaf      bool      `json:"leaf"`
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *TreeNode `json:"left,omitempty"`
	Right     *TreeNode `json:"right,omitempty"`
	Class     int       `json:"class,omitempty"`
	Purity    float64   `json:"purity,omitempty"`
}

// Classifier is a decision tree over standardized features.
type Classifier struct {
	Root     *TreeNode `json:"root"`
	NClasses int       `json:"n_classes"`
	Depth    int       `json:"depth"`
}

// Predict walks the tree and returns the predicted class index together with
// the leaf purity used as confidence.
func (c *Classifier) Predict(scaled []float64) (int, float64) {
	node := c.Root
	for node != nil && !node.Leaf {
		if node.Feature < len(scaled) && scaled[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	if node == nil {
		return 0, 0
	}
	return node.Class, node.Purity
}

// Regressor is the trained next-score predictor over a fixed window of the
// most recent scores.
type Regressor struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

// Window returns the number of scores the regressor consumes.
func (r *Regressor) Window() int { return len(r.Coef) }

// Predict applies the regression to a window of scores. The window must have
// exactly Window() entries, oldest first.
func (r *Regressor) Predict(window []float64) float64 {
	y := r.Intercept
	for i, c := range r.Coef {
		if i < len(window) {
			y += c * window[i]
		}
	}
	return y
}

// Set is one immutable snapshot of all trained artifacts.
type Set struct {
	ID         string      `json:"id"`
	TrainedAt  time.Time   `json:"trained_at"`
	Classifier *Classifier `json:"-"`
	Scaler     *Scaler     `json:"-"`
	Labels     *LabelCodec `json:"-"`
	Predictor  *Regressor  `json:"-"`
}

// Complete reports whether every artifact is present.
func (s *Set) Complete() bool {
	return s != nil && s.Classifier != nil && s.Scaler != nil && s.Labels != nil && s.Predictor != nil
}

// Status reports per-artifact presence, keyed by artifact name.
func (s *Set) Status() map[string]bool {
	status := map[string]bool{
		NameClassifier: false,
		NameScaler:     false,
		NameLabelCodec: false,
		NamePredictor:  false,
	}
	if s == nil {
		return status
	}
	status[NameClassifier] = s.Classifier != nil
	status[NameScaler] = s.Scaler != nil
	status[NameLabelCodec] = s.Labels != nil
	status[NamePredictor] = s.Predictor != nil
	return status
}
