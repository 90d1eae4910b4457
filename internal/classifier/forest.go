package classifier

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

const leaf = -1

// Node is one tree node. Leaves have Left and Right set to -1 and carry
// class counts (or fractions) in Value.
type Node struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value,omitempty"`
}

type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Forest is a random forest exported from training as per-tree node arrays.
type Forest struct {
	ModelType   string `json:"model_type"`
	NFeaturesIn int    `json:"n_features_in"`
	Classes     []int  `json:"classes"`
	Probability *bool  `json:"probability,omitempty"`
	Trees       []Tree `json:"trees"`
}

// LoadFile reads a model file from disk.
func LoadFile(path string) (Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return m, nil
}

// Decode parses and validates a model. A model exported with
// "probability": false is returned as a label-only Model.
func Decode(r io.Reader) (Model, error) {
	var forest Forest
	if err := json.NewDecoder(r).Decode(&forest); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	if err := forest.Validate(); err != nil {
		return nil, err
	}
	if forest.Probability != nil && !*forest.Probability {
		return NewLabelOnly(&forest), nil
	}
	return &forest, nil
}

// Validate checks the node graph so prediction can never index out of range
// or loop.
func (f *Forest) Validate() error {
	if f.NFeaturesIn <= 0 {
		return fmt.Errorf("%w: n_features_in must be positive", ErrInvalidModel)
	}
	if len(f.Classes) == 0 {
		return fmt.Errorf("%w: no classes", ErrInvalidModel)
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("%w: no trees", ErrInvalidModel)
	}
	for ti, tree := range f.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("%w: tree %d is empty", ErrInvalidModel, ti)
		}
		for ni, n := range tree.Nodes {
			if n.Left == leaf && n.Right == leaf {
				if len(n.Value) != len(f.Classes) {
					return fmt.Errorf("%w: tree %d leaf %d has %d values for %d classes",
						ErrInvalidModel, ti, ni, len(n.Value), len(f.Classes))
				}
				continue
			}
			if n.Feature < 0 || n.Feature >= f.NFeaturesIn {
				return fmt.Errorf("%w: tree %d node %d splits on feature %d", ErrInvalidModel, ti, ni, n.Feature)
			}
			// children always follow their parent in depth-first export order
			if n.Left <= ni || n.Left >= len(tree.Nodes) || n.Right <= ni || n.Right >= len(tree.Nodes) {
				return fmt.Errorf("%w: tree %d node %d has invalid children", ErrInvalidModel, ti, ni)
			}
		}
	}
	return nil
}

func (f *Forest) Name() string {
	if f.ModelType == "" {
		return "RandomForestClassifier"
	}
	return f.ModelType
}

func (f *Forest) NumFeatures() int { return f.NFeaturesIn }

// PredictProba averages the normalized leaf distribution of every tree.
func (f *Forest) PredictProba(x []float64) ([]float64, error) {
	if len(x) != f.NFeaturesIn {
		return nil, fmt.Errorf("%w: got %d features, want %d", ErrShapeMismatch, len(x), f.NFeaturesIn)
	}

	proba := make([]float64, len(f.Classes))
	for _, tree := range f.Trees {
		dist := tree.leafFor(x).Value
		var total float64
		for _, v := range dist {
			total += v
		}
		if total <= 0 {
			continue
		}
		for i, v := range dist {
			proba[i] += v / total
		}
	}
	for i := range proba {
		proba[i] /= float64(len(f.Trees))
	}
	return proba, nil
}

// Predict returns the class with the highest mean probability; ties go to
// the earlier class.
func (f *Forest) Predict(x []float64) (int, error) {
	proba, err := f.PredictProba(x)
	if err != nil {
		return 0, err
	}
	best := 0
	for i := 1; i < len(proba); i++ {
		if proba[i] > proba[best] {
			best = i
		}
	}
	return f.Classes[best], nil
}

func (t Tree) leafFor(x []float64) Node {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Left == leaf && n.Right == leaf {
			return n
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// LabelOnly hides the probability output of a model.
type LabelOnly struct {
	model Model
}

// NewLabelOnly wraps m so callers see only Predict, even when m can
// produce probabilities.
func NewLabelOnly(m Model) LabelOnly { return LabelOnly{model: m} }

func (l LabelOnly) Name() string                     { return l.model.Name() }
func (l LabelOnly) NumFeatures() int                 { return l.model.NumFeatures() }
func (l LabelOnly) Predict(x []float64) (int, error) { return l.model.Predict(x) }
