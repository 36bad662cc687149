package artifacts

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/floats"
)

const (
	kindGradientBoosting = "gradient_boosting"
	kindRandomForest     = "random_forest"
)

// TreeNode is one node of a decision tree in array form. Interior nodes route
// on feature < threshold; leaves carry either a single margin (gradient
// boosting) or a class distribution (random forest).
type TreeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Leaf      bool      `json:"leaf"`
	Value     []float64 `json:"value,omitempty"`
}

type Tree struct {
	// Class is the output class this tree contributes to; gradient boosting
	// only, ignored for forests.
	Class int        `json:"class"`
	Nodes []TreeNode `json:"nodes"`
}

// TreeEnsemble evaluates an exported tree model. The same format serves both
// the boosted per-comment classifier and the count-vector forest aggregator.
type TreeEnsemble struct {
	Kind        string    `json:"kind"`
	NClasses    int       `json:"n_classes"`
	NFeatures   int       `json:"n_features"`
	InitMargins []float64 `json:"init_margins,omitempty"`
	Trees       []Tree    `json:"trees"`
}

func LoadTreeEnsemble(path string) (*TreeEnsemble, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ensemble: %w", err)
	}

	var e TreeEnsemble
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode ensemble: %w", err)
	}
	if e.Kind != kindGradientBoosting && e.Kind != kindRandomForest {
		return nil, fmt.Errorf("ensemble %s has unknown kind %q", path, e.Kind)
	}
	if e.NClasses <= 0 || len(e.Trees) == 0 {
		return nil, fmt.Errorf("ensemble %s is empty", path)
	}
	for i, tree := range e.Trees {
		if len(tree.Nodes) == 0 {
			return nil, fmt.Errorf("ensemble %s tree %d has no nodes", path, i)
		}
		if e.Kind == kindGradientBoosting && (tree.Class < 0 || tree.Class >= e.NClasses) {
			return nil, fmt.Errorf("ensemble %s tree %d targets class %d of %d", path, i, tree.Class, e.NClasses)
		}
	}
	return &e, nil
}

// Predict returns the argmax class for a feature vector. Ties resolve to the
// lowest class code.
func (e *TreeEnsemble) Predict(features []float64) (int, error) {
	margins := make([]float64, e.NClasses)
	copy(margins, e.InitMargins)

	for i := range e.Trees {
		tree := &e.Trees[i]
		leaf, err := e.walk(tree, features)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		switch e.Kind {
		case kindGradientBoosting:
			margins[tree.Class] += leaf[0]
		case kindRandomForest:
			for class := 0; class < e.NClasses && class < len(leaf); class++ {
				margins[class] += leaf[class]
			}
		}
	}

	return floats.MaxIdx(margins), nil
}

// PredictCounts runs the ensemble over an integer tally vector.
func (e *TreeEnsemble) PredictCounts(counts []int) (int, error) {
	if len(counts) != e.NFeatures {
		return 0, fmt.Errorf("expected tally of length %d, got %d", e.NFeatures, len(counts))
	}
	features := make([]float64, len(counts))
	for i, count := range counts {
		features[i] = float64(count)
	}
	return e.Predict(features)
}

func (e *TreeEnsemble) walk(tree *Tree, features []float64) ([]float64, error) {
	idx := 0
	for hops := 0; hops <= len(tree.Nodes); hops++ {
		if idx < 0 || idx >= len(tree.Nodes) {
			return nil, fmt.Errorf("node index %d out of range", idx)
		}
		node := &tree.Nodes[idx]
		if node.Leaf {
			if len(node.Value) == 0 {
				return nil, fmt.Errorf("leaf %d has no value", idx)
			}
			return node.Value, nil
		}
		// Features past the end of the vector count as zero.
		var value float64
		if node.Feature >= 0 && node.Feature < len(features) {
			value = features[node.Feature]
		}
		if value < node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
	return nil, fmt.Errorf("cycle detected")
}
