// Package artifacts loads and evaluates the pre-trained model artifacts: a
// text-to-feature transform, a per-comment emotion classifier, and a
// count-vector aggregator. Artifacts are read once at startup and are
// read-only afterwards, so a single store is safe to share across concurrent
// analyses.
package artifacts

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
)

const (
	VectorizerFile = "tfidf_vectorizer.json"
	ClassifierFile = "comment_classifier.json"
	AggregatorFile = "aggregator.json"
)

var (
	ErrVectorizerNotLoaded = errors.New("tfidf vectorizer not loaded")
	ErrClassifierNotLoaded = errors.New("comment classifier not loaded")
	ErrAggregatorNotLoaded = errors.New("aggregator not loaded")
)

// FeatureTransform converts raw comment text into the numeric feature vector
// the per-comment classifier expects.
type FeatureTransform interface {
	Transform(text string) ([]float64, error)
}

// FeatureClassifier assigns an emotion code to a feature vector.
type FeatureClassifier interface {
	Predict(features []float64) (int, error)
}

// TextClassifier classifies raw text directly. Backends that bundle their own
// tokenization (ONNX transformers, the VADER lexicon) implement it and stand
// in for the transform+classifier pair.
type TextClassifier interface {
	ClassifyText(text string) (int, error)
}

// CountAggregator maps a label tally to a video-level emotion code.
type CountAggregator interface {
	PredictCounts(counts []int) (int, error)
}

// Store holds the loaded artifacts. Any slot may be empty; evaluation calls
// that need a missing artifact return an error instead of panicking.
type Store struct {
	vectorizer FeatureTransform
	classifier FeatureClassifier
	aggregator CountAggregator
	text       TextClassifier
}

// NewStore assembles a store from already-constructed artifacts. Load is the
// file-based path used at startup.
func NewStore(vectorizer FeatureTransform, classifier FeatureClassifier, aggregator CountAggregator) *Store {
	return &Store{vectorizer: vectorizer, classifier: classifier, aggregator: aggregator}
}

// Load reads the artifacts from modelDir. A missing or corrupt artifact
// leaves its slot empty and is reported through the probe methods and by
// errors from the evaluation calls; Load itself never fails.
func Load(modelDir string) *Store {
	s := &Store{}

	if v, err := LoadTFIDFVectorizer(filepath.Join(modelDir, VectorizerFile)); err != nil {
		slog.Warn("[Artifacts] TF-IDF vectorizer unavailable",
			slog.String("error", err.Error()))
	} else {
		s.vectorizer = v
		slog.Info("[Artifacts] TF-IDF vectorizer loaded",
			slog.Int("vocabulary_size", len(v.Vocabulary)))
	}

	if c, err := LoadTreeEnsemble(filepath.Join(modelDir, ClassifierFile)); err != nil {
		slog.Warn("[Artifacts] Comment classifier unavailable",
			slog.String("error", err.Error()))
	} else {
		s.classifier = c
		slog.Info("[Artifacts] Comment classifier loaded",
			slog.String("kind", c.Kind),
			slog.Int("trees", len(c.Trees)))
	}

	if a, err := LoadTreeEnsemble(filepath.Join(modelDir, AggregatorFile)); err != nil {
		slog.Warn("[Artifacts] Aggregator unavailable",
			slog.String("error", err.Error()))
	} else {
		s.aggregator = a
		slog.Info("[Artifacts] Aggregator loaded",
			slog.String("kind", a.Kind),
			slog.Int("trees", len(a.Trees)))
	}

	return s
}

// UseTextClassifier installs a backend that replaces the transform+classifier
// pair for per-comment classification.
func (s *Store) UseTextClassifier(tc TextClassifier) { s.text = tc }

// UseAggregator overrides the aggregator slot.
func (s *Store) UseAggregator(agg CountAggregator) { s.aggregator = agg }

func (s *Store) VectorizerLoaded() bool { return s.vectorizer != nil }
func (s *Store) ClassifierLoaded() bool { return s.classifier != nil }
func (s *Store) AggregatorLoaded() bool { return s.aggregator != nil }

// IsReady reports whether every artifact a prediction needs is available.
func (s *Store) IsReady() bool {
	textOK := s.text != nil || (s.vectorizer != nil && s.classifier != nil)
	return textOK && s.aggregator != nil
}

// ClassifyText produces the emotion code for one comment's text.
func (s *Store) ClassifyText(text string) (int, error) {
	if s.text != nil {
		return s.text.ClassifyText(text)
	}
	if s.vectorizer == nil {
		return 0, ErrVectorizerNotLoaded
	}
	if s.classifier == nil {
		return 0, ErrClassifierNotLoaded
	}
	features, err := s.vectorizer.Transform(text)
	if err != nil {
		return 0, fmt.Errorf("transform: %w", err)
	}
	return s.classifier.Predict(features)
}

// AggregateCounts maps a length-5 tally to the video-level emotion code.
func (s *Store) AggregateCounts(counts []int) (int, error) {
	if s.aggregator == nil {
		return 0, ErrAggregatorNotLoaded
	}
	return s.aggregator.PredictCounts(counts)
}

// MajorityAggregator picks the most frequent label, ties going to the lowest
// code. It backs development setups that have no trained aggregator.
type MajorityAggregator struct{}

func (MajorityAggregator) PredictCounts(counts []int) (int, error) {
	if len(counts) == 0 {
		return 0, errors.New("empty tally")
	}
	best := 0
	for i, count := range counts {
		if count > counts[best] {
			best = i
		}
	}
	return best, nil
}
