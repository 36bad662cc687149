package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// TFIDFVectorizer is a fitted tf-idf transform exported to JSON: a vocabulary
// of terms (unigrams up to NgramMax-grams, space-joined) with their column
// indices and the per-column idf weights.
type TFIDFVectorizer struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
	Lowercase  bool           `json:"lowercase"`
	NgramMin   int            `json:"ngram_min"`
	NgramMax   int            `json:"ngram_max"`
}

// Tokens are runs of at least two letters or digits, matching how the
// vocabulary was built.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]{2,}`)

func LoadTFIDFVectorizer(path string) (*TFIDFVectorizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vectorizer: %w", err)
	}

	var v TFIDFVectorizer
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode vectorizer: %w", err)
	}
	if len(v.Vocabulary) == 0 || len(v.IDF) == 0 {
		return nil, fmt.Errorf("vectorizer %s has an empty vocabulary", path)
	}
	for term, idx := range v.Vocabulary {
		if idx < 0 || idx >= len(v.IDF) {
			return nil, fmt.Errorf("vectorizer term %q maps to column %d outside idf table", term, idx)
		}
	}
	if v.NgramMin < 1 {
		v.NgramMin = 1
	}
	if v.NgramMax < v.NgramMin {
		v.NgramMax = v.NgramMin
	}
	return &v, nil
}

// Transform converts raw text into an L2-normalized tf-idf vector over the
// fitted vocabulary. Terms outside the vocabulary contribute nothing.
func (v *TFIDFVectorizer) Transform(text string) ([]float64, error) {
	if v.Lowercase {
		text = strings.ToLower(text)
	}
	words := tokenPattern.FindAllString(text, -1)

	vector := make([]float64, len(v.IDF))
	for n := v.NgramMin; n <= v.NgramMax; n++ {
		for i := 0; i+n <= len(words); i++ {
			term := strings.Join(words[i:i+n], " ")
			if idx, ok := v.Vocabulary[term]; ok {
				vector[idx] += v.IDF[idx]
			}
		}
	}

	if norm := floats.Norm(vector, 2); norm > 0 {
		floats.Scale(1/norm, vector)
	}
	return vector, nil
}
