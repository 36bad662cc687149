package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelFromCode(t *testing.T) {
	for code := 0; code < NumLabels; code++ {
		label, ok := LabelFromCode(code)
		require.True(t, ok, "code %d should map to a label", code)
		assert.Equal(t, code, int(label))
	}

	for _, code := range []int{-1, 5, 42} {
		_, ok := LabelFromCode(code)
		assert.False(t, ok, "code %d should be rejected", code)
	}
}

func TestLabelString(t *testing.T) {
	assert.Equal(t, "neutral", LabelNeutral.String())
	assert.Equal(t, "happy", LabelHappy.String())
	assert.Equal(t, "funny", LabelFunny.String())
	assert.Equal(t, "fear", LabelFear.String())
	assert.Equal(t, "sad", LabelSad.String())
	assert.Equal(t, "unknown", Label(9).String())
}

func TestLabelMarshalsToString(t *testing.T) {
	out, err := json.Marshal(LabelFunny)
	require.NoError(t, err)
	assert.Equal(t, `"funny"`, string(out))
}

func TestDefaultEmotionDistribution(t *testing.T) {
	dist := DefaultEmotionDistribution()

	assert.Equal(t, 20.0, dist["neutral"])
	assert.Equal(t, 30.0, dist["happy"])
	assert.Equal(t, 15.0, dist["funny"])
	assert.Equal(t, 15.0, dist["fear"])
	assert.Equal(t, 20.0, dist["sad"])
	assert.Equal(t, LabelHappy, dist.Dominant())
}

func TestDominantTieBreaksInEnumerationOrder(t *testing.T) {
	dist := EmotionDistribution{
		"neutral": 10,
		"happy":   45,
		"funny":   0,
		"fear":    0,
		"sad":     45,
	}
	assert.Equal(t, LabelHappy, dist.Dominant())

	allEqual := EmotionDistribution{
		"neutral": 20,
		"happy":   20,
		"funny":   20,
		"fear":    20,
		"sad":     20,
	}
	assert.Equal(t, LabelNeutral, allEqual.Dominant())
}

func TestNewEmotionCommentIndexHasAllLabels(t *testing.T) {
	index := NewEmotionCommentIndex()

	require.Len(t, index, NumLabels)
	for _, label := range AllLabels() {
		bucket, ok := index[label.String()]
		require.True(t, ok, "missing bucket for %s", label)
		assert.Empty(t, bucket)
	}
}

func TestNewAnalysisErrorIsSchemaComplete(t *testing.T) {
	analysisErr := NewAnalysisError("boom", "vid123", "Some Title")

	assert.Equal(t, "boom", analysisErr.Error())
	assert.Equal(t, "vid123", analysisErr.VideoID)
	assert.Equal(t, "Some Title", analysisErr.VideoTitle)
	assert.Equal(t, DefaultEmotionDistribution(), analysisErr.Emotions)
	assert.Equal(t, LabelNeutral, analysisErr.DominantEmotion)
	assert.NotNil(t, analysisErr.CommentsUsed)
	assert.Empty(t, analysisErr.CommentsUsed)
	assert.Zero(t, analysisErr.TotalCommentsAnalyzed)
}
