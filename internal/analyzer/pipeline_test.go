package analyzer

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/tubepulse/internal/artifacts"
	"github.com/spacesedan/tubepulse/internal/models"
)

// keywordClassifier assigns emotion codes by substring so tests can steer
// predictions through comment texts.
type keywordClassifier struct{}

func (keywordClassifier) ClassifyText(text string) (int, error) {
	switch {
	case strings.Contains(text, "joy"):
		return int(models.LabelHappy), nil
	case strings.Contains(text, "laugh"):
		return int(models.LabelFunny), nil
	case strings.Contains(text, "scary"):
		return int(models.LabelFear), nil
	case strings.Contains(text, "gloom"):
		return int(models.LabelSad), nil
	case strings.Contains(text, "broken"):
		return 0, errors.New("classifier failure")
	case strings.Contains(text, "garbage"):
		return 99, nil
	default:
		return int(models.LabelNeutral), nil
	}
}

func newTestAnalyzer() *Analyzer {
	store := artifacts.NewStore(nil, nil, artifacts.MajorityAggregator{})
	store.UseTextClassifier(keywordClassifier{})
	return New(store, nil, nil)
}

func textComments(texts ...string) []models.Comment {
	comments := make([]models.Comment, len(texts))
	for i, text := range texts {
		comments[i] = models.Comment{Author: fmt.Sprintf("u%d", i), Text: text, LikeCount: 1}
	}
	return comments
}

func indexedTotal(index models.EmotionCommentIndex) int {
	total := 0
	for _, bucket := range index {
		total += len(bucket)
	}
	return total
}

func assertFallback(t *testing.T, label models.Label, distribution models.EmotionDistribution, index models.EmotionCommentIndex) {
	t.Helper()
	assert.Equal(t, models.LabelNeutral, label)
	assert.Equal(t, models.DefaultEmotionDistribution(), distribution)
	assert.Zero(t, indexedTotal(index))
}

func TestPredictDistribution(t *testing.T) {
	a := newTestAnalyzer()

	comments := textComments("pure joy", "joy again", "made me laugh", "nothing much")
	label, distribution, index := a.Predict(comments)

	assert.Equal(t, models.LabelHappy, label)
	assert.InDelta(t, 50.0, distribution["happy"], 0.01)
	assert.InDelta(t, 25.0, distribution["funny"], 0.01)
	assert.InDelta(t, 25.0, distribution["neutral"], 0.01)
	assert.Zero(t, distribution["fear"])
	assert.Zero(t, distribution["sad"])

	assert.Len(t, index["happy"], 2)
	assert.Len(t, index["funny"], 1)
	assert.Len(t, index["neutral"], 1)
}

func TestPredictDistributionSumsToHundred(t *testing.T) {
	a := newTestAnalyzer()

	comments := textComments("joy", "joy", "joy", "laugh", "scary", "gloom", "meh")
	_, distribution, _ := a.Predict(comments)

	sum := 0.0
	for _, label := range models.AllLabels() {
		sum += distribution[label.String()]
	}
	assert.InDelta(t, 100.0, sum, 0.1)
	assert.Equal(t, distribution.Dominant(), models.LabelHappy)
}

func TestPredictCapsClassifiedComments(t *testing.T) {
	a := newTestAnalyzer()

	comments := make([]models.Comment, 1000)
	for i := range comments {
		comments[i] = models.Comment{Text: "joy", LikeCount: int64(i)}
	}

	label, _, index := a.Predict(comments)

	assert.Equal(t, models.LabelHappy, label)
	assert.Equal(t, MaxClassifiedComments, indexedTotal(index))
}

func TestPredictSelectsMostLikedComments(t *testing.T) {
	a := newTestAnalyzer()

	comments := make([]models.Comment, 40)
	for i := range comments {
		comments[i] = models.Comment{Text: "joy", LikeCount: int64(i + 1)}
	}

	_, _, index := a.Predict(comments)

	require.Len(t, index["happy"], MaxClassifiedComments)
	for _, entry := range index["happy"] {
		assert.GreaterOrEqual(t, entry.LikeCount, int64(11))
	}
}

func TestPredictDropsOutOfRangePrediction(t *testing.T) {
	a := newTestAnalyzer()

	_, distribution, index := a.Predict(textComments("garbage prediction", "joy", "gloom"))

	assert.Equal(t, 2, indexedTotal(index))
	assert.InDelta(t, 50.0, distribution["happy"], 0.01)
	assert.InDelta(t, 50.0, distribution["sad"], 0.01)
}

func TestPredictFallsBackOnClassifierError(t *testing.T) {
	a := newTestAnalyzer()

	label, distribution, index := a.Predict(textComments("joy", "broken classifier", "joy"))
	assertFallback(t, label, distribution, index)
}

func TestPredictFallsBackWhenNothingValid(t *testing.T) {
	a := newTestAnalyzer()

	label, distribution, index := a.Predict(textComments("garbage", "garbage"))
	assertFallback(t, label, distribution, index)
}

func TestPredictFallsBackOnEmptyInput(t *testing.T) {
	a := newTestAnalyzer()

	label, distribution, index := a.Predict(nil)
	assertFallback(t, label, distribution, index)
}

func TestPredictTruncatesIndexedText(t *testing.T) {
	a := newTestAnalyzer()

	long := "joy " + strings.Repeat("x", 200)
	_, _, index := a.Predict(textComments(long))

	require.Len(t, index["happy"], 1)
	text := index["happy"][0].Text
	assert.True(t, strings.HasSuffix(text, "..."))
	assert.Len(t, []rune(text), maxIndexedTextLen+3)
}
