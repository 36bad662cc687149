package sentiment

import (
	"github.com/jonreiter/govader"

	"github.com/spacesedan/tubepulse/internal/models"
)

// LexiconClassifier scores comments with VADER. It backs development setups
// that have no trained artifacts; the lexicon can only distinguish polarity,
// so it maps onto the happy/sad/neutral subset of the emotion codes.
type LexiconClassifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewLexiconClassifier() *LexiconClassifier {
	return &LexiconClassifier{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (c *LexiconClassifier) ClassifyText(text string) (int, error) {
	scores := c.analyzer.PolarityScores(Normalize(text))

	switch {
	case scores.Compound >= 0.20:
		return int(models.LabelHappy), nil
	case scores.Compound <= -0.20:
		return int(models.LabelSad), nil
	default:
		return int(models.LabelNeutral), nil
	}
}
