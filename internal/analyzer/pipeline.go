package analyzer

import (
	"log/slog"
	"math"
	"sort"

	"github.com/spacesedan/tubepulse/internal/models"
	"github.com/spacesedan/tubepulse/internal/sentiment"
)

const (
	// MaxClassifiedComments bounds the aggregator input. The count-vector
	// model was trained on tallies drawn from at-most-30-comment samples, so
	// this is a contract with the artifact, not a tunable.
	MaxClassifiedComments = 30

	maxIndexedTextLen = 100
)

// Predict runs the two-stage classification over a bounded, like-ranked
// selection of comments: classify each comment, tally the label counts, and
// aggregate the tally into a video-level label. The returned distribution is
// always the count-based percentages, independent of the aggregator's output.
//
// Any classifier or aggregator failure aborts the whole call to the fallback
// triple; a partial tally never escapes.
func (a *Analyzer) Predict(comments []models.Comment) (models.Label, models.EmotionDistribution, models.EmotionCommentIndex) {
	if len(comments) == 0 {
		slog.Warn("[Pipeline] No comments to classify")
		return fallback()
	}

	ranked := make([]models.Comment, len(comments))
	copy(ranked, comments)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].LikeCount > ranked[j].LikeCount
	})

	counts := make([]int, models.NumLabels)
	index := models.NewEmotionCommentIndex()
	totalValid := 0

	for _, comment := range ranked {
		if totalValid == MaxClassifiedComments {
			break
		}

		code, err := a.store.ClassifyText(sentiment.Normalize(comment.Text))
		if err != nil {
			slog.Error("[Pipeline] Comment classification failed",
				slog.String("error", err.Error()))
			return fallback()
		}

		label, ok := models.LabelFromCode(code)
		if !ok {
			slog.Warn("[Pipeline] Discarding comment with out-of-range prediction",
				slog.Int("prediction", code))
			continue
		}

		counts[code]++
		totalValid++
		index[label.String()] = append(index[label.String()], models.EmotionComment{
			Text:       truncateText(comment.Text),
			LikeCount:  comment.LikeCount,
			Author:     comment.Author,
			Prediction: code,
		})
	}

	if totalValid == 0 {
		slog.Warn("[Pipeline] No valid predictions produced")
		return fallback()
	}

	aggregated, err := a.store.AggregateCounts(counts)
	if err != nil {
		slog.Error("[Pipeline] Aggregation failed",
			slog.String("error", err.Error()))
		return fallback()
	}
	videoLabel, ok := models.LabelFromCode(aggregated)
	if !ok {
		slog.Error("[Pipeline] Aggregator produced out-of-range code",
			slog.Int("prediction", aggregated))
		return fallback()
	}

	slog.Info("[Pipeline] Classification complete",
		slog.Int("comments_classified", totalValid),
		slog.String("predicted_sentiment", videoLabel.String()))

	return videoLabel, distributionFromCounts(counts, totalValid), index
}

func fallback() (models.Label, models.EmotionDistribution, models.EmotionCommentIndex) {
	return models.LabelNeutral, models.DefaultEmotionDistribution(), models.NewEmotionCommentIndex()
}

func distributionFromCounts(counts []int, total int) models.EmotionDistribution {
	distribution := make(models.EmotionDistribution, models.NumLabels)
	for _, label := range models.AllLabels() {
		percentage := float64(counts[label]) / float64(total) * 100
		distribution[label.String()] = math.Round(percentage*100) / 100
	}
	return distribution
}

func truncateText(text string) string {
	runes := []rune(text)
	if len(runes) <= maxIndexedTextLen {
		return text
	}
	return string(runes[:maxIndexedTextLen]) + "..."
}
