package models

import "math"

// EmotionDistribution maps label names to percentages. Distributions derived
// from a non-empty tally sum to ~100; the default prior below is a declared
// fallback, not a computed value.
type EmotionDistribution map[string]float64

// DefaultEmotionDistribution is the fixed prior returned whenever no usable
// comment data exists.
func DefaultEmotionDistribution() EmotionDistribution {
	return EmotionDistribution{
		"neutral": 20,
		"happy":   30,
		"funny":   15,
		"fear":    15,
		"sad":     20,
	}
}

// Dominant returns the label with the highest percentage. Ties resolve to the
// first maximum in enumeration order.
func (d EmotionDistribution) Dominant() Label {
	best := LabelNeutral
	bestValue := math.Inf(-1)
	for _, label := range AllLabels() {
		if value, ok := d[label.String()]; ok && value > bestValue {
			best = label
			bestValue = value
		}
	}
	return best
}

// EmotionComment is the display record kept per classified comment. It is
// bookkeeping for the UI and plays no part in aggregation math.
type EmotionComment struct {
	Text       string `json:"text"`
	LikeCount  int64  `json:"like_count"`
	Author     string `json:"author"`
	Prediction int    `json:"prediction"`
}

// EmotionCommentIndex groups display records by predicted label. All five
// keys are always present.
type EmotionCommentIndex map[string][]EmotionComment

func NewEmotionCommentIndex() EmotionCommentIndex {
	index := make(EmotionCommentIndex, NumLabels)
	for _, label := range AllLabels() {
		index[label.String()] = []EmotionComment{}
	}
	return index
}

// AnalysisReport is the result of one successful analysis. Constructed fresh
// per request, never persisted, never mutated after construction.
type AnalysisReport struct {
	VideoID               string              `json:"video_id"`
	VideoTitle            string              `json:"video_title"`
	PredictedSentiment    Label               `json:"predicted_sentiment"`
	DominantEmotion       Label               `json:"dominant_emotion"`
	Emotions              EmotionDistribution `json:"emotions"`
	EmotionComments       EmotionCommentIndex `json:"emotion_comments"`
	CommentsUsed          []string            `json:"comments_used"`
	TotalCommentsAnalyzed int                 `json:"total_comments_analyzed"`
}

// AnalysisError is the failure half of an analysis outcome. It carries the
// full defaulted result shape so callers can render every response uniformly.
type AnalysisError struct {
	Message               string              `json:"error"`
	VideoID               string              `json:"video_id"`
	VideoTitle            string              `json:"video_title"`
	Emotions              EmotionDistribution `json:"emotions"`
	DominantEmotion       Label               `json:"dominant_emotion"`
	CommentsUsed          []string            `json:"comments_used"`
	TotalCommentsAnalyzed int                 `json:"total_comments_analyzed"`
}

func NewAnalysisError(message, videoID, videoTitle string) *AnalysisError {
	return &AnalysisError{
		Message:         message,
		VideoID:         videoID,
		VideoTitle:      videoTitle,
		Emotions:        DefaultEmotionDistribution(),
		DominantEmotion: LabelNeutral,
		CommentsUsed:    []string{},
	}
}

func (e *AnalysisError) Error() string { return e.Message }
