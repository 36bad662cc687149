// Package analyzer orchestrates a video sentiment analysis: resolve the
// video id, gather title and comments, and run the two-stage classification
// pipeline over the collected set.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/spacesedan/tubepulse/internal/artifacts"
	"github.com/spacesedan/tubepulse/internal/models"
	"github.com/spacesedan/tubepulse/internal/youtube"
)

const (
	commentPageSize   = 100
	displayedComments = 20

	// syntheticVideoID tags analyses built from caller-provided comment
	// lists rather than a fetched video.
	syntheticVideoID = "provided_comments"
)

// CommentSource lists the comments for a video id. Any provider exposing a
// paginated comment listing can back it.
type CommentSource interface {
	FetchComments(ctx context.Context, videoID string, pageSize int64) ([]models.Comment, error)
}

// MetadataSource resolves a display title; implementations degrade internally
// and never fail.
type MetadataSource interface {
	GetTitle(ctx context.Context, videoID string) string
}

// Analyzer is the dependency-injected analysis service. The artifact store is
// read-only after construction, so one Analyzer safely serves concurrent
// requests.
type Analyzer struct {
	store    *artifacts.Store
	comments CommentSource
	metadata MetadataSource
}

func New(store *artifacts.Store, comments CommentSource, metadata MetadataSource) *Analyzer {
	return &Analyzer{store: store, comments: comments, metadata: metadata}
}

// IsReady reports whether all classification artifacts are available.
func (a *Analyzer) IsReady() bool { return a.store.IsReady() }

// Analyze runs the full pipeline for a video URL. On failure the returned
// error is always a *models.AnalysisError carrying the defaulted result
// shape, so callers render every outcome uniformly.
func (a *Analyzer) Analyze(ctx context.Context, videoURL string) (*models.AnalysisReport, error) {
	videoID, err := youtube.ParseVideoID(videoURL)
	if err != nil {
		slog.Warn("[Analyzer] Rejected video URL",
			slog.String("url", videoURL))
		return nil, models.NewAnalysisError(err.Error(), "", "")
	}

	slog.Info("[Analyzer] Analyzing video",
		slog.String("video_id", videoID),
		slog.String("url", videoURL))

	title := a.metadata.GetTitle(ctx, videoID)

	comments, err := a.comments.FetchComments(ctx, videoID, commentPageSize)
	if err != nil || len(comments) == 0 {
		return nil, models.NewAnalysisError(
			fmt.Sprintf("Failed to fetch comments for video %s", videoID), videoID, title)
	}

	label, distribution, index := a.Predict(comments)

	return &models.AnalysisReport{
		VideoID:            videoID,
		VideoTitle:         title,
		PredictedSentiment: label,
		DominantEmotion:    distribution.Dominant(),
		Emotions:           distribution,
		EmotionComments:    index,
		CommentsUsed:       topCommentTexts(comments, displayedComments),
		// Reported as the pipeline's selection bound, not the number of
		// comments that survived filtering; the historical response contract
		// fixes this value.
		TotalCommentsAnalyzed: MaxClassifiedComments,
	}, nil
}

// AnalyzeList analyzes caller-provided comment texts directly, bypassing the
// video APIs. Blank strings are dropped; the rest become synthetic comments
// with a unit like count.
func (a *Analyzer) AnalyzeList(comments []string, videoTitle string) (*models.AnalysisReport, error) {
	if len(comments) == 0 {
		return nil, models.NewAnalysisError("No comments provided", "", videoTitle)
	}
	if !a.store.IsReady() {
		return nil, models.NewAnalysisError("Models not loaded properly", "", videoTitle)
	}

	synthetic := make([]models.Comment, 0, len(comments))
	for i, text := range comments {
		if strings.TrimSpace(text) == "" {
			continue
		}
		synthetic = append(synthetic, models.Comment{
			Author:        fmt.Sprintf("TestUser%d", i),
			Text:          text,
			LikeCount:     1,
			SourceVideoID: syntheticVideoID,
		})
	}
	if len(synthetic) == 0 {
		return nil, models.NewAnalysisError("No valid comments provided", "", videoTitle)
	}

	slog.Info("[Analyzer] Analyzing provided comments",
		slog.Int("comments", len(synthetic)))

	label, distribution, index := a.Predict(synthetic)

	return &models.AnalysisReport{
		VideoID:               syntheticVideoID,
		VideoTitle:            videoTitle,
		PredictedSentiment:    label,
		DominantEmotion:       distribution.Dominant(),
		Emotions:              distribution,
		EmotionComments:       index,
		CommentsUsed:          []string{},
		TotalCommentsAnalyzed: len(synthetic),
	}, nil
}

// topCommentTexts returns the texts of the most-liked comments for display.
// This is wider bookkeeping than the classified set and independent of it.
func topCommentTexts(comments []models.Comment, limit int) []string {
	ranked := make([]models.Comment, len(comments))
	copy(ranked, comments)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].LikeCount > ranked[j].LikeCount
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	texts := make([]string, len(ranked))
	for i, comment := range ranked {
		texts[i] = comment.Text
	}
	return texts
}
