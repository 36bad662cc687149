package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/tubepulse/internal/clients"
	"github.com/spacesedan/tubepulse/internal/models"
)

// Hard cap on pagination: a source with pathological continuation tokens must
// not turn one analysis into an unbounded crawl.
const maxCommentPages = 10

// CommentAPI is the single page operation the fetcher needs. Any provider
// that can list comments for a video id by continuation token satisfies it.
type CommentAPI interface {
	CommentPage(ctx context.Context, videoID, pageToken string, pageSize int64) ([]models.Comment, string, error)
}

type CommentFetcher struct {
	api     CommentAPI
	backoff time.Duration
}

func NewCommentFetcher(api CommentAPI) *CommentFetcher {
	return &CommentFetcher{api: api, backoff: clients.INITIAL_BACKOFF}
}

// FetchComments collects top-level comments across pages. Any page failure
// discards everything collected so far: a partial sample must never be
// analyzed as if it were complete.
func (f *CommentFetcher) FetchComments(ctx context.Context, videoID string, pageSize int64) ([]models.Comment, error) {
	var comments []models.Comment
	pageToken := ""

	for page := 1; page <= maxCommentPages; page++ {
		pageComments, nextToken, err := f.fetchPage(ctx, videoID, pageToken, pageSize)
		if err != nil {
			slog.Error("[CommentFetcher] Page fetch failed, discarding partial results",
				slog.String("video_id", videoID),
				slog.Int("page", page),
				slog.Int("discarded", len(comments)),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("fetch comments for video %s: %w", videoID, err)
		}

		comments = append(comments, pageComments...)
		slog.Info("[CommentFetcher] Page fetched",
			slog.String("video_id", videoID),
			slog.Int("page", page),
			slog.Int("page_comments", len(pageComments)),
			slog.Int("total", len(comments)))

		if nextToken == "" {
			break
		}
		pageToken = nextToken
	}

	verified := make([]models.Comment, 0, len(comments))
	for _, comment := range comments {
		if comment.SourceVideoID == videoID {
			verified = append(verified, comment)
		}
	}
	if mismatched := len(comments) - len(verified); mismatched > 0 {
		slog.Warn("[CommentFetcher] Dropped comments tagged with a different video",
			slog.String("video_id", videoID),
			slog.Int("mismatched", mismatched))
	}

	return verified, nil
}

// fetchPage retries transient page failures with doubling backoff before the
// whole call gives up.
func (f *CommentFetcher) fetchPage(ctx context.Context, videoID, pageToken string, pageSize int64) ([]models.Comment, string, error) {
	backoff := f.backoff
	var lastErr error

	for attempt := 1; attempt <= clients.MAX_RETRIES; attempt++ {
		comments, nextToken, err := f.api.CommentPage(ctx, videoID, pageToken, pageSize)
		if err == nil {
			return comments, nextToken, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, "", lastErr
		}

		slog.Warn("[CommentFetcher] Page request failed, will retry",
			slog.String("video_id", videoID),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))

		if attempt < clients.MAX_RETRIES {
			time.Sleep(backoff)
			backoff *= 2
			if backoff > clients.MAX_BACKOFF {
				backoff = clients.MAX_BACKOFF
			}
		}
	}

	return nil, "", lastErr
}
