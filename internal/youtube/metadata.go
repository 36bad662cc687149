package youtube

import (
	"context"
	"fmt"
	"log/slog"
)

const maxErrorPreviewLen = 50

// MetadataAPI is the title lookup operation.
type MetadataAPI interface {
	VideoTitle(ctx context.Context, videoID string) (title string, found bool, err error)
}

// TitleCache is an optional lookaside for resolved titles.
type TitleCache interface {
	GetTitle(ctx context.Context, videoID string) (string, bool)
	SetTitle(ctx context.Context, videoID, title string)
}

type MetadataFetcher struct {
	api   MetadataAPI
	cache TitleCache
}

// NewMetadataFetcher builds the adapter; cache may be nil.
func NewMetadataFetcher(api MetadataAPI, cache TitleCache) *MetadataFetcher {
	return &MetadataFetcher{api: api, cache: cache}
}

// GetTitle resolves a display title and never fails: lookup problems degrade
// to a descriptive placeholder so a bad title cannot abort an analysis.
func (m *MetadataFetcher) GetTitle(ctx context.Context, videoID string) string {
	if m.cache != nil {
		if title, ok := m.cache.GetTitle(ctx, videoID); ok {
			return title
		}
	}

	title, found, err := m.api.VideoTitle(ctx, videoID)
	if err != nil {
		slog.Error("[MetadataFetcher] Title lookup failed",
			slog.String("video_id", videoID),
			slog.String("error", err.Error()))
		preview := err.Error()
		if len(preview) > maxErrorPreviewLen {
			preview = preview[:maxErrorPreviewLen]
		}
		return fmt.Sprintf("Title Unavailable (%s)", preview)
	}
	if !found {
		slog.Warn("[MetadataFetcher] No video found",
			slog.String("video_id", videoID))
		return fmt.Sprintf("Video Not Found (ID: %s)", videoID)
	}

	if m.cache != nil {
		m.cache.SetTitle(ctx, videoID, title)
	}
	return title
}
