package clients

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"google.golang.org/api/googleapi/transport"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/spacesedan/tubepulse/internal/models"
)

var (
	youtubeInstance *YouTubeClient
	youtubeOnce     sync.Once
	youtubeErr      error
)

// YouTubeClient wraps the YouTube Data v3 service for comment and metadata
// lookups. API-key auth rides on the HTTP transport so the request timeout
// stays explicit and configurable.
type YouTubeClient struct {
	service *youtube.Service
}

func GetYouTubeClient() (*YouTubeClient, error) {
	youtubeOnce.Do(func() {
		apiKey := os.Getenv("YOUTUBE_API_KEY")
		if apiKey == "" {
			slog.Warn("[YouTubeClient] YOUTUBE_API_KEY is not set, API calls will be rejected")
		}

		timeout := DEFAULT_TIMEOUT_SECONDS * time.Second
		if raw := os.Getenv("YOUTUBE_TIMEOUT_SECONDS"); raw != "" {
			if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
				timeout = time.Duration(seconds) * time.Second
			}
		}

		httpClient := &http.Client{
			Timeout:   timeout,
			Transport: &transport.APIKey{Key: apiKey},
		}

		service, err := youtube.NewService(context.Background(), option.WithHTTPClient(httpClient))
		if err != nil {
			youtubeErr = err
			return
		}

		slog.Info("[YouTubeClient] Initialized",
			slog.Duration("timeout", timeout))
		youtubeInstance = &YouTubeClient{service: service}
	})

	if youtubeErr != nil {
		return nil, youtubeErr
	}
	return youtubeInstance, nil
}

// CommentPage fetches one page of top-level comments in plain text. Records
// are stamped with the video id the API reports so cross-video contamination
// is detectable downstream.
func (c *YouTubeClient) CommentPage(ctx context.Context, videoID, pageToken string, pageSize int64) ([]models.Comment, string, error) {
	call := c.service.CommentThreads.List([]string{"snippet"}).
		VideoId(videoID).
		MaxResults(pageSize).
		TextFormat("plainText").
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, "", err
	}

	comments := make([]models.Comment, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Snippet == nil || item.Snippet.TopLevelComment == nil || item.Snippet.TopLevelComment.Snippet == nil {
			continue
		}
		snippet := item.Snippet.TopLevelComment.Snippet

		sourceID := snippet.VideoId
		if sourceID == "" {
			sourceID = videoID
		}
		published, _ := time.Parse(time.RFC3339, snippet.PublishedAt)

		comments = append(comments, models.Comment{
			Author:        snippet.AuthorDisplayName,
			Text:          snippet.TextDisplay,
			LikeCount:     snippet.LikeCount,
			PublishedAt:   published,
			SourceVideoID: sourceID,
		})
	}

	return comments, resp.NextPageToken, nil
}

// VideoTitle returns the snippet title, or found=false when no such video
// exists.
func (c *YouTubeClient) VideoTitle(ctx context.Context, videoID string) (string, bool, error) {
	resp, err := c.service.Videos.List([]string{"snippet"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return "", false, err
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return "", false, nil
	}
	return resp.Items[0].Snippet.Title, true, nil
}
