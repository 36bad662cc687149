package models

import "time"

// Comment is one top-level comment as fetched from the comment source.
// Comments are immutable once fetched and are never deduplicated.
type Comment struct {
	Author        string    `json:"author"`
	Text          string    `json:"text"`
	LikeCount     int64     `json:"like_count"`
	PublishedAt   time.Time `json:"published_at"`
	SourceVideoID string    `json:"source_video_id"`
}
