// Package youtube adapts the external video APIs: paginated comment
// collection and title lookup.
package youtube

import (
	"errors"
	"strings"
)

// ErrInvalidURL is reported verbatim to callers; the message is part of the
// response contract.
var ErrInvalidURL = errors.New("Invalid YouTube URL format")

// ParseVideoID extracts the video id from the two recognized URL forms:
// watch URLs carrying a v= parameter and youtu.be short links.
func ParseVideoID(videoURL string) (string, error) {
	switch {
	case strings.Contains(videoURL, "v="):
		id := strings.SplitN(videoURL, "v=", 2)[1]
		return strings.SplitN(id, "&", 2)[0], nil
	case strings.Contains(videoURL, "youtu.be/"):
		id := strings.SplitN(videoURL, "youtu.be/", 2)[1]
		return strings.SplitN(id, "?", 2)[0], nil
	}
	return "", ErrInvalidURL
}
