package youtube

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeMetadataAPI struct {
	title string
	found bool
	err   error

	calls int
}

func (f *fakeMetadataAPI) VideoTitle(context.Context, string) (string, bool, error) {
	f.calls++
	return f.title, f.found, f.err
}

type mapTitleCache struct {
	titles map[string]string
}

func (c *mapTitleCache) GetTitle(_ context.Context, videoID string) (string, bool) {
	title, ok := c.titles[videoID]
	return title, ok
}

func (c *mapTitleCache) SetTitle(_ context.Context, videoID, title string) {
	c.titles[videoID] = title
}

func TestGetTitleFound(t *testing.T) {
	api := &fakeMetadataAPI{title: "Never Gonna Give You Up", found: true}
	m := NewMetadataFetcher(api, nil)

	assert.Equal(t, "Never Gonna Give You Up", m.GetTitle(context.Background(), "vid1"))
}

func TestGetTitleNotFound(t *testing.T) {
	api := &fakeMetadataAPI{found: false}
	m := NewMetadataFetcher(api, nil)

	assert.Equal(t, "Video Not Found (ID: vid1)", m.GetTitle(context.Background(), "vid1"))
}

func TestGetTitleLookupError(t *testing.T) {
	api := &fakeMetadataAPI{err: errors.New("boom")}
	m := NewMetadataFetcher(api, nil)

	assert.Equal(t, "Title Unavailable (boom)", m.GetTitle(context.Background(), "vid1"))
}

func TestGetTitleLookupErrorTruncated(t *testing.T) {
	api := &fakeMetadataAPI{err: errors.New(strings.Repeat("x", 120))}
	m := NewMetadataFetcher(api, nil)

	title := m.GetTitle(context.Background(), "vid1")
	assert.Equal(t, "Title Unavailable ("+strings.Repeat("x", 50)+")", title)
}

func TestGetTitleCacheHitSkipsAPI(t *testing.T) {
	api := &fakeMetadataAPI{title: "from api", found: true}
	cache := &mapTitleCache{titles: map[string]string{"vid1": "from cache"}}
	m := NewMetadataFetcher(api, cache)

	assert.Equal(t, "from cache", m.GetTitle(context.Background(), "vid1"))
	assert.Zero(t, api.calls)
}

func TestGetTitlePopulatesCache(t *testing.T) {
	api := &fakeMetadataAPI{title: "fresh title", found: true}
	cache := &mapTitleCache{titles: map[string]string{}}
	m := NewMetadataFetcher(api, cache)

	assert.Equal(t, "fresh title", m.GetTitle(context.Background(), "vid1"))
	assert.Equal(t, "fresh title", cache.titles["vid1"])
}
