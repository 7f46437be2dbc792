// Package youtubeapi wraps the YouTube Data API v3 for the single purpose of
// resolving video metadata (publish date, title, duration) from a video id.
// Lookups are API-key authenticated and best-effort: one request per call, no
// retry and no caching.
package youtubeapi

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

// ErrNoData indicates the provider answered but returned no usable item for
// the requested id (unknown, deleted, or region-blocked video).
var ErrNoData = errors.New("youtube: no metadata available")

// VideoMetadata is the subset of the videos.list response the ingestion
// pipeline persists. Duration keeps the provider's ISO-8601 token unparsed.
type VideoMetadata struct {
	PublishedAt string
	Title       string
	Duration    string
}

// Client performs metadata lookups against the videos.list endpoint.
type Client struct {
	svc *yt.Service
}

// New builds a Client authenticated with the given API key. Extra options are
// appended after the key so tests can override the endpoint.
func New(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("youtube: api key empty")
	}
	all := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := yt.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("youtube: new service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// FetchVideo resolves metadata for a single video id with one videos.list call
// requesting the snippet and contentDetails parts. A transport failure, a
// non-success status, or an empty items list is an error; the caller decides
// whether that is worth surfacing.
func (c *Client) FetchVideo(ctx context.Context, videoID string) (VideoMetadata, error) {
	if videoID == "" {
		return VideoMetadata{}, fmt.Errorf("youtube: video id empty")
	}
	resp, err := c.svc.Videos.List([]string{"snippet", "contentDetails"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return VideoMetadata{}, fmt.Errorf("youtube: videos.list status %d: %w", apiErr.Code, err)
		}
		return VideoMetadata{}, fmt.Errorf("youtube: videos.list: %w", err)
	}
	if len(resp.Items) == 0 {
		return VideoMetadata{}, fmt.Errorf("%w: id %s", ErrNoData, videoID)
	}
	item := resp.Items[0]
	if item.Snippet == nil || item.ContentDetails == nil {
		return VideoMetadata{}, fmt.Errorf("%w: partial item for id %s", ErrNoData, videoID)
	}
	return VideoMetadata{
		PublishedAt: item.Snippet.PublishedAt,
		Title:       item.Snippet.Title,
		Duration:    item.ContentDetails.Duration,
	}, nil
}
