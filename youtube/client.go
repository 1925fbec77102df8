// Package youtube implements the YouTube video/transcript scraper and the
// data-source client it consumes.
package youtube

import (
	"context"
	"errors"
	"time"

	"github.com/newsmill/scrapers/channels"
)

// Custom errors for client operations
var (
	// ErrChannelNotFound indicates a handle, custom name, or username that
	// could not be resolved to a channel ID.
	ErrChannelNotFound = errors.New("channel not found")
	// ErrTranscriptUnavailable indicates a video with no fetchable
	// transcript.
	ErrTranscriptUnavailable = errors.New("transcript unavailable")
)

// Video is one entry from a channel's uploads feed.
type Video struct {
	ID          string    `json:"video_id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	ChannelID   string    `json:"channel_id"`
	PublishedAt time.Time `json:"published_at"`
}

// Client is the data-source contract the video scraper consumes. The real
// implementation talks to YouTube over HTTP; tests substitute fakes.
type Client interface {
	// ResolveChannelID turns a channel reference into a canonical channel
	// ID. Canonical references pass through unchanged. Returns an error
	// wrapping ErrChannelNotFound when the reference does not exist.
	ResolveChannelID(ctx context.Context, ref channels.Ref) (string, error)

	// ListVideos returns up to limit recent videos from the channel's
	// uploads feed, newest first.
	ListVideos(ctx context.Context, channelID string, limit int) ([]Video, error)

	// FetchTranscript returns the transcript text for a video. Returns an
	// error wrapping ErrTranscriptUnavailable when the video has no
	// transcript.
	FetchTranscript(ctx context.Context, videoID string) (string, error)
}
