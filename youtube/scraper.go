package youtube

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/newsmill/scrapers/channels"
	"github.com/newsmill/scrapers/scraper"
)

// ScraperName is the registry key for the video scraper.
const ScraperName = "youtube"

// VideoResult pairs a video with its transcript. TranscriptAvailable is the
// explicit marker distinguishing a missing transcript from an empty one, so
// callers can count on one VideoResult per listed video.
type VideoResult struct {
	Video               Video  `json:"video"`
	Transcript          string `json:"transcript,omitempty"`
	TranscriptAvailable bool   `json:"transcript_available"`
}

// VideoScraper fetches recent videos and their transcripts for a fixed set
// of channels. Its Run result is a []VideoResult.
type VideoScraper struct {
	client     Client
	channelIDs []string
	maxResults int
	logger     *zap.Logger
}

var _ scraper.Scraper = (*VideoScraper)(nil)

// NewVideoScraper creates a scraper over the given canonical channel IDs.
// maxResults bounds the number of videos fetched per channel and must be
// positive; a nil client is a configuration error. A nil logger disables
// logging.
func NewVideoScraper(client Client, channelIDs []string, maxResults int, logger *zap.Logger) (*VideoScraper, error) {
	if client == nil {
		return nil, errors.New("youtube scraper requires a client")
	}
	if maxResults <= 0 {
		return nil, fmt.Errorf("max results per channel must be positive, got %d", maxResults)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &VideoScraper{
		client:     client,
		channelIDs: channelIDs,
		maxResults: maxResults,
		logger:     logger,
	}, nil
}

// Name implements scraper.Scraper.
func (s *VideoScraper) Name() string {
	return ScraperName
}

// Run implements scraper.Scraper. Channels are processed in the order they
// were supplied. A channel whose feed cannot be fetched is logged and
// skipped; a video whose transcript cannot be fetched is still included,
// marked unavailable. Neither failure aborts the scrape.
func (s *VideoScraper) Run(ctx context.Context) (any, error) {
	var results []VideoResult

	for _, channelID := range s.channelIDs {
		videos, err := s.client.ListVideos(ctx, channelID, s.maxResults)
		if err != nil {
			s.logger.Error("failed to list channel videos",
				zap.String("channel_id", channelID),
				zap.Error(err))
			continue
		}
		s.logger.Info("listed channel videos",
			zap.String("channel_id", channelID),
			zap.Int("videos", len(videos)))

		for _, video := range videos {
			results = append(results, s.fetchOne(ctx, video))
		}
	}

	return results, nil
}

func (s *VideoScraper) fetchOne(ctx context.Context, video Video) VideoResult {
	result := VideoResult{Video: video}

	text, err := s.client.FetchTranscript(ctx, video.ID)
	if err != nil {
		s.logger.Warn("transcript unavailable",
			zap.String("video_id", video.ID),
			zap.String("channel_id", video.ChannelID),
			zap.Error(err))
		return result
	}

	result.Transcript = text
	result.TranscriptAvailable = true
	return result
}

// ResolveRefs turns parsed channel references into canonical channel IDs.
// Canonical references pass through without a lookup. References that cannot
// be resolved are logged at warn level and dropped; order is preserved for
// the rest.
func ResolveRefs(ctx context.Context, client Client, refs []channels.Ref, logger *zap.Logger) []string {
	if logger == nil {
		logger = zap.NewNop()
	}

	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		id, err := client.ResolveChannelID(ctx, ref)
		if err != nil {
			logger.Warn("could not resolve channel reference",
				zap.String("reference", ref.Raw),
				zap.String("kind", ref.Kind.String()),
				zap.Error(err))
			continue
		}
		logger.Info("resolved channel reference",
			zap.String("reference", ref.Raw),
			zap.String("channel_id", id))
		ids = append(ids, id)
	}
	return ids
}
