package youtube

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/newsmill/scrapers/channels"
	"github.com/newsmill/scrapers/scraper"
)

// TestPipeline_EndToEnd runs the whole chain: channel list parsing,
// reference resolution with one dead handle, scraper construction,
// registration, and a full batch run.
func TestPipeline_EndToEnd(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)

	channelList := strings.Join([]string{
		"# comment",
		"",
		"https://www.youtube.com/channel/UCabc",
		"https://www.youtube.com/@nonsense_handle_not_on_platform",
	}, "\n")

	refs, err := channels.Parse(strings.NewReader(channelList), logger)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.True(t, refs[0].Canonical())
	assert.False(t, refs[1].Canonical())

	client := &fakeClient{
		resolve: func(_ context.Context, ref channels.Ref) (string, error) {
			if ref.Canonical() {
				return ref.Value, nil
			}
			return "", fmt.Errorf("lookup for %q: %w", ref.Raw, ErrChannelNotFound)
		},
		list: func(_ context.Context, channelID string, limit int) ([]Video, error) {
			return channelVideos(channelID, 2), nil
		},
		transcript: func(_ context.Context, videoID string) (string, error) {
			return "transcript of " + videoID, nil
		},
	}

	ids := ResolveRefs(context.Background(), client, refs, logger)
	require.Equal(t, []string{"UCabc"}, ids, "the dead handle is dropped, the canonical channel stays")
	require.Len(t, logs.FilterMessage("could not resolve channel reference").All(), 1)

	videoScraper, err := NewVideoScraper(client, ids, 3, logger)
	require.NoError(t, err)

	runner := scraper.NewRunner(logger)
	runner.Register(videoScraper)

	outcome := runner.RunAll(context.Background())
	require.Equal(t, 1, outcome.Len())

	res, ok := outcome.Get(ScraperName)
	require.True(t, ok)
	require.False(t, res.Failed())

	results := res.Value.([]VideoResult)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, "UCabc", r.Video.ChannelID)
		assert.True(t, r.TranscriptAvailable)
	}
}
