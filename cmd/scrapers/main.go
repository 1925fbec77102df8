// Command scrapers runs the registered scrapers once and prints a summary.
//
// It reads config/scrapers.yaml (optional) and the channel list it points at
// (config/channels.txt by default), resolves the channel references,
// registers the YouTube video scraper, and executes the batch. Individual
// scraper failures appear in the summary and logs but never affect the exit
// code; only configuration problems exit non-zero.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/newsmill/scrapers/channels"
	"github.com/newsmill/scrapers/config"
	"github.com/newsmill/scrapers/logging"
	"github.com/newsmill/scrapers/report"
	"github.com/newsmill/scrapers/scraper"
	"github.com/newsmill/scrapers/youtube"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set up logging: %v\n", err)
		return 1
	}
	defer logger.Sync()

	ctx := context.Background()

	logger.Info("loading channel list", zap.String("path", cfg.ChannelsFile))
	refs, err := channels.Load(cfg.ChannelsFile, logger)
	if err != nil {
		logger.Error("failed to load channel list", zap.Error(err))
		return 1
	}
	if len(refs) == 0 {
		logger.Error("no channels configured", zap.String("path", cfg.ChannelsFile))
		return 1
	}
	logger.Info("loaded channel references", zap.Int("count", len(refs)))

	client := youtube.NewHTTPClient(cfg.TranscriptLanguages)

	channelIDs := youtube.ResolveRefs(ctx, client, refs, logger)
	if len(channelIDs) == 0 {
		logger.Error("could not resolve any channel references")
		return 1
	}

	videoScraper, err := youtube.NewVideoScraper(client, channelIDs, cfg.MaxResultsPerChannel, logger)
	if err != nil {
		logger.Error("failed to construct youtube scraper", zap.Error(err))
		return 1
	}

	runner := scraper.NewRunner(logger)
	runner.Register(videoScraper)

	outcome := runner.RunAll(ctx)

	report.Render(os.Stdout, outcome)
	for _, res := range outcome.Results() {
		if videos, ok := res.Value.([]youtube.VideoResult); ok && len(videos) > 0 {
			fmt.Println()
			report.RenderVideos(os.Stdout, videos)
		}
	}

	// Scraper failures are visible above; the batch itself succeeded.
	return 0
}
