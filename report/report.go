// Package report renders human-readable summaries of a scraper run.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/newsmill/scrapers/scraper"
	"github.com/newsmill/scrapers/youtube"
)

const transcriptPreviewLen = 120

// Render writes one row per scraper result, in run order.
func Render(w io.Writer, outcome *scraper.Outcome) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.AppendHeader(table.Row{"Scraper", "Status", "Items", "Duration", "Detail"})

	for _, res := range outcome.Results() {
		status := "ok"
		detail := ""
		items := "-"
		if res.Failed() {
			status = "failed"
			detail = firstLine(res.Err.Error())
		} else if n, ok := itemCount(res.Value); ok {
			items = fmt.Sprintf("%d", n)
		}
		tbl.AppendRow(table.Row{
			res.Scraper,
			status,
			items,
			res.Duration.Round(time.Millisecond),
			fmt.Sprintf("%.80s", detail),
		})
	}

	tbl.SetStyle(table.StyleLight)
	tbl.Render()
}

// RenderVideos writes the video results of the YouTube scraper, with a short
// transcript preview per video.
func RenderVideos(w io.Writer, results []youtube.VideoResult) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.AppendHeader(table.Row{"Channel", "Video Id", "Title", "Transcript"})

	for _, res := range results {
		tbl.AppendRow(table.Row{
			res.Video.ChannelID,
			res.Video.ID,
			fmt.Sprintf("%.40s", res.Video.Title),
			transcriptPreview(res),
		})
	}

	tbl.SetStyle(table.StyleLight)
	tbl.Render()
}

func transcriptPreview(res youtube.VideoResult) string {
	if !res.TranscriptAvailable {
		return "(not available)"
	}
	preview := strings.Join(strings.Fields(res.Transcript), " ")
	if len(preview) > transcriptPreviewLen {
		preview = preview[:transcriptPreviewLen] + "..."
	}
	return preview
}

func itemCount(value any) (int, bool) {
	switch v := value.(type) {
	case []youtube.VideoResult:
		return len(v), true
	default:
		return 0, false
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
