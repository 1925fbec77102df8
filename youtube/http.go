package youtube

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/newsmill/scrapers/channels"
)

const userAgent = "newsmill-scrapers/1.0 (YouTube channel scraper)"

// defaultLanguages is tried when no transcript language preference is
// configured.
var defaultLanguages = []string{"en"}

// HTTPClient is the real Client implementation. It uses the channel uploads
// feed for video listings (no API key required), the channel page for
// handle/custom-name/username resolution, and the timedtext endpoint for
// transcripts.
type HTTPClient struct {
	httpClient *http.Client
	parser     *gofeed.Parser
	baseURL    string
	languages  []string
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client that prefers transcripts in the given
// languages, tried in order. An empty list falls back to English.
func NewHTTPClient(languages []string) *HTTPClient {
	if len(languages) == 0 {
		languages = defaultLanguages
	}

	// 10 second timeout on every request; the runner itself never times out.
	httpClient := &http.Client{Timeout: 10 * time.Second}

	parser := gofeed.NewParser()
	parser.Client = httpClient
	parser.UserAgent = userAgent

	return &HTTPClient{
		httpClient: httpClient,
		parser:     parser,
		baseURL:    "https://www.youtube.com",
		languages:  languages,
	}
}

// ResolveChannelID implements Client. Non-canonical references are resolved
// by fetching the channel page and reading the channel ID out of its
// metadata.
func (c *HTTPClient) ResolveChannelID(ctx context.Context, ref channels.Ref) (string, error) {
	if ref.Canonical() {
		return ref.Value, nil
	}

	var path string
	switch ref.Kind {
	case channels.KindHandle:
		path = "/@" + ref.Value
	case channels.KindCustom:
		path = "/c/" + ref.Value
	case channels.KindUser:
		path = "/user/" + ref.Value
	default:
		return "", fmt.Errorf("cannot resolve channel reference of kind %s", ref.Kind)
	}

	doc, err := c.fetchPage(ctx, c.baseURL+path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", ref.Raw, err)
	}

	if id, ok := channelIDFromPage(doc); ok {
		return id, nil
	}
	return "", fmt.Errorf("no channel ID in page for %q: %w", ref.Raw, ErrChannelNotFound)
}

// ListVideos implements Client. The uploads feed carries at most the 15 most
// recent videos; limit trims it further.
func (c *HTTPClient) ListVideos(ctx context.Context, channelID string, limit int) ([]Video, error) {
	feedURL := c.baseURL + "/feeds/videos.xml?channel_id=" + url.QueryEscape(channelID)

	feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch uploads feed for %s: %w", channelID, err)
	}

	items := feed.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	videos := make([]Video, 0, len(items))
	for _, item := range items {
		videos = append(videos, feedItemToVideo(item, channelID))
	}
	return videos, nil
}

// FetchTranscript implements Client. Languages are tried in preference
// order; the first one with any caption text wins.
func (c *HTTPClient) FetchTranscript(ctx context.Context, videoID string) (string, error) {
	for _, lang := range c.languages {
		text, err := c.fetchTimedText(ctx, videoID, lang)
		if err != nil {
			return "", err
		}
		if text != "" {
			return text, nil
		}
	}
	return "", fmt.Errorf("no transcript for video %s: %w", videoID, ErrTranscriptUnavailable)
}

// feedItemToVideo converts an uploads feed entry to a Video. The video ID
// comes from the yt:videoId extension, falling back to the link the way the
// feed's watch URLs are shaped.
func feedItemToVideo(item *gofeed.Item, channelID string) Video {
	video := Video{
		Title:     item.Title,
		URL:       item.Link,
		ChannelID: channelID,
	}

	if ext, ok := item.Extensions["yt"]["videoId"]; ok && len(ext) > 0 {
		video.ID = ext[0].Value
	}
	if video.ID == "" {
		video.ID = videoIDFromLink(item.Link)
	}
	if video.URL == "" && video.ID != "" {
		video.URL = "https://www.youtube.com/watch?v=" + video.ID
	}

	if item.PublishedParsed != nil {
		video.PublishedAt = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		video.PublishedAt = *item.UpdatedParsed
	}

	return video
}

// videoIDFromLink extracts a video ID from a watch URL, or from the last
// path segment when there is no v= parameter.
func videoIDFromLink(link string) string {
	if link == "" {
		return ""
	}
	if u, err := url.Parse(link); err == nil {
		if v := u.Query().Get("v"); v != "" {
			return v
		}
	}
	trimmed := strings.TrimRight(link, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// fetchPage fetches a channel page and parses it with goquery. A 404 maps to
// ErrChannelNotFound.
func (c *HTTPClient) fetchPage(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrChannelNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return doc, nil
}

// channelIDFromPage pulls the canonical channel ID out of the page metadata.
func channelIDFromPage(doc *goquery.Document) (string, bool) {
	if id, ok := doc.Find(`meta[itemprop="identifier"]`).Attr("content"); ok && id != "" {
		return id, true
	}
	// Fall back to the canonical link, which points at /channel/<id>.
	if href, ok := doc.Find(`link[rel="canonical"]`).Attr("href"); ok {
		if i := strings.Index(href, "/channel/"); i >= 0 {
			id := strings.Trim(href[i+len("/channel/"):], "/")
			if id != "" {
				return id, true
			}
		}
	}
	return "", false
}

// timedTextResponse is the caption document served by the timedtext
// endpoint.
type timedTextResponse struct {
	XMLName xml.Name `xml:"transcript"`
	Lines   []string `xml:"text"`
}

// fetchTimedText returns the caption text for one language, or "" when the
// endpoint has nothing for it. The endpoint answers 200 with an empty body
// for unknown videos and languages.
func (c *HTTPClient) fetchTimedText(ctx context.Context, videoID, lang string) (string, error) {
	captionURL := fmt.Sprintf("%s/api/timedtext?lang=%s&v=%s",
		c.baseURL, url.QueryEscape(lang), url.QueryEscape(videoID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, captionURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch transcript for %s: %w", videoID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error fetching transcript for %s: %d %s",
			videoID, resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read transcript for %s: %w", videoID, err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return "", nil
	}

	var captions timedTextResponse
	if err := xml.Unmarshal(body, &captions); err != nil {
		return "", fmt.Errorf("failed to parse transcript for %s: %w", videoID, err)
	}

	lines := make([]string, 0, len(captions.Lines))
	for _, line := range captions.Lines {
		line = strings.TrimSpace(html.UnescapeString(line))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}
