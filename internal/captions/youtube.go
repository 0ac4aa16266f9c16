package captions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	defaultWatchBaseURL   = "https://www.youtube.com"
	defaultNoembedBaseURL = "https://noembed.com"
	defaultLanguage       = "en"
)

var videoURLPattern = regexp.MustCompile(
	`^(https?://)?(www\.)?(youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]{11})$`,
)

// ExtractVideoID validates a YouTube watch URL and returns its 11-character
// video id.
func ExtractVideoID(rawURL string) (string, error) {
	m := videoURLPattern.FindStringSubmatch(strings.TrimSpace(rawURL))
	if m == nil {
		return "", ErrInvalidURL
	}
	return m[4], nil
}

// Client fetches caption tracks by scraping the watch page for the timedtext
// track list, then pulling the track in json3 format.
type Client struct {
	watchBaseURL   string
	noembedBaseURL string
	language       string
	httpClient     *http.Client
}

// NewClient builds a caption client with sane timeouts.
func NewClient() *Client {
	return &Client{
		watchBaseURL:   defaultWatchBaseURL,
		noembedBaseURL: defaultNoembedBaseURL,
		language:       defaultLanguage,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
	}
}

var captionTracksPattern = regexp.MustCompile(`"captionTracks":(\[.*?\])`)

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

// Fetch returns the raw caption fragments for a video, in time order as
// served by YouTube.
func (c *Client) Fetch(ctx context.Context, videoID string) ([]RawSegment, error) {
	page, err := c.get(ctx, fmt.Sprintf("%s/watch?v=%s", c.watchBaseURL, videoID))
	if err != nil {
		return nil, fmt.Errorf("fetch watch page for %s: %w", videoID, err)
	}

	m := captionTracksPattern.FindSubmatch(page)
	if m == nil {
		return nil, fmt.Errorf("video %s: %w", videoID, ErrNoCaptions)
	}

	var tracks []captionTrack
	if err := json.Unmarshal(m[1], &tracks); err != nil {
		return nil, fmt.Errorf("parse caption track list for %s: %w", videoID, err)
	}
	track, ok := pickTrack(tracks, c.language)
	if !ok {
		return nil, fmt.Errorf("video %s has no %s track: %w", videoID, c.language, ErrNoCaptions)
	}

	trackURL := track.BaseURL + "&fmt=json3"
	body, err := c.get(ctx, trackURL)
	if err != nil {
		return nil, fmt.Errorf("fetch caption track for %s: %w", videoID, err)
	}

	return parseJSON3(body)
}

// Title resolves the video title through the noembed oEmbed proxy.
func (c *Client) Title(ctx context.Context, videoURL string) (string, error) {
	endpoint := fmt.Sprintf("%s/embed?url=%s", c.noembedBaseURL, url.QueryEscape(videoURL))
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return "", fmt.Errorf("fetch video title: %w", err)
	}

	var embed struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(body, &embed); err != nil {
		return "", fmt.Errorf("parse noembed response: %w", err)
	}
	if embed.Title == "" {
		return "", fmt.Errorf("noembed response has no title for %s", videoURL)
	}
	return embed.Title, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}
	return io.ReadAll(resp.Body)
}

// pickTrack prefers a manually authored track in the wanted language, then
// an ASR track in that language, then the first track of any language.
func pickTrack(tracks []captionTrack, language string) (captionTrack, bool) {
	var asr *captionTrack
	for i, t := range tracks {
		if t.LanguageCode != language {
			continue
		}
		if t.Kind != "asr" {
			return t, true
		}
		if asr == nil {
			asr = &tracks[i]
		}
	}
	if asr != nil {
		return *asr, true
	}
	if len(tracks) > 0 {
		return tracks[0], true
	}
	return captionTrack{}, false
}

// json3 is YouTube's timedtext JSON format: a flat list of events with
// millisecond start offsets and durations, each holding utf8 text segments.
type json3Body struct {
	Events []json3Event `json:"events"`
}

type json3Event struct {
	StartMs    int64      `json:"tStartMs"`
	DurationMs int64      `json:"dDurationMs"`
	Segs       []json3Seg `json:"segs"`
}

type json3Seg struct {
	UTF8 string `json:"utf8"`
}

func parseJSON3(body []byte) ([]RawSegment, error) {
	var parsed json3Body
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse timedtext json3: %w", err)
	}

	segments := make([]RawSegment, 0, len(parsed.Events))
	for _, ev := range parsed.Events {
		var b strings.Builder
		for _, seg := range ev.Segs {
			b.WriteString(seg.UTF8)
		}
		text := strings.TrimSpace(strings.ReplaceAll(b.String(), "\n", " "))
		if text == "" {
			continue
		}
		segments = append(segments, RawSegment{
			StartMs: Millis(ev.StartMs),
			EndMs:   Millis(ev.StartMs + ev.DurationMs),
			Snippet: &Snippet{Text: text},
		})
	}
	return segments, nil
}
