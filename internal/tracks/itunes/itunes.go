package itunes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/abrown5421/game-lynq/internal/games/ipodwar"
)

type Client struct {
	BaseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://itunes.apple.com"
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), http: &http.Client{Timeout: 20 * time.Second}}
}

// Search queries the iTunes Search API for music tracks. Results without a
// preview URL are dropped since the game cannot play them.
func (c *Client) Search(ctx context.Context, term string, limit int) ([]ipodwar.Track, error) {
	if limit <= 0 {
		limit = 60
	}
	q := url.Values{}
	q.Set("term", term)
	q.Set("entity", "musicTrack")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("country", "US")

	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("itunes status %d", resp.StatusCode)
	}

	var out struct {
		Results []struct {
			TrackName     string `json:"trackName"`
			ArtistName    string `json:"artistName"`
			PreviewURL    string `json:"previewUrl"`
			ArtworkURL100 string `json:"artworkUrl100"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	tracks := make([]ipodwar.Track, 0, len(out.Results))
	for _, r := range out.Results {
		if r.PreviewURL == "" {
			continue
		}
		tracks = append(tracks, ipodwar.Track{
			Name:       r.TrackName,
			Artist:     r.ArtistName,
			PreviewURL: r.PreviewURL,
			Artwork:    r.ArtworkURL100,
		})
	}
	return tracks, nil
}
