package library

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"cloudsync/music"
)

const (
	subsonicVersion = "1.16.1"
	subsonicClient  = "cloudsync"
	searchSongCount = 20
)

type subsonicSong struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	Suffix      string `json:"suffix"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type subsonicEnvelope struct {
	Response struct {
		Status        string `json:"status"`
		SearchResult2 struct {
			Song []subsonicSong `json:"song"`
		} `json:"searchResult2"`
	} `json:"subsonic-response"`
}

// NavidromeChecker searches a Navidrome server through the Subsonic API.
type NavidromeChecker struct {
	baseURL    string
	username   string
	password   string
	undesired  music.Format
	httpClient *http.Client
	logger     *zap.Logger
}

// NewNavidromeChecker builds a checker against the given server. host must
// include the scheme and carry no trailing slash.
func NewNavidromeChecker(host, username, password string, undesired music.Format, logger *zap.Logger) *NavidromeChecker {
	return &NavidromeChecker{
		baseURL:    host,
		username:   username,
		password:   password,
		undesired:  undesired,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

func (n *NavidromeChecker) Name() string {
	return "navidrome"
}

// Check searches by title and scans the candidates for an artist match.
// Candidates in the undesired format are skipped so a better copy can
// still be scheduled; any backend failure reports the track as missing.
func (n *NavidromeChecker) Check(ctx context.Context, title string, artists []string, album string) music.ExistenceRecord {
	songs, err := n.search(ctx, title)
	if err != nil {
		n.logger.Warn("navidrome search failed, treating track as missing",
			zap.String("title", title),
			zap.Error(err))
		return music.ExistenceRecord{}
	}

	var undesired bool
	for _, song := range songs {
		if !titleEqual(song.Title, title) {
			continue
		}
		if !artistsMatch(artists, song.Artist) {
			continue
		}

		format := music.FormatFromSuffix(song.Suffix)
		if format == music.FormatUnknown {
			format = music.FormatFromMIME(song.ContentType)
		}
		if format == n.undesired {
			undesired = true
			continue
		}

		return music.ExistenceRecord{
			Exists:   true,
			Format:   format,
			FileSize: song.Size,
			Artists:  song.Artist,
			Album:    song.Album,
		}
	}
	return music.ExistenceRecord{Undesired: undesired}
}

func (n *NavidromeChecker) search(ctx context.Context, query string) ([]subsonicSong, error) {
	params := url.Values{
		"u":         {n.username},
		"p":         {n.password},
		"v":         {subsonicVersion},
		"c":         {subsonicClient},
		"f":         {"json"},
		"query":     {query},
		"type":      {"song"},
		"songCount": {strconv.Itoa(searchSongCount)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/rest/search2?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var envelope subsonicEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	if envelope.Response.Status != "ok" {
		return nil, fmt.Errorf("subsonic status %q", envelope.Response.Status)
	}
	return envelope.Response.SearchResult2.Song, nil
}
