// Package netease is a client for the NetEase Cloud Music web and eapi
// endpoints used by the sync pipeline.
package netease

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"cloudsync/music"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; WOW64) AppleWebKit/537.36 (KHTML, like Gecko) Safari/537.36 Chrome/91.0.4472.164 NeteaseMusicDesktop/2.10.2.200154"
	referer   = "https://music.163.com/"

	songURLEndpoint        = "https://interface3.music.163.com/eapi/song/enhance/player/url/v1"
	songDetailEndpoint     = "https://interface3.music.163.com/api/v3/song/detail"
	lyricEndpoint          = "https://interface3.music.163.com/api/song/lyric"
	userPlaylistEndpoint   = "https://music.163.com/api/user/playlist"
	playlistDetailEndpoint = "https://music.163.com/api/v6/playlist/detail"

	detailBatchSize = 100
)

// Error represents an upstream API error.
type Error struct {
	Message  string
	Original error
}

func (e *Error) Error() string {
	if e.Original != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Original)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Original
}

// Client talks to the streaming service on behalf of one logged-in account.
type Client struct {
	httpClient *http.Client
	cookies    map[string]string
	limiter    *rate.Limiter
	logger     *zap.Logger

	// Endpoint fields exist so tests can point the client at a local server.
	songURL        string
	songDetail     string
	lyric          string
	userPlaylist   string
	playlistDetail string
}

// NewClient builds a client from a raw browser cookie string.
func NewClient(cookie string, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cookies:    ParseCookies(cookie),
		limiter:    rate.NewLimiter(rate.Limit(2), 1),
		logger:     logger,

		songURL:        songURLEndpoint,
		songDetail:     songDetailEndpoint,
		lyric:          lyricEndpoint,
		userPlaylist:   userPlaylistEndpoint,
		playlistDetail: playlistDetailEndpoint,
	}
}

// HasSession reports whether the configured cookie carries a login token.
func (c *Client) HasSession() bool {
	return HasSession(c.cookies)
}

// postForm sends a rate-limited form POST with the client headers and
// cookies and returns the response body.
func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &Error{Message: "build request", Original: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", referer)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cookie", FormatCookies(mergeCookies(c.cookies)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Message: "request failed", Original: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Message: fmt.Sprintf("unexpected status %d from %s", resp.StatusCode, endpoint)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Message: "read response", Original: err}
	}
	return body, nil
}

type eapiHeader struct {
	OS        string `json:"os"`
	AppVer    string `json:"appver"`
	OSVer     string `json:"osver"`
	DeviceID  string `json:"deviceId"`
	RequestID string `json:"requestId"`
}

type songURLPayload struct {
	IDs         []int64 `json:"ids"`
	Level       string  `json:"level"`
	EncodeType  string  `json:"encodeType"`
	Header      string  `json:"header"`
	ImmerseType string  `json:"immerseType,omitempty"`
}

// GetSongURL resolves the streaming URL for one track at the given quality
// tier. The service may answer with a lower tier than requested when the
// account's plan does not cover it.
func (c *Client) GetSongURL(ctx context.Context, songID int64, quality music.Quality) (*SongURL, error) {
	header, err := json.Marshal(eapiHeader{
		OS:        "pc",
		DeviceID:  "pyncm!",
		RequestID: strconv.Itoa(20000000 + rand.Intn(10000000)),
	})
	if err != nil {
		return nil, &Error{Message: "encode request header", Original: err}
	}

	payload := songURLPayload{
		IDs:        []int64{songID},
		Level:      string(quality),
		EncodeType: "flac",
		Header:     string(header),
	}
	if quality == music.QualitySky {
		payload.ImmerseType = "c51"
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Message: "encode payload", Original: err}
	}

	params, err := EncryptParams(c.songURL, body)
	if err != nil {
		return nil, &Error{Message: "encrypt payload", Original: err}
	}

	raw, err := c.postForm(ctx, c.songURL, url.Values{"params": {params}})
	if err != nil {
		return nil, err
	}

	var resp songURLResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &Error{Message: "decode song url response", Original: err}
	}
	if resp.Code != 200 {
		return nil, &Error{Message: fmt.Sprintf("song url request rejected with code %d", resp.Code)}
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return nil, &Error{Message: fmt.Sprintf("no playable url for song %d, it may need a paid plan or be region locked", songID)}
	}
	return resp.Data[0], nil
}

// GetSongDetail fetches full metadata for one track.
func (c *Client) GetSongDetail(ctx context.Context, songID int64) (*music.Track, error) {
	songs, err := c.getSongDetails(ctx, []int64{songID})
	if err != nil {
		return nil, err
	}
	if len(songs) == 0 {
		return nil, &Error{Message: fmt.Sprintf("song %d not found", songID)}
	}
	return trackFromSong(songs[0]), nil
}

func (c *Client) getSongDetails(ctx context.Context, ids []int64) ([]songJSON, error) {
	type ref struct {
		ID int64 `json:"id"`
		V  int   `json:"v"`
	}
	refs := make([]ref, len(ids))
	for i, id := range ids {
		refs[i] = ref{ID: id}
	}
	encoded, err := json.Marshal(refs)
	if err != nil {
		return nil, &Error{Message: "encode song detail request", Original: err}
	}

	raw, err := c.postForm(ctx, c.songDetail, url.Values{"c": {string(encoded)}})
	if err != nil {
		return nil, err
	}

	var resp songDetailResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &Error{Message: "decode song detail response", Original: err}
	}
	if resp.Code != 200 {
		return nil, &Error{Message: fmt.Sprintf("song detail request rejected with code %d", resp.Code)}
	}
	return resp.Songs, nil
}

// GetLyric fetches the plain and translated lyrics for one track. Missing
// lyrics come back as empty strings, not errors.
func (c *Client) GetLyric(ctx context.Context, songID int64) (lyric, translated string, err error) {
	form := url.Values{
		"id": {strconv.FormatInt(songID, 10)},
		"cp": {"false"},
		"tv": {"0"}, "lv": {"0"}, "rv": {"0"}, "kv": {"0"},
		"yv": {"0"}, "ytv": {"0"}, "yrv": {"0"},
	}

	raw, err := c.postForm(ctx, c.lyric, form)
	if err != nil {
		return "", "", err
	}

	var resp lyricResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", "", &Error{Message: "decode lyric response", Original: err}
	}
	if resp.Code != 200 {
		return "", "", &Error{Message: fmt.Sprintf("lyric request rejected with code %d", resp.Code)}
	}
	return resp.Lrc.Lyric, resp.TLyric.Lyric, nil
}

// GetUserPlaylists lists the account's playlists, newest first.
func (c *Client) GetUserPlaylists(ctx context.Context, uid int64) ([]Playlist, error) {
	form := url.Values{
		"uid":    {strconv.FormatInt(uid, 10)},
		"offset": {"0"},
		"limit":  {"20"},
	}

	raw, err := c.postForm(ctx, c.userPlaylist, form)
	if err != nil {
		return nil, err
	}

	var resp userPlaylistResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &Error{Message: "decode user playlist response", Original: err}
	}
	if resp.Code != 200 {
		return nil, &Error{Message: fmt.Sprintf("user playlist request rejected: %s (code %d)", resp.Message, resp.Code)}
	}

	playlists := make([]Playlist, 0, len(resp.Playlist))
	for _, p := range resp.Playlist {
		playlists = append(playlists, Playlist{
			ID:              p.ID,
			Name:            p.Name,
			TrackCount:      p.TrackCount,
			UpdateTime:      music.TimestampToDate(p.UpdateTime),
			TrackUpdateTime: music.TimestampToDate(p.TrackUpdateTime),
		})
	}
	return playlists, nil
}

// FindPlaylistByName returns the first playlist with the exact name, or
// nil when the account has none.
func (c *Client) FindPlaylistByName(ctx context.Context, uid int64, name string) (*Playlist, error) {
	playlists, err := c.GetUserPlaylists(ctx, uid)
	if err != nil {
		return nil, err
	}
	for i := range playlists {
		if playlists[i].Name == name {
			return &playlists[i], nil
		}
	}
	return nil, nil
}

// GetPlaylistTracks resolves a playlist's track ids and fetches metadata
// for every track in batches.
func (c *Client) GetPlaylistTracks(ctx context.Context, playlistID int64) ([]*music.Track, error) {
	form := url.Values{"id": {strconv.FormatInt(playlistID, 10)}}

	raw, err := c.postForm(ctx, c.playlistDetail, form)
	if err != nil {
		return nil, err
	}

	var resp playlistDetailResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &Error{Message: "decode playlist detail response", Original: err}
	}
	if resp.Code != 200 {
		return nil, &Error{Message: fmt.Sprintf("playlist detail request rejected: %s (code %d)", resp.Message, resp.Code)}
	}

	ids := make([]int64, 0, len(resp.Playlist.TrackIDs))
	for _, t := range resp.Playlist.TrackIDs {
		ids = append(ids, t.ID)
	}

	tracks := make([]*music.Track, 0, len(ids))
	for start := 0; start < len(ids); start += detailBatchSize {
		end := start + detailBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		songs, err := c.getSongDetails(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}
		for _, s := range songs {
			tracks = append(tracks, trackFromSong(s))
		}
	}

	c.logger.Info("resolved playlist tracks",
		zap.Int64("playlist_id", playlistID),
		zap.Int("tracks", len(tracks)))
	return tracks, nil
}

// trackFromSong converts a raw song payload into the pipeline's track model.
func trackFromSong(s songJSON) *music.Track {
	names := make([]string, 0, len(s.Artists))
	for _, a := range s.Artists {
		names = append(names, a.Name)
	}

	cover := s.Album.PicURL
	if cover == "" {
		cover = PicURL(s.Album.Pic, 300)
	}

	publish := s.PublishTime
	if publish == 0 {
		publish = s.Album.PublishTime
	}

	return &music.Track{
		ID:          s.ID,
		Title:       s.Name,
		Artists:     music.SplitArtists(strings.Join(names, music.ArtistSeparator)),
		Album:       s.Album.Name,
		CoverURL:    cover,
		Duration:    int(s.Duration / 1000),
		TrackNumber: s.TrackNumber,
		PublishDate: music.TimestampToDate(publish),
	}
}
