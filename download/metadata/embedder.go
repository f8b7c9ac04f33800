// Package metadata writes track tags and cover art into downloaded audio
// files.
package metadata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"cloudsync/music"
)

// Embedder embeds metadata into audio files.
type Embedder struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewEmbedder creates a metadata embedder. The HTTP client only fetches
// cover art and uses a short timeout so a slow CDN cannot stall a download.
func NewEmbedder(logger *zap.Logger) *Embedder {
	return &Embedder{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// Embed writes the track's tags into the file at filePath. Cover art is
// best effort; a failed cover fetch never fails the embed.
func (e *Embedder) Embed(ctx context.Context, filePath string, track *music.Track) error {
	if err := ctx.Err(); err != nil {
		return &MetadataError{Message: "context cancelled", Original: err}
	}

	if _, err := os.Stat(filePath); err != nil {
		return &MetadataError{
			Message:  fmt.Sprintf("file not found: %s", filePath),
			Original: err,
		}
	}

	var cover []byte
	var coverMIME string
	if track.CoverURL != "" {
		var err error
		cover, coverMIME, err = e.fetchCover(ctx, track.CoverURL)
		if err != nil {
			e.logger.Warn("cover art fetch failed, embedding tags without it",
				zap.String("file", filePath),
				zap.String("cover_url", track.CoverURL),
				zap.Error(err))
			cover = nil
		}
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filePath), "."))
	var err error
	switch ext {
	case "mp3":
		err = e.embedMP3(filePath, track, cover, coverMIME)
	case "flac":
		err = e.embedFLAC(filePath, track, cover, coverMIME)
	case "m4a":
		err = e.embedM4A(filePath, track, cover)
	default:
		e.logger.Warn("unsupported tag format, leaving file untagged",
			zap.String("file", filePath),
			zap.String("format", ext))
		return nil
	}

	if err != nil {
		return err
	}

	e.logger.Debug("metadata embedded",
		zap.String("file", filePath),
		zap.String("title", track.Title))
	return nil
}

// fetchCover downloads cover art and sniffs its MIME type.
func (e *Embedder) fetchCover(ctx context.Context, coverURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, coverURL, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}

	mime := "image/jpeg"
	if len(data) > 4 && data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		mime = "image/png"
	}
	return data, mime, nil
}
