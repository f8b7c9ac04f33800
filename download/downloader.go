// Package download turns resolved tracks into verified, tagged audio
// files on disk.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"cloudsync/music"
	"cloudsync/netease"
)

// maxConcurrentDownloads caps the batch download fan-out.
const maxConcurrentDownloads = 5

// knownExtensions are checked when looking for an already downloaded copy
// in any format.
var knownExtensions = []string{".mp3", ".flac", ".m4a"}

// TrackSource resolves track URLs, metadata, and lyrics.
type TrackSource interface {
	GetSongURL(ctx context.Context, songID int64, quality music.Quality) (*netease.SongURL, error)
	GetSongDetail(ctx context.Context, songID int64) (*music.Track, error)
	GetLyric(ctx context.Context, songID int64) (lyric, translated string, err error)
}

// Embedder writes tags into a downloaded file.
type Embedder interface {
	Embed(ctx context.Context, filePath string, track *music.Track) error
}

// Downloader downloads tracks into a flat directory, skipping files that
// already verify against the track's metadata.
type Downloader struct {
	source      TrackSource
	embedder    Embedder
	verifier    *Verifier
	downloadDir string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewDownloader creates a downloader and ensures the target directory
// exists.
func NewDownloader(source TrackSource, embedder Embedder, downloadDir string, logger *zap.Logger) (*Downloader, error) {
	if err := os.MkdirAll(downloadDir, 0755); err != nil {
		return nil, &DownloadError{
			Message:  fmt.Sprintf("failed to create download directory %s", downloadDir),
			Original: err,
		}
	}
	return &Downloader{
		source:      source,
		embedder:    embedder,
		verifier:    NewVerifier(),
		downloadDir: downloadDir,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
	}, nil
}

// DownloadDir returns the directory downloads land in.
func (d *Downloader) DownloadDir() string {
	return d.downloadDir
}

// GetTrackInfo resolves everything needed to download one track: the
// streaming URL at the requested quality, full metadata, and lyrics.
// Missing lyrics are tolerated; a missing URL is not.
func (d *Downloader) GetTrackInfo(ctx context.Context, songID int64, quality music.Quality) (*music.Track, *music.DownloadTarget, error) {
	songURL, err := d.source.GetSongURL(ctx, songID, quality)
	if err != nil {
		return nil, nil, &DownloadError{
			Message:  fmt.Sprintf("failed to resolve download url for song %d", songID),
			Original: err,
		}
	}

	track, err := d.source.GetSongDetail(ctx, songID)
	if err != nil {
		return nil, nil, &DownloadError{
			Message:  fmt.Sprintf("failed to fetch metadata for song %d", songID),
			Original: err,
		}
	}

	lyric, translated, err := d.source.GetLyric(ctx, songID)
	if err != nil {
		d.logger.Warn("lyric fetch failed, continuing without lyrics",
			zap.Int64("song_id", songID),
			zap.Error(err))
	} else {
		track.Lyric = lyric
		track.TranslatedLyric = translated
	}

	target := &music.DownloadTarget{
		TrackID:      songID,
		Quality:      quality,
		DownloadURL:  songURL.URL,
		Format:       music.FormatFromURL(songURL.URL, ""),
		ExpectedSize: songURL.Size,
	}
	return track, target, nil
}

// FilePath builds the destination path: "artists - title" sanitized, with
// the extension inferred from the download target.
func (d *Downloader) FilePath(track *music.Track, target *music.DownloadTarget) string {
	name := SanitizeFilename(fmt.Sprintf("%s - %s", track.ArtistString(), track.Title))
	return filepath.Join(d.downloadDir, name+target.Format.Ext())
}

// findExisting looks for an already downloaded copy of the track under any
// known extension and verifies it before trusting it.
func (d *Downloader) findExisting(track *music.Track, expectedSize int64) (string, bool) {
	name := SanitizeFilename(fmt.Sprintf("%s - %s", track.ArtistString(), track.Title))
	for _, ext := range knownExtensions {
		path := filepath.Join(d.downloadDir, name+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if d.verifier.Verify(path, track, expectedSize) {
			return path, true
		}
	}
	return "", false
}

// IsDownloaded reports whether a verified copy of the track already exists
// on disk under any known extension. The expected size is resolved from the
// source so an exact on-disk copy passes the size check at filter time; a
// failed resolution falls back to the hash comparison.
func (d *Downloader) IsDownloaded(ctx context.Context, track *music.Track, quality music.Quality) bool {
	name := SanitizeFilename(fmt.Sprintf("%s - %s", track.ArtistString(), track.Title))
	onDisk := false
	for _, ext := range knownExtensions {
		if _, err := os.Stat(filepath.Join(d.downloadDir, name+ext)); err == nil {
			onDisk = true
			break
		}
	}
	if !onDisk {
		return false
	}

	var expectedSize int64
	if songURL, err := d.source.GetSongURL(ctx, track.ID, quality); err == nil {
		expectedSize = songURL.Size
	}
	_, ok := d.findExisting(track, expectedSize)
	return ok
}

// DownloadOne downloads a single track. An existing verified copy
// short-circuits the transfer; tag embedding failures are logged but do
// not fail the download.
func (d *Downloader) DownloadOne(ctx context.Context, songID int64, quality music.Quality) music.DownloadResult {
	if songID <= 0 {
		return music.Failure(nil, "invalid song id, must be a positive integer")
	}
	if !quality.Valid() {
		return music.Failure(nil, fmt.Sprintf("invalid quality %q", quality))
	}

	track, target, err := d.GetTrackInfo(ctx, songID, quality)
	if err != nil {
		return music.Failure(nil, err.Error())
	}

	if path, ok := d.findExisting(track, target.ExpectedSize); ok {
		d.logger.Info("track already downloaded, skipping",
			zap.Int64("song_id", songID),
			zap.String("path", path))
		size := int64(0)
		if info, err := os.Stat(path); err == nil {
			size = info.Size()
		}
		return music.DownloadResult{Success: true, FilePath: path, FileSize: size, Track: track}
	}

	path := d.FilePath(track, target)
	if err := d.transfer(ctx, target.DownloadURL, path); err != nil {
		return music.Failure(track, err.Error())
	}

	if err := d.embedder.Embed(ctx, path, track); err != nil {
		d.logger.Warn("tag embedding failed, keeping the bare file",
			zap.String("path", path),
			zap.Error(err))
	}

	d.verifier.Refresh(path)

	info, err := os.Stat(path)
	if err != nil {
		return music.Failure(track, fmt.Sprintf("file missing after download: %v", err))
	}

	d.logger.Info("download complete",
		zap.Int64("song_id", songID),
		zap.String("path", path),
		zap.String("size", music.FormatFileSize(info.Size())),
		zap.String("quality", quality.DisplayName()))
	return music.DownloadResult{Success: true, FilePath: path, FileSize: info.Size(), Track: track}
}

// transfer streams the remote file to disk.
func (d *Downloader) transfer(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &DownloadError{Message: "failed to build transfer request", Original: err}
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return &DownloadError{Message: "transfer request failed", Original: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &DownloadError{Message: fmt.Sprintf("transfer failed with status %d", resp.StatusCode)}
	}

	f, err := os.Create(path)
	if err != nil {
		return &DownloadError{Message: fmt.Sprintf("failed to create %s", path), Original: err}
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(path)
		return &DownloadError{Message: "failed to write file", Original: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return &DownloadError{Message: "failed to close file", Original: err}
	}
	return nil
}

// DownloadMany downloads tracks sequentially and returns the subset that
// succeeded. One bad track never aborts the rest.
func (d *Downloader) DownloadMany(ctx context.Context, tracks []*music.Track, quality music.Quality) []*music.Track {
	d.logger.Info("starting batch download",
		zap.Int("tracks", len(tracks)),
		zap.String("dir", d.downloadDir))

	successful := make([]*music.Track, 0, len(tracks))
	for _, track := range tracks {
		if track.ID <= 0 {
			continue
		}
		result := d.DownloadOne(ctx, track.ID, quality)
		if result.Success {
			successful = append(successful, track)
		} else {
			d.logger.Warn("track download failed",
				zap.Int64("song_id", track.ID),
				zap.String("title", track.Title),
				zap.String("error", result.ErrorMessage))
		}
	}

	d.logger.Info("batch download finished",
		zap.Int("succeeded", len(successful)),
		zap.Int("total", len(tracks)))
	return successful
}

// DownloadBatchAsync downloads tracks concurrently with a bounded worker
// count. The result slice is index-aligned with ids and always complete: a
// panicking download yields a failure result instead of tearing down the
// batch.
func (d *Downloader) DownloadBatchAsync(ctx context.Context, ids []int64, quality music.Quality) []music.DownloadResult {
	results := make([]music.DownloadResult, len(ids))
	sem := make(chan struct{}, maxConcurrentDownloads)

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					results[i] = music.Failure(nil, fmt.Sprintf("panic downloading song %d: %v", id, r))
				}
			}()
			results[i] = d.DownloadOne(ctx, id, quality)
		}(i, id)
	}
	wg.Wait()

	return results
}
