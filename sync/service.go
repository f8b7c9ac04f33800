// Package sync runs the daily playlist pipeline: find today's playlist,
// drop tracks the library already has, download the rest, and report.
package sync

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"cloudsync/music"
	"cloudsync/netease"
)

// playlistDateLayout is the name of the daily playlist, e.g. "20260825".
const playlistDateLayout = "20060102"

// PlaylistSource locates the daily playlist and lists its tracks.
type PlaylistSource interface {
	FindPlaylistByName(ctx context.Context, uid int64, name string) (*netease.Playlist, error)
	GetPlaylistTracks(ctx context.Context, playlistID int64) ([]*music.Track, error)
}

// Engine downloads tracks and knows which ones are already on disk.
type Engine interface {
	IsDownloaded(ctx context.Context, track *music.Track, quality music.Quality) bool
	DownloadMany(ctx context.Context, tracks []*music.Track, quality music.Quality) []*music.Track
}

// LibraryChecker answers whether a track already exists in the library.
type LibraryChecker interface {
	Enabled() bool
	Check(ctx context.Context, title string, artists []string, album string) music.ExistenceRecord
}

// Notifier pushes run reports. Implementations must be fail-soft.
type Notifier interface {
	Send(ctx context.Context, title, body string) bool
	SendFilterReport(ctx context.Context, total, inLibrary, onDisk, toDownload int) bool
	SendResultReport(ctx context.Context, succeeded, failed, total int) bool
}

// Stats summarizes one sync run.
type Stats struct {
	PlaylistFound bool
	Total         int
	InLibrary     int
	OnDisk        int
	Queued        int
	Succeeded     int
	Failed        int
}

// Service wires the pipeline stages together. Construct with NewService.
type Service struct {
	source   PlaylistSource
	engine   Engine
	library  LibraryChecker
	notifier Notifier
	uid      int64
	quality  music.Quality
	now      func() time.Time
	logger   *zap.Logger
}

// NewService creates a sync service for one user account.
func NewService(source PlaylistSource, engine Engine, library LibraryChecker, notifier Notifier, uid int64, quality music.Quality, logger *zap.Logger) *Service {
	return &Service{
		source:   source,
		engine:   engine,
		library:  library,
		notifier: notifier,
		uid:      uid,
		quality:  quality,
		now:      time.Now,
		logger:   logger,
	}
}

// Run executes one full sync pass. Pipeline errors are reported through the
// notifier as well as returned, so an unattended scheduled run still
// surfaces failures.
func (s *Service) Run(ctx context.Context) (*Stats, error) {
	stats, err := s.run(ctx)
	if err != nil {
		s.logger.Error("sync run failed", zap.Error(err))
		s.notifier.Send(ctx, "Music Sync Failed", err.Error())
		return stats, err
	}
	return stats, nil
}

// playlistName resolves today's playlist name. CLOUDSYNC_DATE overrides the
// clock for debugging against a known playlist.
func (s *Service) playlistName() string {
	if v := os.Getenv("CLOUDSYNC_DATE"); v != "" {
		return v
	}
	return s.now().Format(playlistDateLayout)
}

func (s *Service) run(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	name := s.playlistName()
	s.logger.Info("starting sync run", zap.String("playlist", name))

	playlist, err := s.source.FindPlaylistByName(ctx, s.uid, name)
	if err != nil {
		return stats, fmt.Errorf("find playlist %s: %w", name, err)
	}
	if playlist == nil {
		s.logger.Info("no playlist for today, nothing to do", zap.String("playlist", name))
		return stats, nil
	}
	stats.PlaylistFound = true

	tracks, err := s.source.GetPlaylistTracks(ctx, playlist.ID)
	if err != nil {
		return stats, fmt.Errorf("fetch tracks of playlist %d: %w", playlist.ID, err)
	}
	stats.Total = len(tracks)
	if len(tracks) == 0 {
		s.logger.Info("playlist is empty, nothing to do", zap.Int64("playlist_id", playlist.ID))
		return stats, nil
	}
	s.logger.Info("playlist loaded",
		zap.Int64("playlist_id", playlist.ID),
		zap.Int("tracks", len(tracks)))

	toDownload := s.filter(ctx, tracks, stats)
	stats.Queued = len(toDownload)
	s.notifier.SendFilterReport(ctx, stats.Total, stats.InLibrary, stats.OnDisk, stats.Queued)

	if len(toDownload) == 0 {
		s.logger.Info("all tracks already present, nothing to download")
		s.notifier.Send(ctx, "Music Sync", "no tracks to download")
		return stats, nil
	}

	successful := s.engine.DownloadMany(ctx, toDownload, s.quality)
	stats.Succeeded = len(successful)
	stats.Failed = stats.Queued - stats.Succeeded

	s.notifier.SendResultReport(ctx, stats.Succeeded, stats.Failed, stats.Queued)
	s.logger.Info("sync run finished",
		zap.Int("queued", stats.Queued),
		zap.Int("succeeded", stats.Succeeded),
		zap.Int("failed", stats.Failed))
	return stats, nil
}

// filter drops tracks that are already in the library or on disk. A track
// present only in the undesired format is kept for re-download.
func (s *Service) filter(ctx context.Context, tracks []*music.Track, stats *Stats) []*music.Track {
	toDownload := make([]*music.Track, 0, len(tracks))
	for _, track := range tracks {
		if s.library.Enabled() {
			record := s.library.Check(ctx, track.Title, track.Artists, track.Album)
			if record.Exists {
				stats.InLibrary++
				continue
			}
			if record.Undesired {
				s.logger.Info("library copy is in the undesired format, re-downloading",
					zap.String("title", track.Title))
			}
		}
		if s.engine.IsDownloaded(ctx, track, s.quality) {
			stats.OnDisk++
			continue
		}
		toDownload = append(toDownload, track)
	}
	return toDownload
}
