// Package library answers "is this track already in the library" against
// the configured backend before any download is scheduled.
package library

import (
	"context"

	"go.uber.org/zap"

	"cloudsync/music"
)

// Checker is one existence-check backend. Implementations never return
// errors: a backend that cannot answer reports the track as missing so a
// flaky backend degrades into re-downloading instead of losing tracks.
type Checker interface {
	Name() string
	Check(ctx context.Context, title string, artists []string, album string) music.ExistenceRecord
}

// Library wraps the single active backend. Exactly one backend runs per
// process; precedence (navidrome over database over none) is decided once
// at wiring time.
type Library struct {
	checker Checker
	logger  *zap.Logger
}

// New wraps the active backend. checker may be nil when no backend is
// configured, in which case every check reports the track as missing.
func New(logger *zap.Logger, checker Checker) *Library {
	return &Library{checker: checker, logger: logger}
}

// Enabled reports whether a backend is configured.
func (l *Library) Enabled() bool {
	return l.checker != nil
}

// Check asks the active backend. Without one, the track is always missing.
func (l *Library) Check(ctx context.Context, title string, artists []string, album string) music.ExistenceRecord {
	if l.checker == nil {
		return music.ExistenceRecord{}
	}
	record := l.checker.Check(ctx, title, artists, album)
	if record.Exists {
		l.logger.Debug("track found in library",
			zap.String("backend", l.checker.Name()),
			zap.String("title", title),
			zap.String("format", record.Format.String()))
	}
	return record
}
