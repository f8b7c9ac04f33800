package music

import (
	"fmt"
	"strings"
	"time"
)

// ArtistSeparator joins multiple artist names into a single display string.
const ArtistSeparator = "/"

// Track is an immutable snapshot of a playlist song, constructed once per
// sync run from the streaming-service response and never mutated.
type Track struct {
	ID              int64
	Title           string
	Artists         []string
	Album           string
	CoverURL        string
	Duration        int // seconds
	TrackNumber     int
	PublishDate     string // YYYY-MM-DD, empty when the source timestamp is unusable
	Lyric           string
	TranslatedLyric string
}

// ArtistString joins the ordered artist list with the standard separator.
func (t *Track) ArtistString() string {
	return strings.Join(t.Artists, ArtistSeparator)
}

// Year extracts the release year from the publish date.
func (t *Track) Year() string {
	if i := strings.Index(t.PublishDate, "-"); i > 0 {
		return t.PublishDate[:i]
	}
	return t.PublishDate
}

// SplitArtists splits an artist string on the common separators
// (slash, comma, semicolon, full-width comma), trims whitespace,
// lower-cases nothing, and removes duplicates preserving order.
func SplitArtists(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case '/', ',', ';', '，':
			return true
		}
		return false
	})
	seen := make(map[string]struct{}, len(fields))
	artists := make([]string, 0, len(fields))
	for _, f := range fields {
		name := strings.TrimSpace(f)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		artists = append(artists, name)
	}
	return artists
}

// TimestampToDate converts an 11- or 13-digit source timestamp to
// YYYY-MM-DD. The upstream API reports publish times as 13-digit
// millisecond timestamps; 11-digit values are padded to milliseconds.
// Anything else yields an empty string.
func TimestampToDate(ts int64) string {
	if ts >= 1e10 && ts < 1e11 {
		ts *= 100
	}
	if ts < 1e12 || ts >= 1e13 {
		return ""
	}
	return time.UnixMilli(ts).Format("2006-01-02")
}

// FormatFileSize renders a byte count with binary units for logs.
func FormatFileSize(size int64) string {
	if size == 0 {
		return "0B"
	}
	units := []string{"B", "KB", "MB", "GB", "TB"}
	value := float64(size)
	idx := 0
	for value >= 1024.0 && idx < len(units)-1 {
		value /= 1024.0
		idx++
	}
	return fmt.Sprintf("%.2f%s", value, units[idx])
}
