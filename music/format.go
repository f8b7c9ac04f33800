package music

import "strings"

// Format is an audio container format.
type Format string

const (
	FormatMP3     Format = "mp3"
	FormatFLAC    Format = "flac"
	FormatM4A     Format = "m4a"
	FormatUnknown Format = "unknown"
)

// mimeFormats maps content types reported by library backends and
// transfer responses to container formats.
var mimeFormats = map[string]Format{
	"audio/flac":   FormatFLAC,
	"audio/x-flac": FormatFLAC,
	"audio/mpeg":   FormatMP3,
	"audio/mp3":    FormatMP3,
	"audio/mp4":    FormatM4A,
	"audio/x-m4a":  FormatM4A,
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	switch f {
	case FormatMP3, FormatFLAC, FormatM4A:
		return "." + string(f)
	default:
		return ".mp3"
	}
}

func (f Format) String() string {
	return string(f)
}

// FormatFromSuffix normalizes a raw suffix such as ".FLAC" or "mp3".
func FormatFromSuffix(suffix string) Format {
	s := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(suffix), "."))
	switch s {
	case "mp3":
		return FormatMP3
	case "flac":
		return FormatFLAC
	case "m4a":
		return FormatM4A
	case "":
		return FormatUnknown
	default:
		return Format(s)
	}
}

// FormatFromMIME resolves a container format from a MIME content type.
func FormatFromMIME(contentType string) Format {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if f, ok := mimeFormats[ct]; ok {
		return f
	}
	switch {
	case strings.Contains(ct, "flac"):
		return FormatFLAC
	case strings.Contains(ct, "mpeg"), strings.Contains(ct, "mp3"):
		return FormatMP3
	case strings.Contains(ct, "mp4"), strings.Contains(ct, "m4a"):
		return FormatM4A
	}
	return FormatUnknown
}

// FormatFromURL infers the container format from a download URL first,
// then from the content type. Defaults to mp3 when neither is conclusive.
func FormatFromURL(url, contentType string) Format {
	lower := strings.ToLower(url)
	switch {
	case strings.Contains(lower, ".flac"):
		return FormatFLAC
	case strings.Contains(lower, ".mp3"):
		return FormatMP3
	case strings.Contains(lower, ".m4a"):
		return FormatM4A
	}
	if f := FormatFromMIME(contentType); f != FormatUnknown {
		return f
	}
	return FormatMP3
}
