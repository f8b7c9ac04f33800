package download

import (
	"os"
	"regexp"
	"strings"
)

const maxFilenameLength = 200

var illegalFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// DetectDownloadDir picks the download directory for the current
// environment: the fixed container path when running under Docker,
// otherwise a downloads folder next to the working directory.
func DetectDownloadDir() string {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return "/app/downloads"
	}
	return "downloads"
}

// SanitizeFilename replaces characters that are illegal on common
// filesystems, trims surrounding spaces and dots, and caps the length.
// An input that sanitizes to nothing becomes "unknown".
func SanitizeFilename(name string) string {
	name = illegalFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, " .")

	// Truncation can expose a trailing space or dot, so trim again.
	if runes := []rune(name); len(runes) > maxFilenameLength {
		name = strings.Trim(string(runes[:maxFilenameLength]), " .")
	}

	if name == "" {
		return "unknown"
	}
	return name
}
