package download

import "fmt"

// DownloadError represents a download pipeline error.
type DownloadError struct {
	Message  string
	Original error
}

func (e *DownloadError) Error() string {
	if e.Original != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Original)
	}
	return e.Message
}

func (e *DownloadError) Unwrap() error {
	return e.Original
}
