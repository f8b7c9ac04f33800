package music

// DownloadTarget describes a single resolved download attempt. It is
// derived per attempt and never persisted independently of the file.
type DownloadTarget struct {
	TrackID      int64
	Quality      Quality
	DownloadURL  string
	Format       Format
	ExpectedSize int64
}

// DownloadResult is the outcome of one download attempt. FilePath is set
// iff Success; ErrorMessage is set iff not Success.
type DownloadResult struct {
	Success      bool
	FilePath     string
	FileSize     int64
	ErrorMessage string
	Track        *Track
}

// Failure builds a failed result for a track that may not have been resolved.
func Failure(track *Track, message string) DownloadResult {
	return DownloadResult{Success: false, ErrorMessage: message, Track: track}
}

// ExistenceRecord is an existence checker's answer for one track.
//
// A match whose format equals the configured undesired format never sets
// Exists; instead Undesired records that such a match was the only thing
// found, so callers can still schedule a better version for download.
type ExistenceRecord struct {
	Exists    bool
	Format    Format
	FileSize  int64
	Artists   string
	Album     string
	Undesired bool
}
