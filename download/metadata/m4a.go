package metadata

import (
	"fmt"

	mp4tag "github.com/zhaarey/go-mp4tag"

	"cloudsync/music"
)

// embedM4A writes MP4 ilst tags.
func (e *Embedder) embedM4A(filePath string, track *music.Track, cover []byte) error {
	tags := &mp4tag.MP4Tags{
		Title:       track.Title,
		Artist:      track.ArtistString(),
		Album:       track.Album,
		Lyrics:      track.Lyric,
		TrackNumber: int16(track.TrackNumber),
		Date:        track.PublishDate,
	}
	if len(cover) > 0 {
		tags.Pictures = []*mp4tag.MP4Picture{{Data: cover}}
	}

	mp4, err := mp4tag.Open(filePath)
	if err != nil {
		return &MetadataError{
			Message:  fmt.Sprintf("failed to open m4a file: %s", filePath),
			Original: err,
		}
	}
	defer mp4.Close()

	if err := mp4.Write(tags, []string{}); err != nil {
		return &MetadataError{
			Message:  fmt.Sprintf("failed to save m4a tags: %s", filePath),
			Original: err,
		}
	}
	return nil
}
