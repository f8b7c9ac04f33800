package metadata

import (
	"fmt"

	"github.com/bogem/id3v2/v2"

	"cloudsync/music"
)

// embedMP3 writes ID3v2 tags, including both lyric variants as USLT frames.
func (e *Embedder) embedMP3(filePath string, track *music.Track, cover []byte, coverMIME string) error {
	tag, err := id3v2.Open(filePath, id3v2.Options{Parse: true})
	if err != nil {
		// Freshly downloaded files usually carry no tag at all.
		tag, err = id3v2.Open(filePath, id3v2.Options{Parse: false})
		if err != nil {
			return &MetadataError{
				Message:  fmt.Sprintf("failed to open mp3 file: %s", filePath),
				Original: err,
			}
		}
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	tag.SetTitle(track.Title)
	tag.SetArtist(track.ArtistString())
	if track.Album != "" {
		tag.SetAlbum(track.Album)
	}
	if track.TrackNumber > 0 {
		tag.AddTextFrame(tag.CommonID("Track number/Position in set"), id3v2.EncodingUTF8, fmt.Sprintf("%d", track.TrackNumber))
	}
	if track.PublishDate != "" {
		tag.AddTextFrame(tag.CommonID("Recording time"), id3v2.EncodingUTF8, track.PublishDate)
	}

	if track.Lyric != "" {
		tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
			Encoding:          id3v2.EncodingUTF8,
			Language:          "zho",
			ContentDescriptor: "Lyrics",
			Lyrics:            track.Lyric,
		})
	}
	if track.TranslatedLyric != "" {
		tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
			Encoding:          id3v2.EncodingUTF8,
			Language:          "eng",
			ContentDescriptor: "Translation",
			Lyrics:            track.TranslatedLyric,
		})
	}

	if len(cover) > 0 {
		tag.DeleteFrames(tag.CommonID("Attached picture"))
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    coverMIME,
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     cover,
		})
	}

	if err := tag.Save(); err != nil {
		return &MetadataError{
			Message:  fmt.Sprintf("failed to save mp3 tags: %s", filePath),
			Original: err,
		}
	}
	return nil
}
