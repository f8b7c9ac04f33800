package metadata

import (
	"fmt"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
	"go.uber.org/zap"

	"cloudsync/music"
)

// embedFLAC rewrites the vorbis comment and picture blocks.
func (e *Embedder) embedFLAC(filePath string, track *music.Track, cover []byte, coverMIME string) error {
	f, err := flac.ParseFile(filePath)
	if err != nil {
		return &MetadataError{
			Message:  fmt.Sprintf("failed to parse flac file: %s", filePath),
			Original: err,
		}
	}

	// Drop stale comment and picture blocks so re-tagging stays idempotent.
	kept := f.Meta[:0]
	for _, block := range f.Meta {
		if block.Type == flac.VorbisComment || block.Type == flac.Picture {
			continue
		}
		kept = append(kept, block)
	}
	f.Meta = kept

	cmt := flacvorbis.New()
	addComment := func(field, value string) error {
		if value == "" {
			return nil
		}
		return cmt.Add(field, value)
	}

	if err := addComment(flacvorbis.FIELD_TITLE, track.Title); err != nil {
		return &MetadataError{Message: "failed to build vorbis comment", Original: err}
	}
	if err := addComment(flacvorbis.FIELD_ARTIST, track.ArtistString()); err != nil {
		return &MetadataError{Message: "failed to build vorbis comment", Original: err}
	}
	if err := addComment(flacvorbis.FIELD_ALBUM, track.Album); err != nil {
		return &MetadataError{Message: "failed to build vorbis comment", Original: err}
	}
	if track.TrackNumber > 0 {
		if err := addComment(flacvorbis.FIELD_TRACKNUMBER, fmt.Sprintf("%d", track.TrackNumber)); err != nil {
			return &MetadataError{Message: "failed to build vorbis comment", Original: err}
		}
	}
	if err := addComment(flacvorbis.FIELD_DATE, track.Year()); err != nil {
		return &MetadataError{Message: "failed to build vorbis comment", Original: err}
	}
	if err := addComment("YEAR", track.Year()); err != nil {
		return &MetadataError{Message: "failed to build vorbis comment", Original: err}
	}
	if err := addComment("LYRICS", track.Lyric); err != nil {
		return &MetadataError{Message: "failed to build vorbis comment", Original: err}
	}
	if err := addComment("TRANSLATEDLYRICS", track.TranslatedLyric); err != nil {
		return &MetadataError{Message: "failed to build vorbis comment", Original: err}
	}

	cmtBlock := cmt.Marshal()
	f.Meta = append(f.Meta, &cmtBlock)

	if len(cover) > 0 {
		picture, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "Cover", cover, coverMIME)
		if err != nil {
			e.logger.Warn("failed to build flac picture block, skipping cover", zap.Error(err))
		} else {
			picBlock := picture.Marshal()
			f.Meta = append(f.Meta, &picBlock)
		}
	}

	if err := f.Save(filePath); err != nil {
		return &MetadataError{
			Message:  fmt.Sprintf("failed to save flac tags: %s", filePath),
			Original: err,
		}
	}
	return nil
}
