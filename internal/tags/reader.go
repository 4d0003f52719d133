package tags

import (
	"errors"
	"fmt"
	"os"

	"github.com/dhowden/tag"
	"go.uber.org/zap"
)

// Track is the tag data of one audio file
type Track struct {
	Path        string
	Title       string
	Artist      string
	AlbumArtist string
	Album       string
	Genre       string
	Picture     *tag.Picture
}

// Reader extracts tags from audio files with dhowden/tag
type Reader struct {
	logger *zap.Logger
}

// NewReader creates a new tag reader
func NewReader(logger *zap.Logger) *Reader {
	return &Reader{logger: logger}
}

// ReadTrack reads the tags of the file at path.
// Untagged files return tag.ErrNoTagsFound.
func (r *Reader) ReadTrack(path string) (Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return Track{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return Track{}, fmt.Errorf("failed to read tags from %s: %w", path, err)
	}

	return Track{
		Path:        path,
		Title:       m.Title(),
		Artist:      m.Artist(),
		AlbumArtist: m.AlbumArtist(),
		Album:       m.Album(),
		Genre:       m.Genre(),
		Picture:     m.Picture(),
	}, nil
}

// ReadTags returns the text tags of path keyed by lowercase field name.
// A file without tags yields a nil map and no error.
func (r *Reader) ReadTags(path string) (map[string][]string, error) {
	track, err := r.ReadTrack(path)
	if errors.Is(err, tag.ErrNoTagsFound) {
		r.logger.Debug("File has no tags", zap.String("path", path))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	fields := map[string]string{
		"title":       track.Title,
		"artist":      track.Artist,
		"albumartist": track.AlbumArtist,
		"album":       track.Album,
		"genre":       track.Genre,
	}

	tags := make(map[string][]string, len(fields))
	for key, value := range fields {
		if value != "" {
			tags[key] = []string{value}
		}
	}
	return tags, nil
}
