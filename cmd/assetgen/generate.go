package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
	"github.com/genricoloni/ampresence/internal/config"
	"github.com/genricoloni/ampresence/internal/processor"
	"github.com/genricoloni/ampresence/internal/tags"
	"go.uber.org/zap"
)

// maxKeyLength is the longest asset name the Discord developer portal accepts
const maxKeyLength = 32

var audioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".m4a":  true,
	".mp4":  true,
	".ogg":  true,
	".dsf":  true,
}

// album is one (artist, album) pair found in the library
type album struct {
	Artist  string
	Name    string
	Picture *tag.Picture
}

// asset is a cover to render and the lookup keys pointing at it
type asset struct {
	Key     string
	Lookup  string
	Picture *tag.Picture
}

// collectAlbums walks root and groups tagged audio files by artist and album.
// The first embedded picture of each group is kept.
func collectAlbums(ctx context.Context, logger *zap.Logger, reader *tags.Reader, root string) ([]album, error) {
	type groupKey struct{ artist, album string }
	groups := make(map[groupKey]*album)
	var order []groupKey

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Skipping unreadable path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !audioExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		track, err := reader.ReadTrack(path)
		if errors.Is(err, tag.ErrNoTagsFound) {
			logger.Debug("Skipping untagged file", zap.String("path", path))
			return nil
		}
		if err != nil {
			logger.Warn("Failed to read tags", zap.String("path", path), zap.Error(err))
			return nil
		}
		if track.Album == "" {
			return nil
		}

		k := groupKey{artist: track.Artist, album: track.Album}
		g, ok := groups[k]
		if !ok {
			g = &album{Artist: track.Artist, Name: track.Album}
			groups[k] = g
			order = append(order, k)
		}
		if g.Picture == nil && track.Picture != nil {
			g.Picture = track.Picture
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	albums := make([]album, 0, len(order))
	for _, k := range order {
		albums = append(albums, *groups[k])
	}
	return albums, nil
}

// planAssets decides the exception list and one asset per album with a picture.
// Album names shared by several artists get the "<artist> - <album>" lookup key.
func planAssets(albums []album) ([]asset, []string) {
	artists := make(map[string]map[string]struct{})
	for _, a := range albums {
		if artists[a.Name] == nil {
			artists[a.Name] = make(map[string]struct{})
		}
		artists[a.Name][a.Artist] = struct{}{}
	}

	var exceptions []string
	for name, set := range artists {
		if len(set) > 1 {
			exceptions = append(exceptions, name)
		}
	}
	sort.Strings(exceptions)

	sorted := make([]album, len(albums))
	copy(sorted, albums)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].Artist < sorted[j].Artist
	})

	used := make(map[string]bool)
	var assets []asset
	for _, a := range sorted {
		if a.Picture == nil {
			continue
		}
		lookup := a.Name
		if len(artists[a.Name]) > 1 {
			lookup = a.Artist + " - " + a.Name
		}
		key := uniqueKey(assetKey(lookup), used)
		used[key] = true
		assets = append(assets, asset{Key: key, Lookup: lookup, Picture: a.Picture})
	}
	return assets, exceptions
}

// assetKey lowercases s and keeps [a-z0-9_], collapsing everything else to "_"
func assetKey(s string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case !lastUnderscore:
			b.WriteByte('_')
			lastUnderscore = true
		}
	}

	key := strings.TrimRight(b.String(), "_")
	if len(key) > maxKeyLength {
		key = strings.TrimRight(key[:maxKeyLength], "_")
	}
	if key == "" {
		key = "album"
	}
	return key
}

// uniqueKey appends a numeric suffix until key is unused
func uniqueKey(key string, used map[string]bool) string {
	if !used[key] {
		return key
	}
	for n := 2; ; n++ {
		suffix := "_" + strconv.Itoa(n)
		base := key
		if len(base)+len(suffix) > maxKeyLength {
			base = base[:maxKeyLength-len(suffix)]
		}
		if candidate := base + suffix; !used[candidate] {
			return candidate
		}
	}
}

// writeAssets renders every cover and stores the override files in outDir
func writeAssets(ctx context.Context, logger *zap.Logger, proc *processor.CoverProcessor, outDir string, assets []asset, exceptions []string) error {
	keys := make(map[string]string, len(assets))
	assetDir := filepath.Join(outDir, "assets")

	for _, a := range assets {
		if _, err := proc.Generate(ctx, a.Picture.Data, assetDir, a.Key); err != nil {
			logger.Warn("Failed to generate cover",
				zap.String("album", a.Lookup),
				zap.Error(err))
			continue
		}
		keys[a.Lookup] = a.Key
	}

	if err := config.WriteAlbumCovers(filepath.Join(outDir, config.AlbumCoversFilename), keys); err != nil {
		return err
	}
	if err := config.WriteExceptions(filepath.Join(outDir, config.ExceptionsFilename), exceptions); err != nil {
		return err
	}

	logger.Info("Album overrides written",
		zap.String("dir", outDir),
		zap.Int("covers", len(keys)),
		zap.Int("exceptions", len(exceptions)))
	return nil
}
