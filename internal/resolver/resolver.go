package resolver

import (
	"context"
	"fmt"

	"github.com/genricoloni/ampresence/internal/domain"
	"go.uber.org/zap"
)

const (
	// logoAssetKey is the asset shown when custom album assets are disabled
	logoAssetKey = "logo"

	minTextLength = 2
)

// Resolver picks the large presence asset for the playing track from the
// album override table, degrading to the configured default asset
type Resolver struct {
	logger *zap.Logger
	cfg    domain.Config
	player domain.Player
	tags   domain.TagReader
}

// NewResolver creates a new metadata resolver
func NewResolver(logger *zap.Logger, cfg domain.Config, player domain.Player, tags domain.TagReader) *Resolver {
	return &Resolver{
		logger: logger,
		cfg:    cfg,
		player: player,
		tags:   tags,
	}
}

// Resolve returns the large asset for the track at the given 0-based playlist
// position. It never fails: every lookup or read error falls back to a default.
func (r *Resolver) Resolve(ctx context.Context, position int, artist string) domain.AssetDescriptor {
	if !r.cfg.CustomAssetsEnabled() {
		return domain.AssetDescriptor{
			Key:  logoAssetKey,
			Text: VersionText(r.player),
		}
	}

	album := r.albumName(ctx, position)
	overrides := r.cfg.GetAlbumOverrides()

	var asset domain.AssetDescriptor
	if key, ok := overrides.Lookup(album, artist); ok {
		asset = domain.AssetDescriptor{Key: key, Text: album}
	} else {
		r.logger.Debug("No album asset override, using default",
			zap.String("album", album),
			zap.String("lookupKey", overrides.LookupKey(album, artist)))

		asset = domain.AssetDescriptor{
			Key:  r.cfg.GetDefaultLargeKey(),
			Text: r.cfg.GetDefaultLargeText().Render(album, VersionText(r.player)),
		}
	}

	if len([]rune(asset.Text)) < minTextLength {
		asset.Text = "Album: " + asset.Text
	}

	return asset
}

// albumName reads the album tag of the playlist entry at position
func (r *Resolver) albumName(ctx context.Context, position int) string {
	paths, err := r.player.PlaylistPaths(ctx)
	if err != nil {
		r.logger.Warn("Failed to read playlist", zap.Error(err))
		return domain.UnknownAlbum
	}

	if position < 0 || position >= len(paths) {
		r.logger.Warn("Playlist position out of range",
			zap.Int("position", position),
			zap.Int("length", len(paths)))
		return domain.UnknownAlbum
	}

	path := paths[position]
	tags, err := r.tags.ReadTags(path)
	if err != nil {
		r.logger.Debug("Failed to read tags", zap.String("path", path), zap.Error(err))
		return domain.UnknownAlbum
	}

	if albums := tags["album"]; len(albums) > 0 {
		return albums[0]
	}
	return domain.UnknownAlbum
}

// VersionText returns the "<player> v<version>" string shown for the default asset,
// or just the player name when it reports no version
func VersionText(player domain.Player) string {
	version := player.Version()
	if version == "" {
		return player.Name()
	}
	return fmt.Sprintf("%s v%s", player.Name(), version)
}
