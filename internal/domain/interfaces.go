package domain

import (
	"context"
	"time"
)

// Player defines the interface for querying a local media player.
// Implementations wrap a player specific control channel (Winamp IPC, MPD, MPRIS).
//
//go:generate mockgen -destination=mocks/player_mock.go -package=mocks github.com/genricoloni/ampresence/internal/domain Player
type Player interface {
	// PlayingStatus returns whether the player is playing, paused or stopped
	PlayingStatus(ctx context.Context) (PlayerStatus, error)

	// NowPlayingTitle returns the raw "<index>. <artist> - <title> - <player>" string
	NowPlayingTitle(ctx context.Context) (string, error)

	// PlaylistPosition returns the 0-based index of the current track
	PlaylistPosition(ctx context.Context) (int, error)

	// PlaybackOffsetMillis returns the elapsed time of the current track in milliseconds
	PlaybackOffsetMillis(ctx context.Context) (int, error)

	// PlaylistPaths dumps the current playlist and returns its file paths in order
	PlaylistPaths(ctx context.Context) ([]string, error)

	// Name returns the display name of the player (e.g. "Winamp")
	Name() string

	// Version returns the player version string
	Version() string
}

// Presence defines the interface for the rich presence display
//
//go:generate mockgen -destination=mocks/presence_mock.go -package=mocks github.com/genricoloni/ampresence/internal/domain Presence
type Presence interface {
	// Connect opens the session with the presence service
	Connect(ctx context.Context) error

	// Update replaces the displayed activity
	Update(ctx context.Context, activity Activity) error

	// Clear removes the displayed activity
	Clear(ctx context.Context) error

	// Close terminates the session
	Close() error
}

// TagReader defines the interface for reading metadata tags from audio files
//
//go:generate mockgen -destination=mocks/tag_reader_mock.go -package=mocks github.com/genricoloni/ampresence/internal/domain TagReader
type TagReader interface {
	// ReadTags returns the tags of the file keyed by lowercase name.
	// A nil map means the file carries no recognizable tags.
	ReadTags(path string) (map[string][]string, error)
}

// Config defines the interface for application configuration
type Config interface {
	// GetClientID returns the presence application id
	GetClientID() string

	// GetPollInterval returns the delay between two reconciliation ticks
	GetPollInterval() time.Duration

	// GetDefaultLargeKey returns the asset key used when no album override matches
	GetDefaultLargeKey() string

	// GetDefaultLargeText returns the hover text policy for the default asset
	GetDefaultLargeText() DefaultText

	// GetSmallAsset returns the fixed "now playing" indicator
	GetSmallAsset() AssetDescriptor

	// CustomAssetsEnabled reports whether album overrides should be consulted
	CustomAssetsEnabled() bool

	// GetAlbumOverrides returns the album override table
	GetAlbumOverrides() AlbumOverrides

	// GetPlayerSettings returns the media player adapter settings
	GetPlayerSettings() PlayerSettings
}
