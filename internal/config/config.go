package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/genricoloni/ampresence/internal/domain"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	// DefaultClientID is the presence application used when client_id is "default"
	DefaultClientID = "507484022675603456"

	settingsFilename    = "settings.toml"
	envFilename         = ".env"
	defaultPollInterval = time.Second
	defaultMPDAddress   = "localhost:6600"

	// Sentinel values of default_large_asset_text
	textWinampVersion = "winamp version"
	textAlbumName     = "album name"
)

// fileSettings mirrors settings.toml
type fileSettings struct {
	ClientID              string         `toml:"client_id"`
	DefaultLargeAssetKey  string         `toml:"default_large_asset_key"`
	DefaultLargeAssetText string         `toml:"default_large_asset_text"`
	SmallAssetKey         string         `toml:"small_asset_key"`
	SmallAssetText        string         `toml:"small_asset_text"`
	CustomAssets          bool           `toml:"custom_assets"`
	PollInterval          string         `toml:"poll_interval"`
	Player                playerSettings `toml:"player"`
}

type playerSettings struct {
	Kind           string `toml:"kind"`
	MPDAddress     string `toml:"mpd_address"`
	MPDPassword    string `toml:"mpd_password"`
	MusicDirectory string `toml:"music_directory"`
	MPRISName      string `toml:"mpris_name"`
	PlaylistFile   string `toml:"playlist_file"`
}

func defaultSettings() fileSettings {
	return fileSettings{
		ClientID:              "default",
		DefaultLargeAssetKey:  "logo",
		DefaultLargeAssetText: textWinampVersion,
		SmallAssetKey:         "playbutton",
		SmallAssetText:        "Playing",
		CustomAssets:          false,
		PollInterval:          defaultPollInterval.String(),
		Player: playerSettings{
			Kind:       "winamp",
			MPDAddress: defaultMPDAddress,
		},
	}
}

// AppConfig holds application configuration
type AppConfig struct {
	logger           *zap.Logger
	clientID         string
	pollInterval     time.Duration
	defaultLargeKey  string
	defaultLargeText domain.DefaultText
	smallAsset       domain.AssetDescriptor
	customAssets     bool
	overrides        domain.AlbumOverrides
	player           domain.PlayerSettings
}

// NewAppConfig loads the configuration from the directory named by
// AMPRESENCE_CONFIG_DIR, or from the user config directory
func NewAppConfig(logger *zap.Logger) (*AppConfig, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return Load(logger, dir)
}

// Load reads .env, settings.toml and the optional album override files from dir.
// A missing settings.toml is created with default values.
func Load(logger *zap.Logger, dir string) (*AppConfig, error) {
	if err := godotenv.Load(filepath.Join(dir, envFilename)); err != nil {
		logger.Debug("No .env file found, using system environment variables", zap.String("dir", dir))
	}

	settings, err := readSettings(logger, dir)
	if err != nil {
		return nil, err
	}
	applyEnv(&settings)

	cfg := &AppConfig{
		logger:           logger,
		clientID:         settings.ClientID,
		pollInterval:     parsePollInterval(logger, settings.PollInterval),
		defaultLargeKey:  settings.DefaultLargeAssetKey,
		defaultLargeText: ParseDefaultText(settings.DefaultLargeAssetText),
		smallAsset: domain.AssetDescriptor{
			Key:  settings.SmallAssetKey,
			Text: settings.SmallAssetText,
		},
		customAssets: settings.CustomAssets,
		player: domain.PlayerSettings{
			Kind:           strings.ToLower(settings.Player.Kind),
			MPDAddress:     settings.Player.MPDAddress,
			MPDPassword:    settings.Player.MPDPassword,
			MusicDirectory: expandPath(settings.Player.MusicDirectory),
			MPRISName:      settings.Player.MPRISName,
			PlaylistFile:   expandPath(settings.Player.PlaylistFile),
		},
	}

	if cfg.clientID == "" || cfg.clientID == "default" {
		cfg.clientID = DefaultClientID
	}
	if cfg.player.Kind == "" {
		cfg.player.Kind = "winamp"
	}
	if cfg.player.MPDAddress == "" {
		cfg.player.MPDAddress = defaultMPDAddress
	}

	// Override files are read once, a restart is needed to pick up changes
	if cfg.customAssets {
		overrides, err := LoadOverrides(dir)
		if err != nil {
			logger.Warn("Album overrides unavailable, custom assets disabled", zap.Error(err))
			cfg.customAssets = false
		} else {
			cfg.overrides = overrides
		}
	}

	logger.Info("Configuration loaded",
		zap.String("dir", dir),
		zap.String("player", cfg.player.Kind),
		zap.Duration("pollInterval", cfg.pollInterval),
		zap.Bool("customAssets", cfg.customAssets),
		zap.Int("albumOverrides", len(cfg.overrides.Keys)))

	return cfg, nil
}

// readSettings decodes settings.toml, writing the defaults first when it does not exist
func readSettings(logger *zap.Logger, dir string) (fileSettings, error) {
	path := filepath.Join(dir, settingsFilename)
	settings := defaultSettings()

	_, err := toml.DecodeFile(path, &settings)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fileSettings{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := writeDefaultSettings(path); err != nil {
		logger.Warn("Failed to write default settings", zap.String("path", path), zap.Error(err))
	} else {
		logger.Info("Settings file not found, created one with default values", zap.String("path", path))
	}
	return defaultSettings(), nil
}

func writeDefaultSettings(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create settings file: %w", err)
	}
	defer f.Close()

	header := "# default_large_asset_text: \"" + textWinampVersion + "\" shows the player version, \"" +
		textAlbumName + "\" the album playing\n\n"
	if _, err := f.WriteString(header); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(defaultSettings()); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return nil
}

// applyEnv lets environment variables override the file settings
func applyEnv(s *fileSettings) {
	if v := os.Getenv("AMPRESENCE_CLIENT_ID"); v != "" {
		s.ClientID = v
	}
	if v := os.Getenv("AMPRESENCE_PLAYER"); v != "" {
		s.Player.Kind = v
	}
	if v := os.Getenv("AMPRESENCE_MPD_ADDRESS"); v != "" {
		s.Player.MPDAddress = v
	}
	if v := os.Getenv("AMPRESENCE_MUSIC_DIR"); v != "" {
		s.Player.MusicDirectory = v
	}
}

func parsePollInterval(logger *zap.Logger, s string) time.Duration {
	if s == "" {
		return defaultPollInterval
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		logger.Warn("Invalid poll_interval, using default",
			zap.String("value", s),
			zap.Duration("default", defaultPollInterval))
		return defaultPollInterval
	}
	return d
}

// ParseDefaultText maps the default_large_asset_text setting to its variant
func ParseDefaultText(s string) domain.DefaultText {
	switch s {
	case textWinampVersion:
		return domain.ShowVersion()
	case textAlbumName:
		return domain.ShowAlbumName()
	default:
		return domain.FixedText(s)
	}
}

// DefaultDir returns $AMPRESENCE_CONFIG_DIR, or ampresence under the user config directory
func DefaultDir() (string, error) {
	if dir := os.Getenv("AMPRESENCE_CONFIG_DIR"); dir != "" {
		return expandPath(dir), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(base, "ampresence"), nil
}

// expandPath expands environment variables and a leading ~
func expandPath(path string) string {
	path = os.ExpandEnv(path)
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetClientID returns the presence application id
func (c *AppConfig) GetClientID() string {
	return c.clientID
}

// GetPollInterval returns the delay between two reconciliation ticks
func (c *AppConfig) GetPollInterval() time.Duration {
	return c.pollInterval
}

// GetDefaultLargeKey returns the asset key used when no album override matches
func (c *AppConfig) GetDefaultLargeKey() string {
	return c.defaultLargeKey
}

// GetDefaultLargeText returns the hover text policy for the default asset
func (c *AppConfig) GetDefaultLargeText() domain.DefaultText {
	return c.defaultLargeText
}

// GetSmallAsset returns the fixed "now playing" indicator
func (c *AppConfig) GetSmallAsset() domain.AssetDescriptor {
	return c.smallAsset
}

// CustomAssetsEnabled reports whether album overrides are in use
func (c *AppConfig) CustomAssetsEnabled() bool {
	return c.customAssets
}

// GetAlbumOverrides returns the album override table
func (c *AppConfig) GetAlbumOverrides() domain.AlbumOverrides {
	return c.overrides
}

// GetPlayerSettings returns the media player adapter settings
func (c *AppConfig) GetPlayerSettings() domain.PlayerSettings {
	return c.player
}
