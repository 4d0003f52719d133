package player

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/genricoloni/ampresence/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const (
	mprisPrefix     = "org.mpris.MediaPlayer2."
	mprisPath       = "/org/mpris/MediaPlayer2"
	mprisRoot       = "org.mpris.MediaPlayer2"
	mprisPlayer     = "org.mpris.MediaPlayer2.Player"
	mprisName       = "MPRIS"
	mprisListPrefix = "1. "
)

// MPRIS reads playback state from a media player over the D-Bus session bus.
// MPRIS has no playlist, so the current track always sits at position 0.
type MPRIS struct {
	logger   *zap.Logger
	settings domain.PlayerSettings
	connect  DBusConnector

	mu       sync.Mutex
	conn     DBusClient
	identity string
}

// NewMPRIS creates an MPRIS adapter. The bus connection is opened on first use.
// A nil connect uses the session bus.
func NewMPRIS(logger *zap.Logger, settings domain.PlayerSettings, connect DBusConnector) (domain.Player, error) {
	return newMPRIS(logger, settings, connect), nil
}

func newMPRIS(logger *zap.Logger, settings domain.PlayerSettings, connect DBusConnector) *MPRIS {
	if connect == nil {
		connect = connectSessionBus
	}
	return &MPRIS{
		logger:   logger,
		settings: settings,
		connect:  connect,
	}
}

// client returns the open connection, dialing when needed
func (m *MPRIS) client() (DBusClient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn != nil {
		return m.conn, nil
	}
	conn, err := m.connect()
	if err != nil {
		return nil, fmt.Errorf("session bus connection failed: %w", err)
	}
	m.conn = conn
	m.logger.Info("Connected to session bus")
	return conn, nil
}

// reset drops a connection that failed so the next call reconnects
func (m *MPRIS) reset(conn DBusClient) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn != conn {
		return
	}
	if err := conn.Close(); err != nil {
		m.logger.Debug("Failed to close D-Bus connection", zap.Error(err))
	}
	m.conn = nil
}

// findPlayer returns the bus name of the configured player, or of the first
// MPRIS player on the bus. An empty name means no player is running.
func (m *MPRIS) findPlayer(conn DBusClient) (string, error) {
	names, err := conn.ListNames()
	if err != nil {
		m.reset(conn)
		return "", fmt.Errorf("failed to list bus names: %w", err)
	}

	want := ""
	if m.settings.MPRISName != "" {
		want = m.settings.MPRISName
		if !strings.HasPrefix(want, mprisPrefix) {
			want = mprisPrefix + want
		}
	}

	var players []string
	for _, name := range names {
		if !strings.HasPrefix(name, mprisPrefix) {
			continue
		}
		if want != "" && name == want {
			return name, nil
		}
		players = append(players, name)
	}
	if want != "" || len(players) == 0 {
		return "", nil
	}

	sort.Strings(players)
	return players[0], nil
}

func (m *MPRIS) property(conn DBusClient, bus, prop string) (any, error) {
	variant, err := conn.GetProperty(bus, mprisPath, prop)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", prop, err)
	}
	return variant.Value(), nil
}

// active returns the connection and bus name of the running player
func (m *MPRIS) active() (DBusClient, string, error) {
	conn, err := m.client()
	if err != nil {
		return nil, "", err
	}
	bus, err := m.findPlayer(conn)
	if err != nil {
		return nil, "", err
	}
	return conn, bus, nil
}

// PlayingStatus reads PlaybackStatus. A missing player reports stopped.
func (m *MPRIS) PlayingStatus(ctx context.Context) (domain.PlayerStatus, error) {
	conn, bus, err := m.active()
	if err != nil {
		return "", err
	}
	if bus == "" {
		return domain.StatusStopped, nil
	}

	value, err := m.property(conn, bus, mprisPlayer+".PlaybackStatus")
	if err != nil {
		return "", err
	}
	status, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("invalid playback status format")
	}

	switch status {
	case "Playing":
		return domain.StatusPlaying, nil
	case "Paused":
		return domain.StatusPaused, nil
	default:
		return domain.StatusStopped, nil
	}
}

// NowPlayingTitle builds "1. <artist> - <title> - <identity>" from the track metadata
func (m *MPRIS) NowPlayingTitle(ctx context.Context) (string, error) {
	conn, bus, err := m.active()
	if err != nil {
		return "", err
	}
	if bus == "" {
		return "", fmt.Errorf("no MPRIS player running")
	}

	metadata, err := m.metadata(conn, bus)
	if err != nil {
		return "", err
	}

	title, _ := metadata["xesam:title"].Value().(string)
	artist := ""
	if artistVar, ok := metadata["xesam:artist"]; ok {
		switch artists := artistVar.Value().(type) {
		case []string:
			if len(artists) > 0 {
				artist = artists[0]
			}
		case string:
			artist = artists
		default:
			// Some non-compliant players may use unexpected types
			m.logger.Debug("Unexpected artist type in metadata",
				zap.String("type", fmt.Sprintf("%T", artistVar.Value())))
		}
	}

	identity := m.refreshIdentity(conn, bus)
	return mprisListPrefix + artist + " - " + title + " - " + identity, nil
}

func (m *MPRIS) metadata(conn DBusClient, bus string) (map[string]dbus.Variant, error) {
	value, err := m.property(conn, bus, mprisPlayer+".Metadata")
	if err != nil {
		return nil, err
	}
	// Some players return nil or unexpected types when nothing is loaded
	metadata, ok := value.(map[string]dbus.Variant)
	if !ok {
		return map[string]dbus.Variant{}, nil
	}
	return metadata, nil
}

// refreshIdentity reads the player's display name, keeping the last known one on failure
func (m *MPRIS) refreshIdentity(conn DBusClient, bus string) string {
	value, err := m.property(conn, bus, mprisRoot+".Identity")
	if err == nil {
		if identity, ok := value.(string); ok && identity != "" {
			m.mu.Lock()
			m.identity = identity
			m.mu.Unlock()
		}
	} else {
		m.logger.Debug("Failed to read player identity", zap.String("player", bus), zap.Error(err))
	}
	return m.Name()
}

// PlaylistPosition is always 0
func (m *MPRIS) PlaylistPosition(ctx context.Context) (int, error) {
	return 0, nil
}

// PlaybackOffsetMillis converts the Position property from microseconds
func (m *MPRIS) PlaybackOffsetMillis(ctx context.Context) (int, error) {
	conn, bus, err := m.active()
	if err != nil {
		return 0, err
	}
	if bus == "" {
		return 0, fmt.Errorf("no MPRIS player running")
	}

	value, err := m.property(conn, bus, mprisPlayer+".Position")
	if err != nil {
		return 0, err
	}
	switch micros := value.(type) {
	case int64:
		return int(micros / 1000), nil
	case uint64:
		return int(micros / 1000), nil
	case int32:
		return int(micros / 1000), nil
	default:
		return 0, fmt.Errorf("invalid position format %T", value)
	}
}

// PlaylistPaths returns the local file of the current track as a one-entry playlist
func (m *MPRIS) PlaylistPaths(ctx context.Context) ([]string, error) {
	conn, bus, err := m.active()
	if err != nil {
		return nil, err
	}
	if bus == "" {
		return nil, fmt.Errorf("no MPRIS player running")
	}

	metadata, err := m.metadata(conn, bus)
	if err != nil {
		return nil, err
	}
	raw, _ := metadata["xesam:url"].Value().(string)
	if raw == "" {
		return nil, fmt.Errorf("current track has no url")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid track url %q: %w", raw, err)
	}
	if u.Scheme != "file" {
		return nil, fmt.Errorf("current track is not a local file: %s", raw)
	}
	return []string{u.Path}, nil
}

// Name returns the identity of the last player seen
func (m *MPRIS) Name() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == "" {
		return mprisName
	}
	return m.identity
}

// Version is empty, MPRIS players expose no version of their own
func (m *MPRIS) Version() string {
	return ""
}

// Close releases the bus connection
func (m *MPRIS) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn == nil {
		return nil
	}
	err := m.conn.Close()
	m.conn = nil
	return err
}
