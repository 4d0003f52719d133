package player

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/fhs/gompd/v2/mpd"
	"github.com/genricoloni/ampresence/internal/domain"
	"go.uber.org/zap"
)

const mpdName = "MPD"

// MPDClient is the subset of the gompd client used by the MPD adapter.
//
//go:generate mockgen -destination=mocks/mpd_client_mock.go -package=mocks github.com/genricoloni/ampresence/internal/player MPDClient
type MPDClient interface {
	Status() (mpd.Attrs, error)
	CurrentSong() (mpd.Attrs, error)
	PlaylistInfo(start, end int) ([]mpd.Attrs, error)
	Version() string
	Close() error
}

// MPDDialer opens a connection to an MPD server
type MPDDialer func(addr, password string) (MPDClient, error)

func dialMPD(addr, password string) (MPDClient, error) {
	return mpd.DialAuthenticated("tcp", addr, password)
}

// MPD reads playback state from a Music Player Daemon.
// Every call uses its own short-lived connection so an MPD restart never
// leaves the adapter holding a dead socket.
type MPD struct {
	logger   *zap.Logger
	settings domain.PlayerSettings
	dial     MPDDialer

	mu      sync.Mutex
	version string
}

// NewMPD creates an MPD adapter. A nil dial uses a TCP connection.
func NewMPD(logger *zap.Logger, settings domain.PlayerSettings, dial MPDDialer) *MPD {
	if dial == nil {
		dial = dialMPD
	}
	return &MPD{
		logger:   logger,
		settings: settings,
		dial:     dial,
	}
}

// withConn runs fn with a fresh client
func (m *MPD) withConn(ctx context.Context, fn func(c MPDClient) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c, err := m.dial(m.settings.MPDAddress, m.settings.MPDPassword)
	if err != nil {
		return fmt.Errorf("failed to connect to mpd at %s: %w", m.settings.MPDAddress, err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			m.logger.Debug("Failed to close mpd connection", zap.Error(err))
		}
	}()

	m.rememberVersion(c.Version())
	return fn(c)
}

func (m *MPD) rememberVersion(v string) {
	if v == "" {
		return
	}
	m.mu.Lock()
	m.version = v
	m.mu.Unlock()
}

// PlayingStatus maps the mpd state attribute
func (m *MPD) PlayingStatus(ctx context.Context) (domain.PlayerStatus, error) {
	var status domain.PlayerStatus
	err := m.withConn(ctx, func(c MPDClient) error {
		attrs, err := c.Status()
		if err != nil {
			return fmt.Errorf("failed to read mpd status: %w", err)
		}
		status = mpdStatus(attrs["state"])
		return nil
	})
	return status, err
}

func mpdStatus(state string) domain.PlayerStatus {
	switch state {
	case "play":
		return domain.StatusPlaying
	case "pause":
		return domain.StatusPaused
	default:
		return domain.StatusStopped
	}
}

// NowPlayingTitle builds the "<n>. <artist> - <title> - MPD" string of the current song
func (m *MPD) NowPlayingTitle(ctx context.Context) (string, error) {
	var title string
	err := m.withConn(ctx, func(c MPDClient) error {
		status, err := c.Status()
		if err != nil {
			return fmt.Errorf("failed to read mpd status: %w", err)
		}
		song, err := c.CurrentSong()
		if err != nil {
			return fmt.Errorf("failed to read current song: %w", err)
		}

		pos, err := strconv.Atoi(status["song"])
		if err != nil {
			pos = 0
		}

		name := song["Title"]
		if name == "" {
			name = filepath.Base(song["file"])
		}
		title = fmt.Sprintf("%d. %s - %s - %s", pos+1, song["Artist"], name, mpdName)
		return nil
	})
	return title, err
}

// PlaylistPosition returns the 0-based queue index of the current song
func (m *MPD) PlaylistPosition(ctx context.Context) (int, error) {
	var pos int
	err := m.withConn(ctx, func(c MPDClient) error {
		status, err := c.Status()
		if err != nil {
			return fmt.Errorf("failed to read mpd status: %w", err)
		}
		pos, err = strconv.Atoi(status["song"])
		if err != nil {
			return fmt.Errorf("invalid song position %q: %w", status["song"], err)
		}
		return nil
	})
	return pos, err
}

// PlaybackOffsetMillis converts the elapsed seconds reported by mpd
func (m *MPD) PlaybackOffsetMillis(ctx context.Context) (int, error) {
	var offset int
	err := m.withConn(ctx, func(c MPDClient) error {
		status, err := c.Status()
		if err != nil {
			return fmt.Errorf("failed to read mpd status: %w", err)
		}
		elapsed, err := strconv.ParseFloat(status["elapsed"], 64)
		if err != nil {
			return fmt.Errorf("invalid elapsed time %q: %w", status["elapsed"], err)
		}
		offset = int(math.Round(elapsed * 1000))
		return nil
	})
	return offset, err
}

// PlaylistPaths returns the queue as paths under the configured music directory
func (m *MPD) PlaylistPaths(ctx context.Context) ([]string, error) {
	var paths []string
	err := m.withConn(ctx, func(c MPDClient) error {
		songs, err := c.PlaylistInfo(-1, -1)
		if err != nil {
			return fmt.Errorf("failed to read mpd queue: %w", err)
		}
		paths = make([]string, 0, len(songs))
		for _, song := range songs {
			paths = append(paths, filepath.Join(m.settings.MusicDirectory, filepath.FromSlash(song["file"])))
		}
		return nil
	})
	return paths, err
}

// Name returns the player name shown in version text
func (m *MPD) Name() string {
	return mpdName
}

// Version returns the protocol version announced by the server,
// connecting once if no call has reached it yet
func (m *MPD) Version() string {
	m.mu.Lock()
	v := m.version
	m.mu.Unlock()
	if v != "" {
		return v
	}

	if err := m.withConn(context.Background(), func(MPDClient) error { return nil }); err != nil {
		m.logger.Debug("Failed to read mpd version", zap.Error(err))
		return "unknown"
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.version
}
