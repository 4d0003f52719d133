package player

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"unsafe"

	"github.com/genricoloni/ampresence/internal/domain"
	"github.com/lxn/win"
	"go.uber.org/zap"
)

const (
	winampClass = "Winamp v1.x"
	winampName  = "Winamp"

	// Winamp IPC messages, sent as WM_USER with the command in lParam
	ipcGetVersion    = 0
	ipcIsPlaying     = 104
	ipcGetOutputTime = 105
	ipcWritePlaylist = 120
	ipcGetListPos    = 125
)

// Winamp reads playback state from a running Winamp through its window messages
type Winamp struct {
	logger   *zap.Logger
	playlist string

	mu      sync.Mutex
	version string
}

// NewWinamp creates a Winamp adapter. Winamp does not need to be running yet.
func NewWinamp(logger *zap.Logger, settings domain.PlayerSettings) (domain.Player, error) {
	playlist := settings.PlaylistFile
	if playlist == "" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return nil, fmt.Errorf("APPDATA is not set and no playlist_file is configured")
		}
		playlist = filepath.Join(appData, "Winamp", "Winamp.m3u8")
	}
	return &Winamp{
		logger:   logger,
		playlist: playlist,
	}, nil
}

func (w *Winamp) window() win.HWND {
	class, err := syscall.UTF16PtrFromString(winampClass)
	if err != nil {
		return 0
	}
	return win.FindWindow(class, nil)
}

func (w *Winamp) ipc(command uintptr, data uintptr) (uintptr, error) {
	hwnd := w.window()
	if hwnd == 0 {
		return 0, fmt.Errorf("winamp is not running")
	}
	return win.SendMessage(hwnd, win.WM_USER, data, command), nil
}

// PlayingStatus maps IPC_ISPLAYING. A closed Winamp reports stopped.
func (w *Winamp) PlayingStatus(ctx context.Context) (domain.PlayerStatus, error) {
	hwnd := w.window()
	if hwnd == 0 {
		return domain.StatusStopped, nil
	}

	switch win.SendMessage(hwnd, win.WM_USER, 0, ipcIsPlaying) {
	case 1:
		return domain.StatusPlaying, nil
	case 3:
		return domain.StatusPaused, nil
	default:
		return domain.StatusStopped, nil
	}
}

// NowPlayingTitle returns the main window caption
func (w *Winamp) NowPlayingTitle(ctx context.Context) (string, error) {
	hwnd := w.window()
	if hwnd == 0 {
		return "", fmt.Errorf("winamp is not running")
	}

	length := win.SendMessage(hwnd, win.WM_GETTEXTLENGTH, 0, 0)
	buf := make([]uint16, length+1)
	win.SendMessage(hwnd, win.WM_GETTEXT, uintptr(len(buf)), uintptr(unsafe.Pointer(&buf[0])))
	return syscall.UTF16ToString(buf), nil
}

// PlaylistPosition returns the 0-based index of the current entry
func (w *Winamp) PlaylistPosition(ctx context.Context) (int, error) {
	ret, err := w.ipc(ipcGetListPos, 0)
	if err != nil {
		return 0, err
	}
	return int(int32(ret)), nil
}

// PlaybackOffsetMillis returns the position in the current track
func (w *Winamp) PlaybackOffsetMillis(ctx context.Context) (int, error) {
	ret, err := w.ipc(ipcGetOutputTime, 0)
	if err != nil {
		return 0, err
	}
	return int(int32(ret)), nil
}

// PlaylistPaths makes Winamp write its playlist file and reads it back
func (w *Winamp) PlaylistPaths(ctx context.Context) ([]string, error) {
	if _, err := w.ipc(ipcWritePlaylist, 0); err != nil {
		return nil, fmt.Errorf("failed to dump playlist: %w", err)
	}
	return ReadPlaylist(w.playlist)
}

// Name returns the player name shown in version text
func (w *Winamp) Name() string {
	return winampName
}

// Version returns the Winamp version, e.g. "5.666"
func (w *Winamp) Version() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.version != "" {
		return w.version
	}
	ret, err := w.ipc(ipcGetVersion, 0)
	if err != nil {
		w.logger.Debug("Failed to read winamp version", zap.Error(err))
		return "unknown"
	}
	w.version = FormatWinampVersion(uint32(ret))
	return w.version
}
