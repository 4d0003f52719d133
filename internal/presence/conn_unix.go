//go:build !windows

package presence

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
)

// socketDirs lists where Discord and its sandboxed builds place the IPC socket
func socketDirs() []string {
	var dirs []string
	for _, env := range []string{"XDG_RUNTIME_DIR", "TMPDIR", "TMP", "TEMP"} {
		if dir := os.Getenv(env); dir != "" {
			dirs = append(dirs, dir)
		}
	}
	dirs = append(dirs, "/tmp")

	var out []string
	for _, dir := range dirs {
		out = append(out,
			dir,
			filepath.Join(dir, "app", "com.discordapp.Discord"),
			filepath.Join(dir, "snap.discord"),
		)
	}
	return out
}

func dialIPC(ctx context.Context) (net.Conn, error) {
	var d net.Dialer
	for _, dir := range socketDirs() {
		for i := 0; i < 10; i++ {
			path := filepath.Join(dir, fmt.Sprintf("discord-ipc-%d", i))
			if _, err := os.Stat(path); err != nil {
				continue
			}
			conn, err := d.DialContext(ctx, "unix", path)
			if err == nil {
				return conn, nil
			}
		}
	}
	return nil, ErrNotConnected
}
