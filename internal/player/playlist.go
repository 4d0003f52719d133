package player

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadPlaylist returns the file entries of an m3u or m3u8 playlist in order.
// Comment lines and blanks are skipped, relative entries are resolved
// against the playlist directory.
func ReadPlaylist(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read playlist: %w", err)
	}

	dir := filepath.Dir(path)
	var entries []string

	scanner := bufio.NewScanner(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, resolveEntry(dir, line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse playlist: %w", err)
	}

	return entries, nil
}

func resolveEntry(dir, entry string) string {
	if strings.Contains(entry, "://") || filepath.IsAbs(entry) || isWindowsAbs(entry) {
		return entry
	}
	return filepath.Join(dir, entry)
}

// isWindowsAbs catches drive letter and UNC paths on every platform
func isWindowsAbs(entry string) bool {
	if strings.HasPrefix(entry, `\\`) {
		return true
	}
	return len(entry) >= 3 && entry[1] == ':' && (entry[2] == '\\' || entry[2] == '/')
}
