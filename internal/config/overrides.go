package config

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/genricoloni/ampresence/internal/domain"
)

const (
	// AlbumCoversFilename maps album lookup keys to asset keys
	AlbumCoversFilename = "album_covers.json"
	// ExceptionsFilename lists album names shared by several artists, one per line
	ExceptionsFilename = "album_name_exceptions.txt"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadOverrides reads the album override table and exception list from dir
func LoadOverrides(dir string) (domain.AlbumOverrides, error) {
	exceptions, err := LoadExceptions(filepath.Join(dir, ExceptionsFilename))
	if err != nil {
		return domain.AlbumOverrides{}, err
	}

	keys, err := LoadAlbumCovers(filepath.Join(dir, AlbumCoversFilename))
	if err != nil {
		return domain.AlbumOverrides{}, err
	}

	return domain.AlbumOverrides{
		Keys:       keys,
		Exceptions: exceptions,
	}, nil
}

// LoadExceptions reads a newline-delimited list of album names. Blank lines are skipped.
func LoadExceptions(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read album name exceptions: %w", err)
	}

	exceptions := make(map[string]struct{})
	scanner := bufio.NewScanner(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	for scanner.Scan() {
		name := strings.TrimRight(scanner.Text(), "\r")
		if name == "" {
			continue
		}
		exceptions[name] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse album name exceptions: %w", err)
	}

	return exceptions, nil
}

// LoadAlbumCovers reads the JSON object mapping album lookup keys to asset keys
func LoadAlbumCovers(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read album covers: %w", err)
	}

	var keys map[string]string
	if err := json.Unmarshal(bytes.TrimPrefix(data, utf8BOM), &keys); err != nil {
		return nil, fmt.Errorf("failed to parse album covers: %w", err)
	}
	if keys == nil {
		keys = make(map[string]string)
	}

	return keys, nil
}

// WriteAlbumCovers stores the album override table as indented JSON
func WriteAlbumCovers(path string, keys map[string]string) error {
	data, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode album covers: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write album covers: %w", err)
	}
	return nil
}

// WriteExceptions stores album names one per line
func WriteExceptions(path string, names []string) error {
	var buf bytes.Buffer
	for _, name := range names {
		buf.WriteString(name)
		buf.WriteByte('\n')
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write album name exceptions: %w", err)
	}
	return nil
}
