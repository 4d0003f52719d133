package processor

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestCoverProcessor_Process(t *testing.T) {
	tests := []struct {
		name          string
		imageData     []byte
		size          int
		expectedError string
		expectedSize  int
	}{
		{
			name:         "Success - Square JPEG",
			imageData:    createTestJPEG(100, 100, color.RGBA{R: 255, G: 0, B: 0, A: 255}),
			size:         64,
			expectedSize: 64,
		},
		{
			name:         "Success - Landscape Cropped To Square",
			imageData:    createTestJPEG(300, 200, color.RGBA{R: 0, G: 255, B: 0, A: 255}),
			size:         128,
			expectedSize: 128,
		},
		{
			name:         "Success - Small Image Upscaled With Default Size",
			imageData:    createTestPNG(10, 10),
			size:         0,
			expectedSize: DefaultCoverSize,
		},
		{
			name:          "Error - Invalid Image Data",
			imageData:     []byte("not-an-image"),
			size:          64,
			expectedError: "failed to decode image",
		},
		{
			name:          "Error - Empty Data",
			imageData:     []byte{},
			size:          64,
			expectedError: "failed to decode image",
		},
		{
			name:          "Error - Corrupted JPEG",
			imageData:     []byte{0xFF, 0xD8, 0xFF, 0x00, 0x00}, // Partial JPEG header
			size:          64,
			expectedError: "failed to decode image",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewCoverProcessor(zap.NewNop(), tt.size)
			result, err := p.Process(context.Background(), tt.imageData)

			if tt.expectedError != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.expectedError)
				}
				if !strings.Contains(err.Error(), tt.expectedError) {
					t.Errorf("expected error containing %q, got %q", tt.expectedError, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			img, format, err := image.Decode(bytes.NewReader(result))
			if err != nil {
				t.Fatalf("result is not a valid image: %v", err)
			}
			if format != "png" {
				t.Errorf("expected png output, got %s", format)
			}
			bounds := img.Bounds()
			if bounds.Dx() != tt.expectedSize || bounds.Dy() != tt.expectedSize {
				t.Errorf("expected %dx%d, got %dx%d", tt.expectedSize, tt.expectedSize, bounds.Dx(), bounds.Dy())
			}
		})
	}
}

func TestCoverProcessor_Generate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "assets")
	p := NewCoverProcessor(zap.NewNop(), 32)

	path, err := p.Generate(context.Background(), createTestJPEG(40, 40, color.RGBA{B: 255, A: 255}), dir, "abbey_road")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if want := filepath.Join(dir, "abbey_road.png"); path != want {
		t.Errorf("path mismatch: want %s, got %s", want, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("generated file missing: %v", err)
	}

	if _, err := p.Generate(context.Background(), []byte("junk"), dir, "junk"); err == nil {
		t.Error("expected error for invalid image")
	}
}

func createTestJPEG(width, height int, c color.Color) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	buf := new(bytes.Buffer)
	_ = jpeg.Encode(buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func createTestPNG(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 20), G: uint8(y * 20), B: 100, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	_ = png.Encode(buf, img)
	return buf.Bytes()
}
