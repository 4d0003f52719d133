package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // GIF format support
	_ "image/jpeg" // JPEG format support
	_ "image/png"  // PNG format support
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// DefaultCoverSize is the edge of generated assets; Discord asks for at least 512x512
const DefaultCoverSize = 512

// CoverProcessor turns embedded album art into square presence assets
type CoverProcessor struct {
	logger *zap.Logger
	size   int
}

// NewCoverProcessor creates a processor producing size x size covers.
// A non-positive size uses DefaultCoverSize.
func NewCoverProcessor(logger *zap.Logger, size int) *CoverProcessor {
	if size <= 0 {
		size = DefaultCoverSize
	}
	return &CoverProcessor{
		logger: logger,
		size:   size,
	}
}

// Process center-crops the image to a square and encodes it as PNG
func (p *CoverProcessor) Process(ctx context.Context, imageData []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dy() == 0 || bounds.Dx() == 0 {
		return nil, fmt.Errorf("invalid image dimensions: %dx%d", bounds.Dx(), bounds.Dy())
	}

	p.logger.Debug("Resizing cover",
		zap.Int("srcW", bounds.Dx()),
		zap.Int("srcH", bounds.Dy()),
		zap.Int("size", p.size))
	cover := imaging.Fill(img, p.size, p.size, imaging.Center, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, cover, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	p.logger.Debug("Image processed successfully", zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// Generate processes imageData and writes it to outputDir/<key>.png
func (p *CoverProcessor) Generate(ctx context.Context, imageData []byte, outputDir, key string) (string, error) {
	processed, err := p.Process(ctx, imageData)
	if err != nil {
		return "", fmt.Errorf("failed to process image: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(outputDir, key+".png")
	if err := os.WriteFile(outputPath, processed, 0644); err != nil {
		return "", fmt.Errorf("failed to write cover file: %w", err)
	}

	p.logger.Info("Cover asset generated",
		zap.String("path", outputPath),
		zap.Int("size", len(processed)))
	return outputPath, nil
}
