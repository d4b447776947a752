// Package debug provides developer tooling for the viewer.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/phongview/internal/engine/gpu"
	"github.com/Faultbox/phongview/internal/logger"
)

// ScreenshotCapture writes framebuffer captures as PNG files.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	now       func() time.Time
	last      string
	seq       int
}

// NewScreenshotCapture creates a capture writing to outputDir.
func NewScreenshotCapture(outputDir, prefix string) *ScreenshotCapture {
	if prefix == "" {
		prefix = "screenshot"
	}
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// SetOutputDir changes the directory captures are written to.
func (s *ScreenshotCapture) SetOutputDir(dir string) {
	s.outputDir = dir
}

// OutputDir returns the capture directory.
func (s *ScreenshotCapture) OutputDir() string {
	return s.outputDir
}

// Capture reads the current back buffer and saves it.
func (s *ScreenshotCapture) Capture(ctx gpu.Frame, width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid framebuffer size %dx%d", width, height)
	}
	return s.CaptureFromPixels(ctx.ReadPixels(width, height), width, height)
}

// CaptureFromPixels saves bottom-up RGBA rows as returned by the GPU.
func (s *ScreenshotCapture) CaptureFromPixels(pixels []byte, width, height int) (string, error) {
	stride := width * 4
	if len(pixels) < stride*height {
		return "", fmt.Errorf("pixel buffer too short: %d bytes for %dx%d", len(pixels), width, height)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * stride
		copy(img.Pix[y*img.Stride:y*img.Stride+stride], pixels[src:src+stride])
	}
	return s.CaptureFromImage(img)
}

// CaptureFromImage saves img as-is.
func (s *ScreenshotCapture) CaptureFromImage(img image.Image) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating screenshot directory: %w", err)
	}

	path := filepath.Join(s.outputDir, s.GenerateFilename())
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating screenshot file: %w", err)
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("encoding screenshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing screenshot file: %w", err)
	}

	b := img.Bounds()
	logger.Info("screenshot saved", zap.String("path", path), zap.Int("width", b.Dx()), zap.Int("height", b.Dy()))
	return path, nil
}

// GenerateFilename returns the next file name. Captures within the same
// second get a numeric suffix.
func (s *ScreenshotCapture) GenerateFilename() string {
	stamp := s.now().Format("20060102_150405")
	if stamp == s.last {
		s.seq++
		return fmt.Sprintf("%s_%s_%d.png", s.prefix, stamp, s.seq)
	}
	s.last = stamp
	s.seq = 0
	return fmt.Sprintf("%s_%s.png", s.prefix, stamp)
}
