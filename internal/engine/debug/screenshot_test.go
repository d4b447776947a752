package debug

import (
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/phongview/internal/engine/gpu/gputest"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGenerateFilenameSuffixesSameSecond(t *testing.T) {
	s := NewScreenshotCapture(t.TempDir(), "phongview")
	s.now = fixedClock(time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC))

	assert.Equal(t, "phongview_20240301_123045.png", s.GenerateFilename())
	assert.Equal(t, "phongview_20240301_123045_1.png", s.GenerateFilename())
	assert.Equal(t, "phongview_20240301_123045_2.png", s.GenerateFilename())

	s.now = fixedClock(time.Date(2024, 3, 1, 12, 30, 46, 0, time.UTC))
	assert.Equal(t, "phongview_20240301_123046.png", s.GenerateFilename())
}

func TestDefaultPrefix(t *testing.T) {
	s := NewScreenshotCapture("out", "")
	s.now = fixedClock(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	assert.Equal(t, "screenshot_20240102_030405.png", s.GenerateFilename())
	assert.Equal(t, "out", s.OutputDir())
}

func TestCaptureFromPixelsFlipsRows(t *testing.T) {
	dir := t.TempDir()
	s := NewScreenshotCapture(dir, "shot")

	// Two rows, bottom row red, top row blue.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	path, err := s.CaptureFromPixels(pixels, 1, 2)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, [3]uint32{0, 0, 0xffff}, [3]uint32{r, g, b})
	r, g, b, _ = img.At(0, 1).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0, 0}, [3]uint32{r, g, b})
}

func TestCaptureFromPixelsShortBuffer(t *testing.T) {
	s := NewScreenshotCapture(t.TempDir(), "shot")
	_, err := s.CaptureFromPixels(make([]byte, 4), 2, 2)
	assert.Error(t, err)
}

func TestCaptureReadsFramebuffer(t *testing.T) {
	rec := gputest.New()
	s := NewScreenshotCapture(t.TempDir(), "shot")

	path, err := s.Capture(rec, 4, 3)
	require.NoError(t, err)
	assert.FileExists(t, path)

	calls := rec.Named("ReadPixels")
	require.Len(t, calls, 1)
	assert.Equal(t, [2]int{4, 3}, calls[0].Value)

	_, err = s.Capture(rec, 0, 3)
	assert.Error(t, err)
}
