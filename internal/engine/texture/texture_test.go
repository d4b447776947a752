package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/Faultbox/phongview/internal/engine/gpu/gputest"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

// twoRows is a 2x2 image with a red top row and a blue bottom row.
func twoRows() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		img.SetNRGBA(x, 0, red)
		img.SetNRGBA(x, 1, blue)
	}
	return img
}

func writeImage(t *testing.T, name string, enc func(f *os.File, img image.Image) error) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, enc(f, twoRows()))
	return path
}

func TestDecodeFlipsRows(t *testing.T) {
	encoders := map[string]func(f *os.File, img image.Image) error{
		"tex.png": func(f *os.File, img image.Image) error { return png.Encode(f, img) },
		"tex.bmp": func(f *os.File, img image.Image) error { return bmp.Encode(f, img) },
	}
	for name, enc := range encoders {
		t.Run(name, func(t *testing.T) {
			img, err := Decode(writeImage(t, name, enc))
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
			assert.Equal(t, blue, img.NRGBAAt(0, 0))
			assert.Equal(t, red, img.NRGBAAt(1, 1))
		})
	}
}

func TestDecodeTGA(t *testing.T) {
	// 2x1 uncompressed 24-bit, bottom-up: blue then red pixel (BGR order).
	data := []byte{0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 0, 1, 0, 24, 0,
		255, 0, 0,
		0, 0, 255,
	}
	path := filepath.Join(t.TempDir(), "tex.TGA")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	img, err := Decode(path)
	require.NoError(t, err)
	assert.Equal(t, blue, img.NRGBAAt(0, 0))
	assert.Equal(t, red, img.NRGBAAt(1, 0))
}

func TestDecodeTGARLE(t *testing.T) {
	// 3x1 RLE 32-bit, top-down: a run of three half transparent green pixels.
	data := []byte{0, 0, 10, 0, 0, 0, 0, 0, 0, 0, 0, 0, 3, 0, 1, 0, 32, 0x20,
		0x82, 0, 255, 0, 128,
	}
	img, err := DecodeTGA(data)
	require.NoError(t, err)
	for x := 0; x < 3; x++ {
		assert.Equal(t, color.NRGBA{G: 255, A: 128}, img.NRGBAAt(x, 0))
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	_, err := DecodeTGA([]byte{1, 2, 3})
	assert.Error(t, err)

	header := []byte{0, 1, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 1, 0, 24, 0}
	_, err = DecodeTGA(header)
	assert.Error(t, err)

	header[1] = 0
	header[16] = 16
	_, err = DecodeTGA(header)
	assert.Error(t, err)

	header[16] = 24
	_, err = DecodeTGA(header)
	assert.Error(t, err, "missing pixel data")
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "junk.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))
	_, err = Decode(path)
	assert.Error(t, err)
}

func TestToNRGBASubImage(t *testing.T) {
	sub := twoRows().SubImage(image.Rect(0, 1, 2, 2))
	out := ToNRGBA(sub)
	assert.Equal(t, image.Rect(0, 0, 2, 1), out.Bounds())
	assert.Equal(t, blue, out.NRGBAAt(0, 0))
}

func TestLoadUploads(t *testing.T) {
	rec := gputest.New()
	path := writeImage(t, "tex.png", func(f *os.File, img image.Image) error { return png.Encode(f, img) })

	tex, err := Load(rec, path)
	require.NoError(t, err)
	assert.NotZero(t, tex)

	calls := rec.Named("UploadTexture")
	require.Len(t, calls, 1)
	assert.Equal(t, image.Rect(0, 0, 2, 2), calls[0].Value)
}

func TestCacheUploadsOncePerPath(t *testing.T) {
	rec := gputest.New()
	path := writeImage(t, "tex.png", func(f *os.File, img image.Image) error { return png.Encode(f, img) })
	c := NewCache(rec)

	first, loaded, err := c.Get(path)
	require.NoError(t, err)
	assert.True(t, loaded)

	second, loaded, err := c.Get(filepath.Join(filepath.Dir(path), ".", "tex.png"))
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.Equal(t, first, second)

	assert.Len(t, rec.Named("UploadTexture"), 1)
	assert.Equal(t, 1, c.Len())

	c.Release()
	deletes := rec.Named("DeleteTexture")
	require.Len(t, deletes, 1)
	assert.Equal(t, first, deletes[0].Value)
	assert.Zero(t, c.Len())
}

func TestCacheRemembersFailures(t *testing.T) {
	c := NewCache(gputest.New())
	missing := filepath.Join(t.TempDir(), "missing.png")

	_, loaded, err := c.Get(missing)
	require.Error(t, err)
	assert.True(t, loaded)

	_, loaded, err = c.Get(missing)
	require.Error(t, err)
	assert.False(t, loaded)
	assert.Zero(t, c.Len())
}
