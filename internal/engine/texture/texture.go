// Package texture decodes image files into GPU textures.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Faultbox/phongview/internal/engine/gpu"
	"github.com/Faultbox/phongview/internal/logger"
)

// Decode reads an image file and returns it with rows ordered bottom to top,
// the layout glTexImage2D expects. Formats: png, jpeg, gif, bmp, tiff, webp
// and tga.
func Decode(path string) (*image.NRGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture: %w", err)
	}

	var img *image.NRGBA
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		img, err = DecodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	} else {
		src, format, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		logger.Named("texture").Debug("texture decoded",
			zap.String("path", path),
			zap.String("format", format),
			zap.Int("width", src.Bounds().Dx()),
			zap.Int("height", src.Bounds().Dy()),
		)
		img = ToNRGBA(src)
	}
	FlipVertical(img)
	return img, nil
}

// ToNRGBA converts img to a zero-origin *image.NRGBA.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// FlipVertical reverses the row order of img in place.
func FlipVertical(img *image.NRGBA) {
	h := img.Bounds().Dy()
	row := make([]byte, img.Stride)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-y)*img.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
}

// Load decodes path and uploads it as a 2D texture.
func Load(ctx gpu.Textures, path string) (uint32, error) {
	img, err := Decode(path)
	if err != nil {
		return 0, err
	}
	tex, err := ctx.UploadTexture(img)
	if err != nil {
		return 0, fmt.Errorf("uploading %s: %w", path, err)
	}
	logger.Named("texture").Info("texture loaded",
		zap.String("path", path),
		zap.Uint32("texture", tex),
	)
	return tex, nil
}
