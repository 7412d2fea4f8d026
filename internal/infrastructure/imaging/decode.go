package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"

	"cat-eye-locator/internal/domain/entity"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrInvalidImage      = errors.New("invalid image")
)

// Decode превращает загрузку в RGB-сетку пикселей.
func Decode(upload *entity.Upload) (*image.RGBA, error) {
	if upload.Empty() {
		return nil, fmt.Errorf("%w: no data", ErrInvalidImage)
	}
	if upload.Format == entity.FormatUnknown {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, upload.Filename)
	}

	img, format, err := image.Decode(bytes.NewReader(upload.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if format != string(entity.FormatJPEG) && format != string(entity.FormatPNG) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	return toRGB(img), nil
}

// toRGB копирует img в непрозрачную RGBA-сетку. Альфа отбрасывается, цвет
// берётся без премультипликации, поэтому прозрачные пиксели сохраняют свой RGB.
func toRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			srcRow := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			dstRow := dst.Pix[dst.PixOffset(0, y):]
			for i := 0; i < 4*b.Dx(); i += 4 {
				dstRow[i], dstRow[i+1], dstRow[i+2], dstRow[i+3] = srcRow[i], srcRow[i+1], srcRow[i+2], 0xff
			}
		}
		return dst
	}

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl := straightRGB(img.At(b.Min.X+x, b.Min.Y+y))
			dst.SetRGBA(x, y, color.RGBA{R: r, G: g, B: bl, A: 0xff})
		}
	}
	return dst
}

// straightRGB возвращает каналы цвета c без премультипликации.
func straightRGB(c color.Color) (uint8, uint8, uint8) {
	switch v := c.(type) {
	case color.NRGBA:
		return v.R, v.G, v.B
	case color.NRGBA64:
		return uint8(v.R >> 8), uint8(v.G >> 8), uint8(v.B >> 8)
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return n.R, n.G, n.B
}

// EncodePNG кодирует изображение для показа.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
