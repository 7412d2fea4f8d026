package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"cat-eye-locator/internal/domain/entity"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 40, G: 160, B: 40, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecode_PNG(t *testing.T) {
	data := encodePNG(t, testImage(64, 48))

	img, err := Decode(entity.NewUpload(data, "cat.png", "image/png"))
	require.NoError(t, err)
	require.Equal(t, 64, img.Bounds().Dx())
	require.Equal(t, 48, img.Bounds().Dy())
	require.Equal(t, color.RGBA{R: 40, G: 160, B: 40, A: 255}, img.RGBAAt(5, 5))
}

func TestDecode_JPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(32, 32), &jpeg.Options{Quality: 90}))

	img, err := Decode(entity.NewUpload(buf.Bytes(), "cat.jpg", ""))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())
	require.Equal(t, uint8(255), img.RGBAAt(0, 0).A)
}

func TestDecode_AlphaIsDropped(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 0, B: 0, A: 0})
	src.SetNRGBA(1, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 128})
	src.SetNRGBA(2, 0, color.NRGBA{R: 40, G: 50, B: 60, A: 255})

	img, err := Decode(entity.NewUpload(encodePNG(t, src), "cat.png", ""))
	require.NoError(t, err)
	require.Equal(t, color.RGBA{R: 255, G: 0, B: 0, A: 255}, img.RGBAAt(0, 0))
	require.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 255}, img.RGBAAt(1, 0))
	require.Equal(t, color.RGBA{R: 40, G: 50, B: 60, A: 255}, img.RGBAAt(2, 0))
	require.Equal(t, color.RGBA{A: 255}, img.RGBAAt(3, 3))
}

func TestDecode_PalettedTransparency(t *testing.T) {
	palette := color.Palette{
		color.NRGBA{R: 200, G: 100, B: 50, A: 0},
		color.NRGBA{R: 1, G: 2, B: 3, A: 255},
	}
	src := image.NewPaletted(image.Rect(0, 0, 2, 1), palette)
	src.SetColorIndex(1, 0, 1)

	img, err := Decode(entity.NewUpload(encodePNG(t, src), "cat.png", ""))
	require.NoError(t, err)
	require.Equal(t, color.RGBA{R: 200, G: 100, B: 50, A: 255}, img.RGBAAt(0, 0))
	require.Equal(t, color.RGBA{R: 1, G: 2, B: 3, A: 255}, img.RGBAAt(1, 0))
}

func TestDecode_Errors(t *testing.T) {
	var gifBuf bytes.Buffer
	require.NoError(t, gif.Encode(&gifBuf, testImage(8, 8), nil))

	tests := []struct {
		name   string
		upload *entity.Upload
		want   error
	}{
		{"nil upload", nil, ErrInvalidImage},
		{"empty data", entity.NewUpload(nil, "cat.png", ""), ErrInvalidImage},
		{"garbage", entity.NewUpload([]byte{0x00, 0x01, 0x02}, "cat.png", ""), ErrInvalidImage},
		{"undeclared format", entity.NewUpload(encodePNG(t, testImage(4, 4)), "cat.bmp", ""), ErrUnsupportedFormat},
		{"gif named png", entity.NewUpload(gifBuf.Bytes(), "cat.png", ""), ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.upload)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEncodePNG(t *testing.T) {
	data, err := EncodePNG(testImage(3, 3))
	require.NoError(t, err)

	_, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "png", format)
}
