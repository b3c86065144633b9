package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodeJPEG(w, h int) []byte {
	var buf bytes.Buffer
	jpeg.Encode(&buf, solidImage(w, h, color.RGBA{200, 30, 30, 255}), &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func encodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestNormalizeJPEG(t *testing.T) {
	out, err := Normalize(bytes.NewReader(encodeJPEG(120, 80)))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if w, h := decodeSize(t, out); w != 120 || h != 80 {
		t.Errorf("small image should keep its size, got %dx%d", w, h)
	}
}

func TestNormalizePNGFlattensTransparency(t *testing.T) {
	out, err := Normalize(bytes.NewReader(encodePNG(solidImage(20, 20, color.RGBA{}))))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	img, _ := jpeg.Decode(bytes.NewReader(out))
	r, g, b, _ := img.At(10, 10).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("expected transparent pixel to become white, got %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestNormalizeDownscales(t *testing.T) {
	out, err := Normalize(bytes.NewReader(encodeJPEG(2048, 1024)))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if w, h := decodeSize(t, out); w != MaxDimension || h != MaxDimension/2 {
		t.Errorf("expected %dx%d, got %dx%d", MaxDimension, MaxDimension/2, w, h)
	}
}

func TestNormalizeRejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"text", []byte("not an image"), ErrUnsupported},
		{"gif", []byte("GIF89a\x01\x00\x01\x00"), ErrUnsupported},
		{"truncated png", []byte("\x89PNG\r\n\x1a\n"), ErrUnsupported},
		{"too large", bytes.Repeat([]byte{0xff}, MaxUploadSize+1), ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Normalize(bytes.NewReader(tt.data)); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		w, h, wantW, wantH int
	}{
		{100, 100, 100, 100},
		{2048, 2048, 1024, 1024},
		{3000, 1500, 1024, 512},
		{1500, 3000, 512, 1024},
		{5000, 2, 1024, 1},
	}

	for _, tt := range tests {
		w, h := fit(tt.w, tt.h, MaxDimension)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("fit(%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
		}
	}
}
