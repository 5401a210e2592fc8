package refimage

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/mchlmayer/iathumb/internal/domain"
)

func solidPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture png: %v", err)
	}
	return buf.Bytes()
}

func solidJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode fixture jpeg: %v", err)
	}
	return buf.Bytes()
}

func decodeDims(t *testing.T, data []byte) (string, int, int) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode normalized output: %v", err)
	}
	return format, cfg.Width, cfg.Height
}

func TestCropRect(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		want image.Rectangle
	}{
		{
			name: "already 16:9 is untouched",
			w:    1920, h: 1080,
			want: image.Rect(0, 0, 1920, 1080),
		},
		{
			name: "small 16:9 is untouched",
			w:    16, h: 9,
			want: image.Rect(0, 0, 16, 9),
		},
		{
			name: "wider than 16:9 keeps full height",
			w:    4000, h: 1000,
			want: image.Rect(1111, 0, 2889, 1000),
		},
		{
			name: "taller than 16:9 keeps full width",
			w:    1000, h: 1000,
			want: image.Rect(0, 218, 1000, 781),
		},
		{
			name: "portrait phone frame",
			w:    1080, h: 1920,
			want: image.Rect(0, 656, 1080, 1264),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CropRect(tc.w, tc.h)
			if got != tc.want {
				t.Fatalf("CropRect(%d, %d) = %v, want %v", tc.w, tc.h, got, tc.want)
			}
		})
	}
}

func TestCropRectCentersTheCrop(t *testing.T) {
	r := CropRect(4000, 1000)
	left := r.Min.X
	right := 4000 - r.Max.X
	if diff := left - right; diff < -1 || diff > 1 {
		t.Fatalf("horizontal margins differ by more than one pixel: left=%d right=%d", left, right)
	}

	r = CropRect(1000, 3000)
	top := r.Min.Y
	bottom := 3000 - r.Max.Y
	if diff := top - bottom; diff < -1 || diff > 1 {
		t.Fatalf("vertical margins differ by more than one pixel: top=%d bottom=%d", top, bottom)
	}
}

func TestNormalizeProducesCanonicalCanvas(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{name: "landscape wider than 16:9", w: 2500, h: 1000},
		{name: "square", w: 800, h: 800},
		{name: "portrait", w: 600, h: 1200},
		{name: "exact 16:9", w: 1920, h: 1080},
		{name: "tiny", w: 32, h: 18},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ref, err := Normalize(solidPNG(t, tc.w, tc.h), "image/png")
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			format, w, h := decodeDims(t, ref.Data)
			if w != CanvasWidth || h != CanvasHeight {
				t.Fatalf("normalized to %dx%d, want %dx%d", w, h, CanvasWidth, CanvasHeight)
			}
			if format != "png" || ref.MIMEType != "image/png" {
				t.Fatalf("format = %q mime = %q, want png", format, ref.MIMEType)
			}
		})
	}
}

func TestNormalizeKeepsJPEGSourcesAsJPEG(t *testing.T) {
	for _, mime := range []string{"image/jpeg", "image/jpg", "IMAGE/JPEG"} {
		ref, err := Normalize(solidJPEG(t, 1000, 700), mime)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", mime, err)
		}
		format, _, _ := decodeDims(t, ref.Data)
		if format != "jpeg" || ref.MIMEType != "image/jpeg" {
			t.Fatalf("mime %q: format = %q out mime = %q, want jpeg", mime, format, ref.MIMEType)
		}
	}
}

func TestNormalizeIsIdempotentOnDimensions(t *testing.T) {
	first, err := Normalize(solidPNG(t, 3000, 1000), "image/png")
	if err != nil {
		t.Fatalf("first Normalize: %v", err)
	}
	second, err := Normalize(first.Data, first.MIMEType)
	if err != nil {
		t.Fatalf("second Normalize: %v", err)
	}
	_, w1, h1 := decodeDims(t, first.Data)
	_, w2, h2 := decodeDims(t, second.Data)
	if w1 != w2 || h1 != h2 {
		t.Fatalf("dimensions changed on renormalize: %dx%d -> %dx%d", w1, h1, w2, h2)
	}
	if r := CropRect(w2, h2); r != image.Rect(0, 0, w2, h2) {
		t.Fatalf("canonical output would be cropped again: %v", r)
	}
}

func TestNormalizeSniffsMissingMIMEType(t *testing.T) {
	ref, err := Normalize(solidJPEG(t, 640, 480), "")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if ref.MIMEType != "image/jpeg" {
		t.Fatalf("MIMEType = %q, want image/jpeg", ref.MIMEType)
	}
}

func TestNormalizeRejectsCorruptPayload(t *testing.T) {
	_, err := Normalize([]byte("definitely not an image"), "image/png")
	if !errors.Is(err, domain.ErrDecode) {
		t.Fatalf("err = %v, want ErrDecode", err)
	}
}
