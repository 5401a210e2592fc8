// Package refimage normalizes user-supplied images into the canonical 16:9
// reference frame the generation pipeline expects.
package refimage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"math"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/mchlmayer/iathumb/internal/domain"
)

// Canonical canvas every reference frame is normalized to.
const (
	CanvasWidth  = 1280
	CanvasHeight = 720
)

const (
	aspectW = 16
	aspectH = 9

	jpegQuality = 95
)

// CropRect returns the largest centered sub-rectangle of a w×h frame whose
// aspect ratio is exactly 16:9. The comparison is done with integer cross
// multiplication so frames like 1920×1080 are recognized as already 16:9
// without floating point noise. The trimmed extent is rounded to the nearest
// pixel.
func CropRect(w, h int) image.Rectangle {
	switch {
	case w*aspectH > h*aspectW:
		// Wider than 16:9, trim the sides.
		cw := int(math.Round(float64(h) * aspectW / aspectH))
		x := (w - cw) / 2
		return image.Rect(x, 0, x+cw, h)
	case w*aspectH < h*aspectW:
		// Taller than 16:9, trim top and bottom.
		ch := int(math.Round(float64(w) * aspectH / aspectW))
		y := (h - ch) / 2
		return image.Rect(0, y, w, y+ch)
	default:
		return image.Rect(0, 0, w, h)
	}
}

// Normalize decodes an uploaded image, center-crops it to 16:9 and scales it
// onto the 1280×720 canvas. JPEG uploads stay JPEG so photographic sources keep
// a compact payload; everything else is re-encoded as PNG. When mimeType is
// empty the payload is sniffed.
func Normalize(data []byte, mimeType string) (domain.ReferenceImage, error) {
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return domain.ReferenceImage{}, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	bounds := src.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return domain.ReferenceImage{}, fmt.Errorf("%w: image has no pixels", domain.ErrDecode)
	}

	cropped := imaging.Crop(src, CropRect(bounds.Dx(), bounds.Dy()))
	canvas := imaging.Resize(cropped, CanvasWidth, CanvasHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if isJPEG(mimeType) {
		if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return domain.ReferenceImage{}, fmt.Errorf("%w: encoding jpeg: %v", domain.ErrDecode, err)
		}
		return domain.ReferenceImage{Data: buf.Bytes(), MIMEType: "image/jpeg"}, nil
	}
	if err := png.Encode(&buf, canvas); err != nil {
		return domain.ReferenceImage{}, fmt.Errorf("%w: encoding png: %v", domain.ErrDecode, err)
	}
	return domain.ReferenceImage{Data: buf.Bytes(), MIMEType: "image/png"}, nil
}

func isJPEG(mimeType string) bool {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "image/jpeg", "image/jpg":
		return true
	default:
		return false
	}
}
