// Package imgio contains decode/encode helpers shared by the CLI and the
// batch worker: loading sources, deriving masks and parsing background
// specifications.
package imgio

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/UnendingLoop/MaskRefiner/internal/model"
	"github.com/disintegration/imaging"

	// webp встречается среди входных файлов, stdlib его не декодирует
	_ "golang.org/x/image/webp"
)

// Open loads an image from disk after checking the extension against the
// supported set.
func Open(path string) (image.Image, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !model.InImageExtMap[ext] {
		return nil, fmt.Errorf("%q: %w", ext, model.ErrUnsupportedFormat)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", path, err)
	}
	return img, nil
}

// SavePNG writes the image as PNG - lossless, keeps the alpha channel.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := imaging.Encode(f, img, imaging.PNG); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// FitWithin caps the longest side at maxSize with Lanczos resampling;
// smaller images come back untouched.
func FitWithin(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxSize && b.Dy() <= maxSize {
		return img
	}
	return imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)
}

// AlphaFromImage extracts the alpha channel as a single-channel mask.
// Fails when the image has no alpha at all (e.g. JPEG source).
func AlphaFromImage(img image.Image) (*image.Gray, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.Pix[y*out.Stride+x] = src.Pix[y*src.Stride+x*4+3]
			}
		}
	case *image.RGBA:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.Pix[y*out.Stride+x] = src.Pix[y*src.Stride+x*4+3]
			}
		}
	default:
		return nil, model.ErrNoAlphaChannel
	}
	return out, nil
}

// MaskFromImage interprets an arbitrary image as an alpha mask: the alpha
// channel when it carries one with real transparency, otherwise luminance
// (masks are commonly stored as grayscale PNGs).
func MaskFromImage(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}

	if alpha, err := AlphaFromImage(img); err == nil && HasUsefulAlpha(alpha) {
		return alpha
	}

	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			out.Pix[y*out.Stride+x] = uint8((299*r + 587*g + 114*bl) / 1000 >> 8)
		}
	}
	return out
}

// HasUsefulAlpha - маска из альфы имеет смысл только если там есть хоть один
// не полностью непрозрачный пиксель
func HasUsefulAlpha(alpha *image.Gray) bool {
	for _, v := range alpha.Pix {
		if v != 255 {
			return true
		}
	}
	return false
}

// ParseBackground builds a Background from CLI input: a hex color like
// "#1a2b3c" (or "1a2b3c"), or a path to a background image. Empty both ways
// means transparent output and returns nil.
func ParseBackground(hexColor, imagePath string) (*model.Background, error) {
	if imagePath != "" {
		img, err := Open(imagePath)
		if err != nil {
			return nil, fmt.Errorf("background image: %w", err)
		}
		return &model.Background{Image: img}, nil
	}

	if hexColor == "" {
		return nil, nil
	}

	s := strings.TrimPrefix(hexColor, "#")
	if len(s) != 6 {
		return nil, fmt.Errorf("%q: %w", hexColor, model.ErrIncorrectBG)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", hexColor, model.ErrIncorrectBG)
	}

	c := color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}
	return &model.Background{Color: &c}, nil
}
