package vision

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var ErrUnsupportedImage = errors.New("unsupported image format")

const (
	// DefaultMaxEdge keeps drawing uploads within what vision models accept at high detail.
	DefaultMaxEdge = 2048
	// MaxPixels bounds the decoded size of any input image.
	MaxPixels = 40_000_000
)

// PreparedImage is an image ready to be attached to a provider request.
type PreparedImage struct {
	MIMEType string
	Width    int
	Height   int
	Data     []byte
}

// DataURL renders the image as a base64 data URL.
func (p PreparedImage) DataURL() string {
	return "data:" + p.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(p.Data)
}

// Prepare decodes data and, if its longest edge exceeds maxEdge, downscales it with
// Catmull-Rom resampling. JPEG input stays JPEG; everything else is re-encoded as PNG.
// Images already within bounds in a provider-accepted format pass through untouched.
func Prepare(data []byte, maxEdge int) (PreparedImage, error) {
	if maxEdge <= 0 {
		maxEdge = DefaultMaxEdge
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return PreparedImage{}, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return PreparedImage{}, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrUnsupportedImage, cfg.Width, cfg.Height, MaxPixels)
	}

	if cfg.Width <= maxEdge && cfg.Height <= maxEdge {
		switch format {
		case "jpeg":
			return PreparedImage{MIMEType: "image/jpeg", Width: cfg.Width, Height: cfg.Height, Data: data}, nil
		case "png":
			return PreparedImage{MIMEType: "image/png", Width: cfg.Width, Height: cfg.Height, Data: data}, nil
		}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return PreparedImage{}, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	scaled := downscale(img, maxEdge)
	b := scaled.Bounds()

	var buf bytes.Buffer
	mime := "image/png"
	if format == "jpeg" {
		mime = "image/jpeg"
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: 90})
	} else {
		err = png.Encode(&buf, scaled)
	}
	if err != nil {
		return PreparedImage{}, fmt.Errorf("encode image failed: %w", err)
	}
	return PreparedImage{MIMEType: mime, Width: b.Dx(), Height: b.Dy(), Data: buf.Bytes()}, nil
}

func downscale(img image.Image, maxEdge int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxEdge && h <= maxEdge {
		return img
	}

	if w >= h {
		h = h * maxEdge / w
		w = maxEdge
	} else {
		w = w * maxEdge / h
		h = maxEdge
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
