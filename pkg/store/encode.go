package store

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"strings"

	"github.com/gen2brain/webp"

	"comicgen/pkg/inference"
)

type ImageFormat string

const (
	FormatPNG  ImageFormat = "png"
	FormatWebP ImageFormat = "webp"
)

// ParseImageFormat defaults to PNG for anything it does not recognise.
func ParseImageFormat(s string) ImageFormat {
	if strings.EqualFold(strings.TrimSpace(s), string(FormatWebP)) {
		return FormatWebP
	}
	return FormatPNG
}

func (f ImageFormat) ContentType() string {
	return "image/" + string(f)
}

// encodeImage converts a generated image to the storage format. PNG input is
// passed through untouched when PNG is wanted.
func encodeImage(img *inference.Image, format ImageFormat) ([]byte, error) {
	if img == nil || len(img.Data) == 0 {
		return nil, fmt.Errorf("empty image")
	}
	if format == FormatPNG && (img.MIMEType == "" || img.MIMEType == "image/png") {
		return img.Data, nil
	}

	decoded, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	buf := new(bytes.Buffer)
	switch format {
	case FormatWebP:
		err = webp.Encode(buf, decoded, webp.Options{Lossless: false, Quality: 90})
	default:
		err = png.Encode(buf, decoded)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
