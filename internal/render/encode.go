package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"

	"github.com/rileyhilliard/llamabar/internal/errors"
)

// PNG encodes img.
func PNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrRender, "Failed to encode image", "")
	}
	return buf.Bytes(), nil
}

// EncodePNG returns img as a base64 PNG for SwiftBar's image= parameter.
func EncodePNG(img image.Image) (string, error) {
	data, err := PNG(img)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
