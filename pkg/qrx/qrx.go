// Package qrx renders QR codes as PNG data URLs.
package qrx

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// DefaultSize is the edge length, in pixels, of rendered codes.
const DefaultSize = 300

const dataURLPrefix = "data:image/png;base64,"

var ErrEmptyContent = errors.New("qrx: content is empty")

// Encoder renders content at a fixed size with error correction level M.
type Encoder struct {
	Size int
}

func NewEncoder(size int) *Encoder {
	if size <= 0 {
		size = DefaultSize
	}
	return &Encoder{Size: size}
}

// Encode returns the barcode for content scaled to the encoder size.
func (e *Encoder) Encode(content string) (barcode.Barcode, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("qrx: encode: %w", err)
	}
	scaled, err := barcode.Scale(code, e.Size, e.Size)
	if err != nil {
		return nil, fmt.Errorf("qrx: scale to %d: %w", e.Size, err)
	}
	return scaled, nil
}

// DataURL renders content as a base64 PNG data URL.
func (e *Encoder) DataURL(content string) (string, error) {
	code, err := e.Encode(content)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return "", fmt.Errorf("qrx: png: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDataURL returns the PNG bytes carried by a data URL from DataURL.
func DecodeDataURL(s string) ([]byte, error) {
	if len(s) <= len(dataURLPrefix) || s[:len(dataURLPrefix)] != dataURLPrefix {
		return nil, errors.New("qrx: not a png data url")
	}
	return base64.StdEncoding.DecodeString(s[len(dataURLPrefix):])
}
