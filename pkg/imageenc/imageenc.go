// Package imageenc converts image files to and from base64 data URLs, the
// format the captions proxy accepts.
package imageenc

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// DataURL is a base64-encoded image with its MIME type prefix, e.g.
// "data:image/png;base64,iVBOR...".
type DataURL = string

var (
	// ErrUnsupportedType indicates the file's detected content type is not an image.
	ErrUnsupportedType = errors.New("unsupported file type: not an image")

	// ErrInvalidDataURL indicates the string is not a base64 data URL.
	ErrInvalidDataURL = errors.New("invalid data URL")
)

// EncodeFile reads the file at path and encodes it as an image data URL.
// The MIME type is sniffed from the file contents, not the extension.
// Non-image files return ErrUnsupportedType.
func EncodeFile(path string) (DataURL, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image file: %w", err)
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w (detected %s)", ErrUnsupportedType, mime)
	}

	return Encode(mime, data), nil
}

// Encode builds a data URL from a MIME type and raw bytes. Identical inputs
// always produce identical output.
func Encode(mime string, data []byte) DataURL {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Split separates a data URL into its MIME type and base64 payload.
// This is the proxy-side prefix strip: the upstream API wants only the
// payload, never the scheme.
func Split(u DataURL) (mime string, payload string, err error) {
	rest, ok := strings.CutPrefix(u, "data:")
	if !ok {
		return "", "", ErrInvalidDataURL
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", "", ErrInvalidDataURL
	}

	mime = strings.TrimSuffix(meta, ";base64")
	if mime == meta {
		// Only base64 data URLs are accepted; percent-encoded ones are not images.
		return "", "", ErrInvalidDataURL
	}

	return mime, payload, nil
}

// Decode returns the raw bytes of a data URL's payload.
func Decode(u DataURL) ([]byte, error) {
	_, payload, err := Split(u)
	if err != nil {
		return nil, err
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDataURL, err)
	}

	return data, nil
}
