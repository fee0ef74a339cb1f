package media

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ImagePrefix is the key prefix recipe images are stored under.
const ImagePrefix = "recipes/images/"

// ErrInvalidImage is returned for payloads that are not base64 data URIs of an image.
var ErrInvalidImage = errors.New("upload a valid image")

// DecodeDataURI decodes "data:<type>;base64,<payload>".
func DecodeDataURI(uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, ErrInvalidImage
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, ErrInvalidImage
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil || len(data) == 0 {
		return nil, ErrInvalidImage
	}
	return data, nil
}

// SaveImage decodes a data URI, checks the bytes really are an image and
// stores them under a random name with the detected extension.
func SaveImage(ctx context.Context, store Store, uri string) (string, error) {
	data, err := DecodeDataURI(uri)
	if err != nil {
		return "", err
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", ErrInvalidImage
	}

	key := ImagePrefix + uuid.NewString() + mt.Extension()
	return store.Save(ctx, key, data, mt.String())
}
