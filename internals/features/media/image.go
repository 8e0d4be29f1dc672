package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"studiofit_backend/internals/constants"
)

const (
	AvatarSize    = 512
	AvatarQuality = 80
)

var (
	ErrUnsupportedImage = errors.New("unsupported image format (use jpg, png or webp)")
	ErrImageTooLarge    = errors.New("image too large")
)

// ProcessAvatar decodes jpg/png/webp, fits it inside 512x512 and re-encodes as lossy webp.
func ProcessAvatar(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r, constants.MaxAvatarBytes+1))
	if err != nil {
		return nil, err
	}
	if len(raw) > constants.MaxAvatarBytes {
		return nil, ErrImageTooLarge
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrUnsupportedImage
	}
	b := img.Bounds()
	if b.Dx() > AvatarSize || b.Dy() > AvatarSize {
		img = imaging.Fit(img, AvatarSize, AvatarSize, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Lossless: false, Quality: AvatarQuality}); err != nil {
		return nil, fmt.Errorf("webp encode: %w", err)
	}
	return buf.Bytes(), nil
}
