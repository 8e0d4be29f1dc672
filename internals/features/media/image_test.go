package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessAvatarFitsAndEncodesWebP(t *testing.T) {
	out, err := ProcessAvatar(bytes.NewReader(pngOf(t, 1024, 600)))
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Width)
	assert.Equal(t, 300, cfg.Height)
}

func TestProcessAvatarKeepsSmallImages(t *testing.T) {
	out, err := ProcessAvatar(bytes.NewReader(pngOf(t, 64, 48)))
	require.NoError(t, err)
	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
}

func TestProcessAvatarRejectsNonImages(t *testing.T) {
	_, err := ProcessAvatar(bytes.NewReader([]byte("definitely not an image")))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestDisabledStore(t *testing.T) {
	_, err := disabledStore{}.Put(context.Background(), "k", "image/webp", bytes.NewReader(nil), 0)
	assert.ErrorIs(t, err, ErrStorageDisabled)
}

func TestAvatarKey(t *testing.T) {
	studio, trainer := uuid.New(), uuid.New()
	key := AvatarKey(studio, trainer, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, key, "studios/"+studio.String()+"/trainers/"+trainer.String()+"/20260304-")
	assert.Contains(t, key, ".webp")
}
