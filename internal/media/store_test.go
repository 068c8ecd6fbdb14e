package media_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wanderlog/internal/media"
	"wanderlog/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSaveImageWritesFileAndThumbnail(t *testing.T) {
	dir := t.TempDir()
	store, err := media.NewLocalStore(dir, "/uploads/", zap.NewNop())
	require.NoError(t, err)

	data := pngBytes(t, 800, 600)
	stored, err := store.Save(bytes.NewReader(data), "holiday.PNG", model.MediaImage)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stored.URL, "/uploads/"))
	assert.True(t, strings.HasSuffix(stored.URL, ".png"))
	require.NotEmpty(t, stored.ThumbnailURL)
	assert.True(t, strings.HasSuffix(stored.ThumbnailURL, "_thumb.jpg"))

	orig, err := os.ReadFile(filepath.Join(dir, filepath.Base(stored.URL)))
	require.NoError(t, err)
	assert.Equal(t, data, orig) // 原图原样落盘

	thumb, err := os.Stat(filepath.Join(dir, filepath.Base(stored.ThumbnailURL)))
	require.NoError(t, err)
	assert.Greater(t, thumb.Size(), int64(0))
}

func TestSaveVideoSkipsThumbnail(t *testing.T) {
	store, err := media.NewLocalStore(t.TempDir(), "/uploads", zap.NewNop())
	require.NoError(t, err)

	stored, err := store.Save(strings.NewReader("not really a video"), "clip.mp4", model.MediaVideo)
	require.NoError(t, err)
	assert.Empty(t, stored.ThumbnailURL)
	assert.True(t, strings.HasSuffix(stored.URL, ".mp4"))
}

func TestSaveUndecodableImageKeepsOriginal(t *testing.T) {
	store, err := media.NewLocalStore(t.TempDir(), "/uploads", zap.NewNop())
	require.NoError(t, err)

	stored, err := store.Save(strings.NewReader("garbage bytes"), "broken.jpg", model.MediaImage)
	require.NoError(t, err)
	assert.Empty(t, stored.ThumbnailURL)
	assert.NotEmpty(t, stored.URL)
}

func TestSaveRejectsUnknownKind(t *testing.T) {
	store, err := media.NewLocalStore(t.TempDir(), "/uploads", zap.NewNop())
	require.NoError(t, err)

	_, err = store.Save(strings.NewReader("x"), "a.bin", model.MediaKind("audio"))
	assert.Error(t, err)
}

func TestSaveStripsSuspiciousExtension(t *testing.T) {
	store, err := media.NewLocalStore(t.TempDir(), "/uploads", zap.NewNop())
	require.NoError(t, err)

	stored, err := store.Save(strings.NewReader("x"), "weird.name.with/slash?.x%", model.MediaVideo)
	require.NoError(t, err)
	base := filepath.Base(stored.URL)
	assert.NotContains(t, base, "%")
	assert.NotContains(t, base, "?")
}
