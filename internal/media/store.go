// Package media implements the local-filesystem media store. Files are
// written under a configured directory with uuid names; the returned URL is
// stored verbatim on the note media row and never re-inspected afterwards.
package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"wanderlog/model"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"go.uber.org/zap"
)

const thumbnailMaxDim = 512

// Stored describes one persisted upload.
type Stored struct {
	URL          string          `json:"url"`
	ThumbnailURL string          `json:"thumbnail_url,omitempty"`
	Kind         model.MediaKind `json:"kind"`
}

// LocalStore writes uploads to a local directory and serves them back under
// a fixed URL prefix.
type LocalStore struct {
	dir     string
	baseURL string
	log     *zap.Logger
}

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(dir, baseURL string, log *zap.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), log: log}, nil
}

// Save persists one upload and, for images, a bounded thumbnail alongside it.
// The original bytes are stored untouched regardless of whether thumbnail
// generation succeeds.
func (s *LocalStore) Save(r io.Reader, originalName string, kind model.MediaKind) (*Stored, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown media kind %q", kind)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	name := uuid.New().String() + sanitizeExt(originalName)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}

	stored := &Stored{
		URL:  s.baseURL + "/" + name,
		Kind: kind,
	}

	if kind == model.MediaImage {
		if thumbName, err := s.writeThumbnail(name, data); err != nil {
			// 缩略图失败不阻塞上传，原图已落盘
			s.log.Warn("thumbnail generation failed",
				zap.String("file", name), zap.Error(err))
		} else {
			stored.ThumbnailURL = s.baseURL + "/" + thumbName
		}
	}

	s.log.Info("media stored",
		zap.String("file", name), zap.String("kind", string(kind)), zap.Int("bytes", len(data)))
	return stored, nil
}

func (s *LocalStore) writeThumbnail(name string, data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	thumb := resize.Thumbnail(thumbnailMaxDim, thumbnailMaxDim, img, resize.Lanczos3)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, thumb, &jpeg.Options{Quality: 85}); err != nil {
		return "", err
	}

	thumbName := strings.TrimSuffix(name, path.Ext(name)) + "_thumb.jpg"
	if err := os.WriteFile(filepath.Join(s.dir, thumbName), buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return thumbName, nil
}

// sanitizeExt keeps a short, lowercase extension and drops anything odd.
func sanitizeExt(name string) string {
	ext := strings.ToLower(path.Ext(path.Base(name)))
	if len(ext) < 2 || len(ext) > 6 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
