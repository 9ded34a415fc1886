package images

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// PreviewStore menyimpan salinan lokal berkas yang gagal diunggah ke host.
type PreviewStore interface {
	Put(ctx context.Context, r io.Reader, filename string) (string, error)
}

// LocalPreviews menulis pratinjau ke disk dan melayaninya dari URLPrefix.
type LocalPreviews struct {
	BaseDir   string
	URLPrefix string
}

func NewLocalPreviews(baseDir, urlPrefix string) *LocalPreviews {
	return &LocalPreviews{BaseDir: baseDir, URLPrefix: urlPrefix}
}

// Put tidak bergantung pada ctx: pratinjau tetap ditulis walau unggahan ke
// host gagal karena tenggat habis.
func (l *LocalPreviews) Put(_ context.Context, r io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(l.BaseDir, 0o755); err != nil {
		return "", err
	}

	key := uuid.NewString() + safeExt(filename)
	f, err := os.OpenFile(filepath.Join(l.BaseDir, key), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return strings.TrimRight(l.URLPrefix, "/") + "/" + key, nil
}

// Delete menghapus pratinjau berdasarkan URL atau kuncinya.
func (l *LocalPreviews) Delete(key string) error {
	err := os.Remove(filepath.Join(l.BaseDir, filepath.Base(key)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Owns melaporkan apakah URL menunjuk ke pratinjau lokal.
func (l *LocalPreviews) Owns(url string) bool {
	prefix := strings.TrimRight(l.URLPrefix, "/") + "/"
	return strings.HasPrefix(url, prefix)
}

func safeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".gif":
		return ext
	default:
		return ""
	}
}
