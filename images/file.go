package images

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"catalog-admin/apperr"
)

// MaxFileSize adalah batas ukuran satu gambar (10MB).
const MaxFileSize = 10 * 1024 * 1024

// AllowedTypes adalah tipe MIME gambar yang diterima.
var AllowedTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp", "image/gif"}

// File adalah satu berkas kandidat unggahan.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// FromMultipart membungkus berkas multipart dari request HTTP.
func FromMultipart(fh *multipart.FileHeader) File {
	return File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// FromBytes membuat File dari isi di memori.
func FromBytes(name, contentType string, data []byte) File {
	return File{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// Alt menghasilkan teks alt dari nama berkas tanpa ekstensi.
func (f File) Alt() string {
	return strings.TrimSuffix(f.Name, filepath.Ext(f.Name))
}

// Rules adalah aturan validasi berkas gambar.
type Rules struct {
	MaxBytes int64
	Allowed  map[string]bool
}

func DefaultRules() Rules {
	return NewRules(MaxFileSize)
}

func NewRules(maxBytes int64) Rules {
	if maxBytes <= 0 {
		maxBytes = MaxFileSize
	}
	allowed := make(map[string]bool, len(AllowedTypes))
	for _, t := range AllowedTypes {
		allowed[t] = true
	}
	return Rules{MaxBytes: maxBytes, Allowed: allowed}
}

// Check memvalidasi tipe dan ukuran berkas.
func (r Rules) Check(f File) error {
	if !r.Allowed[DetectType(f)] {
		return apperr.ValidationErr("Only JPEG, PNG, WebP and GIF images are supported",
			map[string]string{"file": f.Name})
	}
	if f.Size > r.MaxBytes {
		return apperr.ValidationErr(
			fmt.Sprintf("Image must not exceed %dMB", r.MaxBytes/(1024*1024)),
			map[string]string{"file": f.Name})
	}
	return nil
}

// DetectType mengembalikan tipe MIME yang dideklarasikan, atau hasil deteksi isi
// bila deklarasi kosong atau generik.
func DetectType(f File) string {
	declared := strings.ToLower(strings.TrimSpace(f.ContentType))
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if f.Open == nil {
		return declared
	}
	rc, err := f.Open()
	if err != nil {
		return declared
	}
	defer rc.Close()
	mt, err := mimetype.DetectReader(rc)
	if err != nil {
		return declared
	}
	s := mt.String()
	if i := strings.Index(s, ";"); i >= 0 {
		s = s[:i]
	}
	return s
}
