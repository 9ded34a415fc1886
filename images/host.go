package images

import (
	"context"
	"io"
	"time"
)

// Variant adalah rendisi bernama dari gambar di host eksternal.
type Variant string

const (
	Thumbnail Variant = "thumbnail"
	Small     Variant = "small"
	Medium    Variant = "medium"
	Large     Variant = "large"
	Original  Variant = "original"
)

var Variants = []Variant{Thumbnail, Small, Medium, Large, Original}

// ParseVariant mengubah nama varian; nama tidak dikenal menjadi Medium.
func ParseVariant(s string) Variant {
	for _, v := range Variants {
		if string(v) == s {
			return v
		}
	}
	return Medium
}

// UploadInput adalah satu berkas yang dikirim ke host gambar.
type UploadInput struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	Metadata    map[string]string
}

// Uploaded adalah hasil unggahan dari host gambar.
type Uploaded struct {
	ID       string            `json:"id"`
	Filename string            `json:"filename"`
	Uploaded time.Time         `json:"uploaded"`
	Variants []string          `json:"variants"`
	Meta     map[string]string `json:"meta,omitempty"`
}

// Host adalah kontrak host gambar eksternal.
type Host interface {
	Upload(ctx context.Context, in UploadInput) (Uploaded, error)
	Delete(ctx context.Context, id string) (bool, error)
	VariantURL(id string, v Variant) string
}

// VariantURLs mengembalikan URL semua varian untuk satu ID host.
func VariantURLs(h Host, id string) map[Variant]string {
	out := make(map[Variant]string, len(Variants))
	for _, v := range Variants {
		out[v] = h.VariantURL(id, v)
	}
	return out
}

func variantList(h Host, id string) []string {
	out := make([]string, 0, len(Variants))
	for _, v := range Variants {
		out = append(out, h.VariantURL(id, v))
	}
	return out
}
