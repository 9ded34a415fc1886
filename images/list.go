// Package images mengelola daftar gambar produk, host gambar eksternal,
// dan unggahan bertahap.
package images

import (
	"fmt"
	"net/url"

	"catalog-admin/apperr"
	"catalog-admin/models"
)

// Primary mengembalikan gambar utama: gambar dengan explicitID bila ada,
// lalu gambar yang ditandai utama, lalu gambar pertama.
func Primary(images []models.ProductImage, explicitID string) (models.ProductImage, bool) {
	if len(images) == 0 {
		return models.ProductImage{}, false
	}
	if explicitID != "" {
		for _, img := range images {
			if img.ID == explicitID {
				return img, true
			}
		}
	}
	for _, img := range images {
		if img.IsPrimary {
			return img, true
		}
	}
	return images[0], true
}

// URL mengembalikan URL tampilan gambar untuk varian tertentu.
// Gambar tanpa HostID (pratinjau lokal) selalu memakai URL aslinya.
func URL(host Host, img models.ProductImage, v Variant) string {
	if img.HostID != "" && host != nil {
		return host.VariantURL(img.HostID, v)
	}
	return img.URL
}

func PrimaryURL(host Host, images []models.ProductImage, explicitID string, v Variant) string {
	img, ok := Primary(images, explicitID)
	if !ok {
		return ""
	}
	return URL(host, img, v)
}

func ThumbnailURL(host Host, img models.ProductImage) string {
	return URL(host, img, Thumbnail)
}

// AllURLs mengembalikan URL semua gambar, melewati yang kosong.
func AllURLs(host Host, images []models.ProductImage, v Variant) []string {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		if u := URL(host, img, v); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// SetPrimary mengembalikan daftar baru dengan tepat satu gambar bertanda utama.
// ID yang tidak ada di daftar ditolak dan daftar tidak berubah.
func SetPrimary(images []models.ProductImage, id string) ([]models.ProductImage, error) {
	if !contains(images, id) {
		return images, apperr.ValidationErr("Image not found in product", map[string]string{"image_id": id})
	}
	return markPrimary(images, id), nil
}

func Add(existing, added []models.ProductImage) []models.ProductImage {
	out := make([]models.ProductImage, 0, len(existing)+len(added))
	out = append(out, existing...)
	return append(out, added...)
}

// Remove membuang gambar id. Jika gambar itu utama, gambar pertama yang tersisa
// menjadi utama. Mengembalikan daftar baru dan ID gambar utama yang baru.
func Remove(images []models.ProductImage, id, primaryID string) ([]models.ProductImage, string) {
	wasPrimary := id == primaryID
	out := make([]models.ProductImage, 0, len(images))
	for _, img := range images {
		if img.ID == id {
			if img.IsPrimary {
				wasPrimary = true
			}
			continue
		}
		out = append(out, img)
	}
	if !wasPrimary {
		return out, primaryID
	}
	if len(out) == 0 {
		return out, ""
	}
	return markPrimary(out, out[0].ID), out[0].ID
}

// Reorder memindahkan gambar dari indeks from ke indeks to.
func Reorder(images []models.ProductImage, from, to int) ([]models.ProductImage, error) {
	if from < 0 || from >= len(images) || to < 0 || to >= len(images) {
		return images, apperr.ValidationErr("Image position out of range", nil)
	}
	out := make([]models.ProductImage, 0, len(images))
	out = append(out, images[:from]...)
	out = append(out, images[from+1:]...)
	moved := images[from]
	out = append(out[:to], append([]models.ProductImage{moved}, out[to:]...)...)
	return out, nil
}

// Validate memeriksa kelengkapan setiap entri gambar.
func Validate(images []models.ProductImage) []string {
	var errs []string
	for i, img := range images {
		n := i + 1
		if img.ID == "" {
			errs = append(errs, fmt.Sprintf("image %d is missing an id", n))
		}
		if img.URL == "" && img.HostID == "" {
			errs = append(errs, fmt.Sprintf("image %d is missing a url or host id", n))
		}
		if img.Alt == "" {
			errs = append(errs, fmt.Sprintf("image %d is missing alt text", n))
		}
		if img.CreatedAt.IsZero() {
			errs = append(errs, fmt.Sprintf("image %d is missing a creation time", n))
		}
	}
	return errs
}

func GenerateAlt(productName string, index int, isMain bool) string {
	if isMain {
		return productName + " - main image"
	}
	return fmt.Sprintf("%s - image %d", productName, index+1)
}

func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func contains(images []models.ProductImage, id string) bool {
	for _, img := range images {
		if img.ID == id {
			return true
		}
	}
	return false
}

func markPrimary(images []models.ProductImage, id string) []models.ProductImage {
	out := make([]models.ProductImage, len(images))
	for i, img := range images {
		img.IsPrimary = img.ID == id
		out[i] = img
	}
	return out
}
