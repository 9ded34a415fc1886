package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Language adalah tag bahasa untuk teks produk multibahasa.
type Language string

const (
	LangZH Language = "zh-CN"
	LangEN Language = "en-US"
	LangJA Language = "ja-JP"
)

// DefaultLanguage selalu ada dan menjadi sumber field name/description produk.
const DefaultLanguage = LangZH

// Languages adalah himpunan bahasa yang didukung, dalam urutan tampilan.
var Languages = []Language{LangZH, LangEN, LangJA}

// Valid melaporkan apakah bahasa termasuk himpunan yang didukung.
func (l Language) Valid() bool {
	for _, lang := range Languages {
		if lang == l {
			return true
		}
	}
	return false
}

// ProductTranslation mendefinisikan teks produk untuk satu bahasa.
type ProductTranslation struct {
	Language    Language `json:"language" bson:"language"`
	Name        string   `json:"name" bson:"name"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
}

// ProductImage mendefinisikan satu gambar produk.
// HostID kosong berarti gambar hanya berupa pratinjau lokal.
type ProductImage struct {
	ID        string    `json:"id" bson:"id"`
	URL       string    `json:"url" bson:"url"`
	HostID    string    `json:"host_id,omitempty" bson:"host_id,omitempty"`
	IsPrimary bool      `json:"is_primary" bson:"is_primary"`
	Alt       string    `json:"alt" bson:"alt"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Product mendefinisikan struktur untuk produk.
type Product struct {
	ID             string               `json:"id,omitempty"`
	Name           string               `json:"name" validate:"required"`
	Description    string               `json:"description,omitempty"`
	Slug           string               `json:"slug,omitempty"`
	Price          decimal.Decimal      `json:"price"`
	Category       string               `json:"category,omitempty"`
	StockQuantity  int                  `json:"stock_quantity" validate:"gte=0"`
	IsActive       bool                 `json:"is_active"`
	ImageURL       string               `json:"image_url,omitempty"`
	Images         []ProductImage       `json:"images"`
	PrimaryImageID string               `json:"primary_image_id,omitempty"`
	Translations   []ProductTranslation `json:"translations" validate:"min=1"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// Translation mengembalikan terjemahan untuk bahasa tertentu.
func (p Product) Translation(lang Language) (ProductTranslation, bool) {
	for _, t := range p.Translations {
		if t.Language == lang {
			return t, true
		}
	}
	return ProductTranslation{}, false
}

// ProductRequest adalah body JSON untuk membuat atau memperbarui produk.
// Name/Description dipakai sebagai terjemahan bahasa default bila Translations kosong.
type ProductRequest struct {
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	Translations   []ProductTranslation `json:"translations"`
	Slug           string               `json:"slug"`
	Price          decimal.Decimal      `json:"price"`
	Category       string               `json:"category"`
	StockQuantity  int                  `json:"stock_quantity"`
	IsActive       *bool                `json:"is_active"`
	Images         []ProductImage       `json:"images"`
	PrimaryImageID string               `json:"primary_image_id"`
}

// Stats mendefinisikan struktur untuk statistik aplikasi.
type Stats struct {
	TotalProducts int64           `json:"total_products"`
	TotalAdmins   int64           `json:"total_admins"`
	TotalValue    decimal.Decimal `json:"total_value"`
}
