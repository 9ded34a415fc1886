// Package catalog berisi logika katalog produk: filter tampilan, slug,
// dan rekonsiliasi formulir produk.
package catalog

import (
	"strings"

	"golang.org/x/text/cases"

	"catalog-admin/models"
)

// ViewState membedakan "belum ada produk" dari "tidak ada yang cocok".
type ViewState string

const (
	ViewEmpty   ViewState = "empty"
	ViewNoMatch ViewState = "no_match"
	ViewResults ViewState = "results"
)

// View adalah subset produk yang terlihat setelah filter.
type View struct {
	Items []models.Product `json:"items"`
	Total int              `json:"total"`
}

func (v View) State() ViewState {
	switch {
	case v.Total == 0:
		return ViewEmpty
	case len(v.Items) == 0:
		return ViewNoMatch
	default:
		return ViewResults
	}
}

// Filter mengembalikan produk yang cocok dengan query (substring nama atau
// deskripsi, tanpa membedakan huruf) dan kategori (sama persis).
// Urutan masukan dipertahankan.
func Filter(products []models.Product, query, category string) View {
	fold := cases.Fold()
	q := fold.String(query)

	items := make([]models.Product, 0, len(products))
	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		if q != "" &&
			!strings.Contains(fold.String(p.Name), q) &&
			!strings.Contains(fold.String(p.Description), q) {
			continue
		}
		items = append(items, p)
	}
	return View{Items: items, Total: len(products)}
}

// Categories mengembalikan kategori unik yang tidak kosong, urut kemunculan pertama.
func Categories(products []models.Product) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, p := range products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}
