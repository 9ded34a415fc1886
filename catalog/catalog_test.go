package catalog

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-admin/apperr"
	"catalog-admin/models"
)

func products() []models.Product {
	return []models.Product{
		{ID: "a", Name: "Apple Phone", Description: "A smart phone", Category: "electronics"},
		{ID: "b", Name: "Laptop", Description: "Portable computer", Category: "electronics"},
		{ID: "c", Name: "Desk", Description: "Oak desk for the APPLE fans", Category: "furniture"},
		{ID: "d", Name: "Mug", Category: ""},
	}
}

func names(ps []models.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestFilterByQuery(t *testing.T) {
	all := products()[:2]
	v := Filter(all, "apple", "")
	assert.Equal(t, []string{"a"}, names(v.Items))
	assert.Equal(t, ViewResults, v.State())
}

func TestFilterMatchesDescriptionCaseInsensitively(t *testing.T) {
	v := Filter(products(), "apple", "")
	assert.Equal(t, []string{"a", "c"}, names(v.Items), "input order is preserved")
}

func TestFilterByCategory(t *testing.T) {
	v := Filter(products(), "", "electronics")
	assert.Equal(t, []string{"a", "b"}, names(v.Items))

	v = Filter(products(), "apple", "furniture")
	assert.Equal(t, []string{"c"}, names(v.Items))

	v = Filter(products(), "", "Electronics")
	assert.Empty(t, v.Items, "category match is exact")
}

func TestFilterIdentityAndSubset(t *testing.T) {
	all := products()
	assert.Equal(t, all, Filter(all, "", "").Items)

	for _, q := range []string{"", "a", "desk", "zzz", "PHONE"} {
		for _, c := range []string{"", "electronics", "furniture", "none"} {
			v := Filter(all, q, c)
			for _, p := range v.Items {
				assert.Contains(t, all, p)
			}
		}
	}
}

func TestFilterStates(t *testing.T) {
	assert.Equal(t, ViewEmpty, Filter(nil, "x", "").State())
	assert.Equal(t, ViewEmpty, Filter(nil, "", "").State())
	assert.Equal(t, ViewNoMatch, Filter(products(), "zzz", "").State())
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"electronics", "furniture"}, Categories(products()))
	assert.Equal(t, []string{}, Categories(nil))
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"  Apple Phone  ":            "apple-phone",
		"Hello,   World!!":           "hello-world",
		"--already--slugged--":       "already-slugged",
		"苹果 手机 Pro":                  "苹果-手机-pro",
		"Café & Crème":               "caf-crme",
		"a - b":                      "a-b",
		"!!!":                        "",
		"Multi\tLine\nName 2024 ":    "multi-line-name-2024",
		"苹果\u3000手机":                 "苹果-手机",
		"Apple\u00a0Phone":           "apple-phone",
		"\u3000Desk\u2003Lamp\u3000": "desk-lamp",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	for _, in := range []string{"Apple Phone", " -x- ", "苹果 手机", "A  --  B", "ÀÉÎ õ", "苹果\u3000手机"} {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once), in)
	}
}

func TestReconcileNewProduct(t *testing.T) {
	f := NewForm(nil)
	require.NoError(t, f.SetText(models.LangZH, "苹果手机", "智能手机"))
	require.NoError(t, f.SetText(models.LangEN, "Apple Phone", "Smart phone"))
	f.Price = decimal.RequireFromString("199.99")
	f.StockQuantity = 5

	p, err := Reconcile(nil, f)
	require.NoError(t, err)
	assert.Empty(t, p.ID)
	assert.Equal(t, "苹果手机", p.Name)
	assert.Equal(t, "智能手机", p.Description)
	assert.Equal(t, "苹果手机", p.Slug)
	assert.True(t, p.IsActive)
	require.Len(t, p.Translations, 2)
	assert.Equal(t, models.LangZH, p.Translations[0].Language)
	assert.Equal(t, models.LangEN, p.Translations[1].Language)
}

func TestReconcileKeepsIdentityAndUserSlug(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := &models.Product{
		ID:   "p1",
		Name: "Old",
		Slug: "custom-slug",
		Translations: []models.ProductTranslation{
			{Language: models.LangZH, Name: "Old"},
			{Language: models.LangJA, Name: "古い"},
		},
		CreatedAt: created,
	}
	f := NewForm(existing)
	require.NoError(t, f.SetText(models.LangZH, "New Name", ""))

	p, err := Reconcile(existing, f)
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, created, p.CreatedAt)
	assert.Equal(t, "New Name", p.Name)
	assert.Equal(t, "custom-slug", p.Slug, "derivation never overwrites a user slug")
	assert.Len(t, p.Translations, 2)
}

func TestDefaultLanguageCannotBeDeselected(t *testing.T) {
	f := NewForm(nil)
	require.NoError(t, f.SetText(models.LangZH, "Name", ""))
	require.NoError(t, f.SelectLanguage(models.LangEN))

	assert.False(t, f.DeselectLanguage(models.DefaultLanguage))
	assert.True(t, f.DeselectLanguage(models.LangEN))
	assert.Equal(t, []models.Language{models.DefaultLanguage}, f.Languages())

	assert.Error(t, f.SelectLanguage("xx-XX"))
}

func TestApplyTranslationsReplaceSelection(t *testing.T) {
	existing := &models.Product{
		ID: "p1",
		Translations: []models.ProductTranslation{
			{Language: models.LangZH, Name: "中文"},
			{Language: models.LangJA, Name: "日本語"},
		},
	}
	f := NewForm(existing)
	active := false
	require.NoError(t, f.Apply(models.ProductRequest{
		Translations: []models.ProductTranslation{{Language: models.LangEN, Name: "English"}},
		Price:        decimal.NewFromInt(3),
		IsActive:     &active,
	}))

	p, err := Reconcile(existing, f)
	require.NoError(t, err)
	assert.Equal(t, "中文", p.Name, "default language survives even when omitted")
	assert.Equal(t, []models.Language{models.LangZH, models.LangEN}, []models.Language{p.Translations[0].Language, p.Translations[1].Language})
	assert.False(t, p.IsActive)
}

func TestReconcileValidation(t *testing.T) {
	f := NewForm(nil)
	f.Price = decimal.NewFromInt(-1)
	f.StockQuantity = -2

	_, err := Reconcile(nil, f)
	require.Error(t, err)
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Validation, ae.Kind)
	assert.Contains(t, ae.Fields, "name")
	assert.Contains(t, ae.Fields, "price")
	assert.Contains(t, ae.Fields, "stock_quantity")
}

func TestReconcileNormalizesPrimaryImage(t *testing.T) {
	now := time.Now()
	f := NewForm(nil)
	require.NoError(t, f.SetText(models.LangZH, "Name", ""))
	f.Images = []models.ProductImage{
		{ID: "1", URL: "https://x/1.jpg", Alt: "1", CreatedAt: now, IsPrimary: true},
		{ID: "2", URL: "https://x/2.jpg", Alt: "2", CreatedAt: now, IsPrimary: true},
	}
	f.PrimaryImageID = "2"

	p, err := Reconcile(nil, f)
	require.NoError(t, err)
	assert.Equal(t, "2", p.PrimaryImageID)
	assert.Equal(t, "https://x/2.jpg", p.ImageURL)
	assert.False(t, p.Images[0].IsPrimary)
	assert.True(t, p.Images[1].IsPrimary)
}
