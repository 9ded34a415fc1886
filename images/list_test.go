package images

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-admin/apperr"
	"catalog-admin/models"
)

func sampleImages() []models.ProductImage {
	return []models.ProductImage{
		{ID: "1", URL: "https://example.com/image1.jpg", HostID: "cf-id-1", Alt: "one", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "2", URL: "https://example.com/image2.jpg", HostID: "cf-id-2", IsPrimary: true, Alt: "two", CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{ID: "3", URL: "https://example.com/image3.jpg", Alt: "three", CreatedAt: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
	}
}

func TestPrimary(t *testing.T) {
	imgs := sampleImages()

	got, ok := Primary(imgs, "1")
	require.True(t, ok)
	assert.Equal(t, "1", got.ID)

	got, _ = Primary(imgs, "")
	assert.Equal(t, "2", got.ID, "falls back to the flagged image")

	imgs[1].IsPrimary = false
	got, _ = Primary(imgs, "")
	assert.Equal(t, "1", got.ID, "falls back to the first image")

	_, ok = Primary(nil, "1")
	assert.False(t, ok)
}

func TestPrimaryIgnoresUnknownExplicitID(t *testing.T) {
	imgs := sampleImages()
	withMissing, _ := Primary(imgs, "missing")
	withoutID, _ := Primary(imgs, "")
	assert.Equal(t, withoutID, withMissing)
}

func TestURLs(t *testing.T) {
	imgs := sampleImages()
	h := &fakeHost{}

	assert.Equal(t, "https://images.test/hash/cf-id-2/medium", PrimaryURL(h, imgs, "", Medium))
	assert.Equal(t, "https://example.com/image3.jpg", PrimaryURL(h, imgs, "3", Medium))
	assert.Equal(t, "", PrimaryURL(h, nil, "", Medium))
	assert.Equal(t, "https://images.test/hash/cf-id-1/thumbnail", ThumbnailURL(h, imgs[0]))

	assert.Equal(t, []string{
		"https://images.test/hash/cf-id-1/large",
		"https://images.test/hash/cf-id-2/large",
		"https://example.com/image3.jpg",
	}, AllURLs(h, imgs, Large))
}

func TestSetPrimary(t *testing.T) {
	imgs := sampleImages()

	out, err := SetPrimary(imgs, "3")
	require.NoError(t, err)
	for _, img := range out {
		assert.Equal(t, img.ID == "3", img.IsPrimary, img.ID)
	}
	assert.True(t, imgs[1].IsPrimary, "input is not mutated")

	out, err = SetPrimary(imgs, "nope")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Validation))
	assert.Equal(t, imgs, out)
}

func TestRemovePrimaryPromotesFirst(t *testing.T) {
	imgs := []models.ProductImage{{ID: "1", IsPrimary: true}, {ID: "2"}}

	out, primary := Remove(imgs, "1", "1")
	assert.Equal(t, []models.ProductImage{{ID: "2", IsPrimary: true}}, out)
	assert.Equal(t, "2", primary)

	out, primary = Remove(out, "2", primary)
	assert.Empty(t, out)
	assert.Equal(t, "", primary)
}

func TestRemovePrimaryByFlagOnly(t *testing.T) {
	imgs := sampleImages()

	out, primary := Remove(imgs, "2", "")
	require.Len(t, out, 2)
	assert.Equal(t, "1", primary)
	assert.True(t, out[0].IsPrimary)
	assert.False(t, out[1].IsPrimary)
}

func TestRemoveNonPrimaryKeepsPrimary(t *testing.T) {
	imgs := sampleImages()

	out, primary := Remove(imgs, "3", "2")
	assert.Len(t, out, 2)
	assert.Equal(t, "2", primary)
	assert.True(t, out[1].IsPrimary)
}

func TestAddAndReorder(t *testing.T) {
	imgs := sampleImages()
	all := Add(imgs[:1], imgs[1:])
	assert.Len(t, all, 3)

	out, err := Reorder(all, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3", "1"}, ids(out))

	out, err = Reorder(all, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "1", "2"}, ids(out))

	_, err = Reorder(all, 0, 3)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.Empty(t, Validate(sampleImages()))

	errs := Validate([]models.ProductImage{{}})
	assert.Equal(t, []string{
		"image 1 is missing an id",
		"image 1 is missing a url or host id",
		"image 1 is missing alt text",
		"image 1 is missing a creation time",
	}, errs)
}

func TestGenerateAltAndIsValidURL(t *testing.T) {
	assert.Equal(t, "Phone - main image", GenerateAlt("Phone", 0, true))
	assert.Equal(t, "Phone - image 3", GenerateAlt("Phone", 2, false))

	assert.True(t, IsValidURL("https://example.com/a.jpg"))
	assert.True(t, IsValidURL("http://example.com"))
	assert.False(t, IsValidURL("ftp://example.com/a.jpg"))
	assert.False(t, IsValidURL("not a url"))
}

func ids(imgs []models.ProductImage) []string {
	out := make([]string, len(imgs))
	for i, img := range imgs {
		out[i] = img.ID
	}
	return out
}
