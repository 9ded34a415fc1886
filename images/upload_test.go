package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-admin/apperr"
	"catalog-admin/models"
)

type fakeHost struct {
	fail    map[string]bool
	uploads []string
	deleted []string
}

func (h *fakeHost) Upload(_ context.Context, in UploadInput) (Uploaded, error) {
	if _, err := io.ReadAll(in.Body); err != nil {
		return Uploaded{}, err
	}
	if h.fail[in.Filename] {
		return Uploaded{}, errors.New("host unavailable")
	}
	id := "cf-" + in.Filename
	h.uploads = append(h.uploads, in.Filename)
	return Uploaded{ID: id, Filename: in.Filename, Uploaded: time.Now(), Variants: variantList(h, id)}, nil
}

func (h *fakeHost) Delete(_ context.Context, id string) (bool, error) {
	h.deleted = append(h.deleted, id)
	return true, nil
}

func (h *fakeHost) VariantURL(id string, v Variant) string {
	return "https://images.test/hash/" + id + "/" + string(v)
}

func newTestOrchestrator(t *testing.T, host Host) *Orchestrator {
	t.Helper()
	o := NewOrchestrator(host, NewLocalPreviews(t.TempDir(), "/static/uploads"), DefaultRules(), nil)
	n := 0
	o.newID = func() string {
		n++
		return fmt.Sprintf("img-%d", n)
	}
	o.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	return o
}

func jpeg(name string) File {
	return FromBytes(name, "image/jpeg", []byte("fake-jpeg-"+name))
}

func TestUploadSkipsInvalidFilesWithoutAborting(t *testing.T) {
	host := &fakeHost{}
	o := newTestOrchestrator(t, host)

	files := []File{
		jpeg("a.jpg"),
		FromBytes("notes.txt", "text/plain", []byte("hello")),
		jpeg("c.jpg"),
	}
	res, err := o.Upload(context.Background(), Batch{Files: files, MaxImages: 10})
	require.NoError(t, err)

	assert.Len(t, res.Images, 2)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, "notes.txt", res.Rejected[0].File)
	assert.Equal(t, []string{"a.jpg", "c.jpg"}, host.uploads)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	o := newTestOrchestrator(t, &fakeHost{})
	big := File{Name: "huge.png", ContentType: "image/png", Size: MaxFileSize + 1, Open: func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("x")), nil
	}}

	res, err := o.Upload(context.Background(), Batch{Files: []File{big}, MaxImages: 10})
	require.NoError(t, err)
	assert.Empty(t, res.Images)
	require.Len(t, res.Rejected, 1)
	assert.Contains(t, res.Rejected[0].Error, "10MB")
}

func TestUploadLimitExceededRejectsWholeBatch(t *testing.T) {
	host := &fakeHost{}
	o := newTestOrchestrator(t, host)
	existing := []models.ProductImage{{ID: "x1"}, {ID: "x2"}}

	_, err := o.Upload(context.Background(), Batch{
		Files:     []File{jpeg("a.jpg"), jpeg("b.jpg")},
		Existing:  existing,
		MaxImages: 3,
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.LimitExceeded))
	assert.Empty(t, host.uploads, "no upload is attempted")
}

func TestUploadFirstImageBecomesPrimary(t *testing.T) {
	o := newTestOrchestrator(t, &fakeHost{})

	res, err := o.Upload(context.Background(), Batch{Files: []File{jpeg("a.jpg")}, MaxImages: 10})
	require.NoError(t, err)
	require.Len(t, res.Images, 1)
	assert.True(t, res.Images[0].IsPrimary)
	assert.Equal(t, res.Images[0].ID, res.PrimaryImageID)
	assert.Equal(t, "cf-a.jpg", res.Images[0].HostID)
	assert.Equal(t, "https://images.test/hash/cf-a.jpg/original", res.Images[0].URL)
	assert.Equal(t, "a", res.Images[0].Alt)
}

func TestUploadDoesNotChangePrimaryWhenImagesExist(t *testing.T) {
	o := newTestOrchestrator(t, &fakeHost{})

	res, err := o.Upload(context.Background(), Batch{
		Files:     []File{jpeg("a.jpg")},
		Existing:  []models.ProductImage{{ID: "old", IsPrimary: true}},
		MaxImages: 10,
	})
	require.NoError(t, err)
	assert.False(t, res.Images[0].IsPrimary)
	assert.Empty(t, res.PrimaryImageID)
}

func TestUploadFailureFallsBackToLocalPreview(t *testing.T) {
	host := &fakeHost{fail: map[string]bool{"a.jpg": true}}
	dir := t.TempDir()
	o := newTestOrchestrator(t, host)
	o.previews = NewLocalPreviews(dir, "/static/uploads")

	var progress [][2]int
	res, err := o.Upload(context.Background(), Batch{
		Files:     []File{jpeg("a.jpg"), jpeg("b.jpg")},
		MaxImages: 10,
		Progress:  func(done, total int) { progress = append(progress, [2]int{done, total}) },
	})
	require.NoError(t, err)

	require.Len(t, res.Images, 2)
	assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, progress)

	preview := res.Images[0]
	assert.Empty(t, preview.HostID)
	assert.True(t, strings.HasPrefix(preview.URL, "/static/uploads/"))
	assert.FileExists(t, filepath.Join(dir, filepath.Base(preview.URL)))
	require.Len(t, res.Fallbacks, 1)
	assert.Equal(t, "a.jpg", res.Fallbacks[0].File)

	// the first successful upload, not the preview, becomes primary
	assert.False(t, preview.IsPrimary)
	assert.True(t, res.Images[1].IsPrimary)
	assert.Equal(t, res.Images[1].ID, res.PrimaryImageID)
	assert.Equal(t, 1, res.Uploaded())
}

func TestUploadWithoutHostUsesPreviews(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	res, err := o.Upload(context.Background(), Batch{Files: []File{jpeg("a.jpg"), jpeg("b.jpg")}, MaxImages: 10})
	require.NoError(t, err)
	require.Len(t, res.Images, 2)
	assert.Len(t, res.Fallbacks, 2)
	assert.Equal(t, 0, res.Uploaded())

	// tanpa unggahan yang berhasil, gambar pertama tetap menjadi utama
	assert.Equal(t, res.Images[0].ID, res.PrimaryImageID)
	assert.True(t, res.Images[0].IsPrimary)
	assert.False(t, res.Images[1].IsPrimary)
}

// slowHost menahan setiap unggahan sampai ctx selesai.
type slowHost struct{ fakeHost }

func (h *slowHost) Upload(ctx context.Context, in UploadInput) (Uploaded, error) {
	<-ctx.Done()
	return Uploaded{}, ctx.Err()
}

func TestUploadDeadlineStillStoresPreviews(t *testing.T) {
	dir := t.TempDir()
	o := newTestOrchestrator(t, &slowHost{})
	o.previews = NewLocalPreviews(dir, "/static/uploads")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	res, err := o.Upload(ctx, Batch{
		Files:     []File{jpeg("a.jpg"), jpeg("b.jpg"), jpeg("c.jpg")},
		MaxImages: 10,
	})
	require.NoError(t, err)

	assert.Empty(t, res.Failed)
	require.Len(t, res.Fallbacks, 3)
	require.Len(t, res.Images, 3)
	for i, fb := range res.Fallbacks {
		assert.Contains(t, fb.Error, context.DeadlineExceeded.Error())
		assert.FileExists(t, filepath.Join(dir, filepath.Base(res.Images[i].URL)))
	}
}

func TestLocalPreviewsIgnoreCanceledContext(t *testing.T) {
	dir := t.TempDir()
	l := NewLocalPreviews(dir, "/static/uploads")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	url, err := l.Put(ctx, strings.NewReader("data"), "a.png")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, filepath.Base(url)))
}

func TestDetectTypeSniffsGenericContent(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	assert.Equal(t, "image/png", DetectType(FromBytes("a.bin", "application/octet-stream", png)))
	assert.Equal(t, "image/jpeg", DetectType(FromBytes("a.jpg", "image/JPEG; charset=binary", nil)))
}

func TestLocalPreviewsDelete(t *testing.T) {
	dir := t.TempDir()
	l := NewLocalPreviews(dir, "/static/uploads/")
	url, err := l.Put(context.Background(), strings.NewReader("data"), "x.gif")
	require.NoError(t, err)
	assert.True(t, l.Owns(url))
	assert.True(t, strings.HasSuffix(url, ".gif"))

	require.NoError(t, l.Delete(url))
	_, err = os.Stat(filepath.Join(dir, filepath.Base(url)))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, l.Delete(url), "deleting twice is not an error")
}
