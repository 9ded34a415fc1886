package images

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"catalog-admin/apperr"
	"catalog-admin/models"
)

var errNoHost = errors.New("image host is not configured")

// FileError melaporkan kegagalan satu berkas tanpa membatalkan batch.
type FileError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Batch adalah satu permintaan unggah banyak berkas.
type Batch struct {
	Files     []File
	Existing  []models.ProductImage
	MaxImages int
	Progress  func(completed, total int)
}

// Result adalah hasil satu batch unggahan.
//   - Images: gambar baru sesuai urutan masukan
//   - Rejected: berkas yang gagal validasi
//   - Fallbacks: berkas yang gagal diunggah dan diganti pratinjau lokal
//   - Failed: berkas yang gagal diunggah dan gagal disimpan sebagai pratinjau
type Result struct {
	Images         []models.ProductImage `json:"images"`
	Rejected       []FileError           `json:"rejected,omitempty"`
	Fallbacks      []FileError           `json:"fallbacks,omitempty"`
	Failed         []FileError           `json:"failed,omitempty"`
	PrimaryImageID string                `json:"primary_image_id,omitempty"`
}

// Uploaded menghitung gambar yang berhasil sampai ke host.
func (r Result) Uploaded() int {
	n := 0
	for _, img := range r.Images {
		if img.HostID != "" {
			n++
		}
	}
	return n
}

// Orchestrator mengunggah berkas satu per satu ke host gambar.
type Orchestrator struct {
	host     Host
	previews PreviewStore
	rules    Rules
	log      *zap.Logger

	newID func() string
	now   func() time.Time
}

func NewOrchestrator(host Host, previews PreviewStore, rules Rules, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		host:     host,
		previews: previews,
		rules:    rules,
		log:      log,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

func (o *Orchestrator) Rules() Rules { return o.rules }

// Upload memvalidasi setiap berkas, menolak seluruh batch bila melebihi MaxImages,
// lalu mengunggah berkas valid secara berurutan. Kegagalan per berkas diganti
// pratinjau lokal dan tidak menghentikan batch.
func (o *Orchestrator) Upload(ctx context.Context, b Batch) (Result, error) {
	var res Result

	valid := make([]File, 0, len(b.Files))
	for _, f := range b.Files {
		if err := o.rules.Check(f); err != nil {
			res.Rejected = append(res.Rejected, FileError{File: f.Name, Error: apperr.PublicMessage(err)})
			continue
		}
		valid = append(valid, f)
	}
	if len(valid) == 0 {
		return res, nil
	}

	if b.MaxImages > 0 && len(b.Existing)+len(valid) > b.MaxImages {
		return res, apperr.LimitExceededErr(fmt.Sprintf("At most %d images can be uploaded", b.MaxImages))
	}

	total := len(valid)
	firstUploaded := -1
	for i, f := range valid {
		img, err := o.uploadOne(ctx, f)
		if err == nil {
			if firstUploaded < 0 {
				firstUploaded = len(res.Images)
			}
			res.Images = append(res.Images, img)
		} else {
			o.log.Warn("image upload failed, using local preview",
				zap.String("file", f.Name), zap.Error(err))

			preview, perr := o.preview(context.WithoutCancel(ctx), f)
			if perr != nil {
				o.log.Error("local preview failed", zap.String("file", f.Name), zap.Error(perr))
				res.Failed = append(res.Failed, FileError{File: f.Name, Error: err.Error()})
			} else {
				res.Images = append(res.Images, preview)
				res.Fallbacks = append(res.Fallbacks, FileError{File: f.Name, Error: err.Error()})
			}
		}

		o.log.Debug("image upload progress", zap.Int("completed", i+1), zap.Int("total", total))
		if b.Progress != nil {
			b.Progress(i+1, total)
		}
	}

	if len(b.Existing) == 0 && len(res.Images) > 0 {
		// unggahan pertama yang sampai ke host didahulukan, lalu gambar pertama
		primary := 0
		if firstUploaded >= 0 {
			primary = firstUploaded
		}
		res.Images = markPrimary(res.Images, res.Images[primary].ID)
		res.PrimaryImageID = res.Images[primary].ID
	}
	return res, nil
}

func (o *Orchestrator) uploadOne(ctx context.Context, f File) (models.ProductImage, error) {
	if o.host == nil {
		return models.ProductImage{}, errNoHost
	}
	rc, err := f.Open()
	if err != nil {
		return models.ProductImage{}, err
	}
	defer rc.Close()

	up, err := o.host.Upload(ctx, UploadInput{
		Filename:    f.Name,
		ContentType: DetectType(f),
		Size:        f.Size,
		Body:        rc,
		Metadata: map[string]string{
			"product_image": "true",
			"original_name": f.Name,
		},
	})
	if err != nil {
		return models.ProductImage{}, err
	}
	return models.ProductImage{
		ID:        o.newID(),
		URL:       o.host.VariantURL(up.ID, Original),
		HostID:    up.ID,
		Alt:       f.Alt(),
		CreatedAt: o.now(),
	}, nil
}

func (o *Orchestrator) preview(ctx context.Context, f File) (models.ProductImage, error) {
	if o.previews == nil {
		return models.ProductImage{}, errors.New("local preview storage is not configured")
	}
	rc, err := f.Open()
	if err != nil {
		return models.ProductImage{}, err
	}
	defer rc.Close()

	url, err := o.previews.Put(ctx, rc, f.Name)
	if err != nil {
		return models.ProductImage{}, err
	}
	return models.ProductImage{
		ID:        o.newID(),
		URL:       url,
		Alt:       f.Alt(),
		CreatedAt: o.now(),
	}, nil
}
