package images

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// cloudinaryTransformations memetakan varian ke transformasi Cloudinary.
var cloudinaryTransformations = map[Variant]string{
	Thumbnail: "c_fill,h_150,w_150",
	Small:     "c_limit,w_400",
	Medium:    "c_limit,w_800",
	Large:     "c_limit,w_1200",
	Original:  "",
}

// CloudinaryHost menyimpan gambar produk di Cloudinary.
type CloudinaryHost struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryHost membuat host dari CLOUDINARY_URL.
func NewCloudinaryHost(cloudinaryURL, folder string) (*CloudinaryHost, error) {
	if cloudinaryURL == "" {
		return nil, errors.New("cloudinary url is empty")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("error creating cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true
	return &CloudinaryHost{cld: cld, folder: folder}, nil
}

func (h *CloudinaryHost) Upload(ctx context.Context, in UploadInput) (Uploaded, error) {
	meta := api.CldAPIMap{}
	for k, v := range in.Metadata {
		meta[k] = v
	}
	res, err := h.cld.Upload.Upload(ctx, in.Body, uploader.UploadParams{
		Folder:  h.folder,
		Context: meta,
	})
	if err != nil {
		return Uploaded{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return Uploaded{}, fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}

	uploaded := res.CreatedAt
	if uploaded.IsZero() {
		uploaded = time.Now()
	}
	return Uploaded{
		ID:       res.PublicID,
		Filename: in.Filename,
		Uploaded: uploaded,
		Variants: variantList(h, res.PublicID),
		Meta:     in.Metadata,
	}, nil
}

func (h *CloudinaryHost) Delete(ctx context.Context, id string) (bool, error) {
	res, err := h.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: id})
	if err != nil {
		return false, fmt.Errorf("cloudinary destroy: %w", err)
	}
	if res.Error.Message != "" {
		return false, fmt.Errorf("cloudinary destroy: %s", res.Error.Message)
	}
	return res.Result == "ok", nil
}

func (h *CloudinaryHost) VariantURL(id string, v Variant) string {
	img, err := h.cld.Image(id)
	if err != nil {
		return ""
	}
	img.Transformation = cloudinaryTransformations[v]
	u, err := img.String()
	if err != nil {
		return ""
	}
	return u
}
