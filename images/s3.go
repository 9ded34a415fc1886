package images

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Host menyimpan gambar di bucket S3 yang dilayani dari PublicBaseURL.
// S3 tidak punya varian, jadi semua varian menunjuk ke objek aslinya.
type S3Host struct {
	Client        *s3.Client
	Bucket        string
	Prefix        string
	PublicBaseURL string
}

type S3Config struct {
	Region        string
	Bucket        string
	Prefix        string
	PublicBaseURL string
}

func NewS3Host(ctx context.Context, cfg S3Config) (*S3Host, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, err
	}
	return &S3Host{
		Client:        s3.NewFromConfig(awsCfg),
		Bucket:        cfg.Bucket,
		Prefix:        cfg.Prefix,
		PublicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

func (h *S3Host) Upload(ctx context.Context, in UploadInput) (Uploaded, error) {
	key := uuid.NewString() + strings.ToLower(filepath.Ext(in.Filename))
	if h.Prefix != "" {
		key = strings.Trim(h.Prefix, "/") + "/" + key
	}

	_, err := h.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(h.Bucket),
		Key:         aws.String(key),
		Body:        in.Body,
		ContentType: aws.String(in.ContentType),
		Metadata:    in.Metadata,
	})
	if err != nil {
		return Uploaded{}, fmt.Errorf("s3 put: %w", err)
	}
	return Uploaded{
		ID:       key,
		Filename: in.Filename,
		Uploaded: time.Now(),
		Variants: variantList(h, key),
		Meta:     in.Metadata,
	}, nil
}

func (h *S3Host) Delete(ctx context.Context, id string) (bool, error) {
	_, err := h.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(h.Bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		return false, fmt.Errorf("s3 delete: %w", err)
	}
	return true, nil
}

func (h *S3Host) VariantURL(id string, _ Variant) string {
	return h.PublicBaseURL + "/" + id
}

func (h *S3Host) String() string { return fmt.Sprintf("s3(%s/%s)", h.Bucket, h.Prefix) }
