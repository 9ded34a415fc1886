package controllers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"catalog-admin/auth"
	"catalog-admin/images"
	"catalog-admin/session"
	"catalog-admin/store"
)

const requestTimeout = 10 * time.Second

// Controller menampung dependensi yang akan digunakan oleh semua handler.
// Host boleh nil; unggahan lalu jatuh ke pratinjau lokal.
type Controller struct {
	Store     store.Store
	Verifier  *auth.Verifier
	Sessions  *session.Provider
	Uploader  *images.Orchestrator
	Host      images.Host
	Previews  *images.LocalPreviews
	Log       *zap.Logger
	MaxImages int
}

// New merakit Controller dari dependensi yang sudah dibuat.
func New(st store.Store, sessions *session.Provider, host images.Host, previews *images.LocalPreviews,
	rules images.Rules, maxImages int, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	var previewStore images.PreviewStore
	if previews != nil {
		previewStore = previews
	}
	return &Controller{
		Store:     st,
		Verifier:  auth.NewVerifier(st),
		Sessions:  sessions,
		Uploader:  images.NewOrchestrator(host, previewStore, rules, log.Named("upload")),
		Host:      host,
		Previews:  previews,
		Log:       log,
		MaxImages: maxImages,
	}
}

func (ctrl *Controller) timeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, requestTimeout)
}
