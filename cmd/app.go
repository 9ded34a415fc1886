package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"catalog-admin/config"
	"catalog-admin/images"
	"catalog-admin/session"
	"catalog-admin/store"
	"catalog-admin/store/memory"
	"catalog-admin/store/mongo"
	"catalog-admin/store/postgres"
)

// openStore membuka backend katalog sesuai STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn("using in-memory catalog store; data is lost on exit")
		return memory.New(), nil

	case config.DriverPostgres:
		pool, err := config.ConnectPostgres(cfg.PostgresDSN, log)
		if err != nil {
			return nil, err
		}
		st := postgres.New(pool)
		if err := st.Migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return st, nil

	default:
		client, err := config.ConnectDB(cfg.MongoURI, cfg.MongoMode, log)
		if err != nil {
			return nil, err
		}
		st := mongo.New(client, cfg.MongoDatabase)
		if err := st.EnsureIndexes(ctx); err != nil {
			log.Warn("could not ensure MongoDB indexes", zap.Error(err))
		}
		return st, nil
	}
}

// openHost membuat host gambar. Cloudinary tanpa CLOUDINARY_URL menghasilkan
// host nil sehingga unggahan memakai pratinjau lokal.
func openHost(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (images.Host, error) {
	switch cfg.ImageHost {
	case config.HostS3:
		h, err := images.NewS3Host(ctx, images.S3Config{
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			Prefix:        cfg.S3Prefix,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating S3 image host: %w", err)
		}
		log.Info("image host ready", zap.Stringer("host", h))
		return h, nil

	default:
		if cfg.CloudinaryURL == "" {
			log.Warn("CLOUDINARY_URL is not set; uploads will be kept as local previews")
			return nil, nil
		}
		h, err := images.NewCloudinaryHost(cfg.CloudinaryURL, cfg.CloudinaryFolder)
		if err != nil {
			return nil, err
		}
		log.Info("image host ready", zap.String("host", "cloudinary"))
		return h, nil
	}
}

func newProvider(cfg *config.AppConfig) (*session.Provider, error) {
	return session.NewProvider(cfg.PasetoSecretKey, session.CookieOptions{
		Secure: cfg.CookieSecure,
		MaxAge: session.CookieMaxAge,
	})
}

func newProviderWithKey(key []byte) (*session.Provider, error) {
	return session.NewProvider(key, session.CookieOptions{})
}
