package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AppConfig menampung semua variabel konfigurasi aplikasi.
type AppConfig struct {
	Port            string
	Env             string
	StoreDriver     string
	MongoMode       string
	MongoURI        string
	MongoDatabase   string
	PostgresDSN     string
	PasetoSecretKey []byte

	ImageHost        string
	CloudinaryURL    string
	CloudinaryFolder string
	S3Region         string
	S3Bucket         string
	S3Prefix         string
	S3PublicBaseURL  string

	UploadDir       string
	UploadURLPrefix string
	MaxImages       int
	MaxUploadBytes  int64

	CORSOrigins  []string
	SessionDir   string
	CookieSecure bool
}

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	HostCloudinary = "cloudinary"
	HostS3         = "s3"
)

func defaults(v *viper.Viper) {
	v.SetDefault("PORT", "5000")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("MONGO_MODE", "local")
	v.SetDefault("MONGO_URI_LOCAL", "mongodb://localhost:27017/catalog")
	v.SetDefault("MONGO_DATABASE", "catalog")
	v.SetDefault("IMAGE_HOST", HostCloudinary)
	v.SetDefault("CLOUDINARY_FOLDER", "products")
	v.SetDefault("UPLOAD_DIR", "./static/uploads")
	v.SetDefault("UPLOAD_URL_PREFIX", "/static/uploads")
	v.SetDefault("MAX_IMAGES", 10)
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("SESSION_DIR", ".catalog-admin")
	v.SetDefault("COOKIE_SECURE", false)
}

// Load memuat konfigurasi dari file .env, file konfigurasi opsional, dan environment variables.
func Load(configFile string) (*AppConfig, error) {
	// .env bersifat opsional
	_ = godotenv.Load()

	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *AppConfig {
	cfg := &AppConfig{
		Port:             v.GetString("PORT"),
		Env:              v.GetString("ENVIRONMENT"),
		StoreDriver:      strings.ToLower(v.GetString("STORE_DRIVER")),
		MongoMode:        v.GetString("MONGO_MODE"),
		MongoDatabase:    v.GetString("MONGO_DATABASE"),
		PostgresDSN:      v.GetString("POSTGRES_DSN"),
		PasetoSecretKey:  []byte(v.GetString("PASETO_SECRET_KEY")),
		ImageHost:        strings.ToLower(v.GetString("IMAGE_HOST")),
		CloudinaryURL:    v.GetString("CLOUDINARY_URL"),
		CloudinaryFolder: v.GetString("CLOUDINARY_FOLDER"),
		S3Region:         v.GetString("S3_REGION"),
		S3Bucket:         v.GetString("S3_BUCKET"),
		S3Prefix:         v.GetString("S3_PREFIX"),
		S3PublicBaseURL:  v.GetString("S3_PUBLIC_BASE_URL"),
		UploadDir:        v.GetString("UPLOAD_DIR"),
		UploadURLPrefix:  v.GetString("UPLOAD_URL_PREFIX"),
		MaxImages:        v.GetInt("MAX_IMAGES"),
		MaxUploadBytes:   v.GetInt64("MAX_UPLOAD_BYTES"),
		SessionDir:       v.GetString("SESSION_DIR"),
		CookieSecure:     v.GetBool("COOKIE_SECURE"),
	}

	// Atur URI MongoDB berdasarkan mode
	if cfg.MongoMode == "atlas" {
		cfg.MongoURI = v.GetString("MONGO_URI_ATLAS")
	} else {
		cfg.MongoURI = v.GetString("MONGO_URI_LOCAL")
	}

	for _, origin := range strings.Split(v.GetString("CORS_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}
	return cfg
}

// Validate memeriksa kombinasi nilai konfigurasi.
func (c *AppConfig) Validate() error {
	if len(c.PasetoSecretKey) != 32 {
		return errors.New("PASETO_SECRET_KEY must be 32 characters long")
	}

	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_MODE '%s' but no MongoDB URI is set", c.MongoMode)
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return errors.New("STORE_DRIVER 'postgres' requires POSTGRES_DSN")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.ImageHost {
	case HostCloudinary, HostS3:
	default:
		return fmt.Errorf("unknown IMAGE_HOST %q", c.ImageHost)
	}
	if c.ImageHost == HostS3 && c.S3Bucket == "" {
		return errors.New("IMAGE_HOST 's3' requires S3_BUCKET")
	}

	if c.MaxImages <= 0 {
		return errors.New("MAX_IMAGES must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// IsProduction melaporkan apakah aplikasi berjalan di mode produksi.
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}
