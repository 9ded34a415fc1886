// Package postgres menyimpan katalog di PostgreSQL melalui pgxpool.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"catalog-admin/models"
	"catalog-admin/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id               uuid PRIMARY KEY,
	name             text NOT NULL,
	description      text NOT NULL DEFAULT '',
	slug             text NOT NULL DEFAULT '',
	price            numeric NOT NULL DEFAULT 0,
	category         text NOT NULL DEFAULT '',
	stock_quantity   integer NOT NULL DEFAULT 0,
	is_active        boolean NOT NULL DEFAULT true,
	image_url        text NOT NULL DEFAULT '',
	images           jsonb NOT NULL DEFAULT '[]',
	primary_image_id text NOT NULL DEFAULT '',
	translations     jsonb NOT NULL DEFAULT '[]',
	created_at       timestamptz NOT NULL,
	updated_at       timestamptz NOT NULL
);
ALTER TABLE products ALTER COLUMN price TYPE numeric;
CREATE INDEX IF NOT EXISTS products_created_at_idx ON products (created_at DESC);
CREATE TABLE IF NOT EXISTS admin (
	id            uuid PRIMARY KEY,
	username      text NOT NULL UNIQUE,
	password_hash text NOT NULL,
	email         text NOT NULL DEFAULT '',
	is_active     boolean NOT NULL DEFAULT true,
	created_at    timestamptz NOT NULL,
	updated_at    timestamptz NOT NULL
);`

const productColumns = `id::text, name, description, slug, price::text, category, stock_quantity,
	is_active, image_url, images::text, primary_image_id, translations::text, created_at, updated_at`

const adminColumns = `id::text, username, password_hash, email, is_active, created_at, updated_at`

// Store adalah backend katalog PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate membuat tabel products dan admin bila belum ada.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return store.Remote("migrate", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (models.Product, error) {
	var (
		p            models.Product
		price        string
		images       string
		translations string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Slug, &price, &p.Category, &p.StockQuantity,
		&p.IsActive, &p.ImageURL, &images, &p.PrimaryImageID, &translations, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.Product{}, err
	}
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return models.Product{}, fmt.Errorf("parse price: %w", err)
	}
	if err = json.Unmarshal([]byte(images), &p.Images); err != nil {
		return models.Product{}, fmt.Errorf("parse images: %w", err)
	}
	if err = json.Unmarshal([]byte(translations), &p.Translations); err != nil {
		return models.Product{}, fmt.Errorf("parse translations: %w", err)
	}
	if p.Images == nil {
		p.Images = []models.ProductImage{}
	}
	return p, nil
}

func scanAdmin(row scanner) (models.Admin, error) {
	var a models.Admin
	err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Email, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func encodeJSON(p models.Product) (images, translations string, err error) {
	imgs := p.Images
	if imgs == nil {
		imgs = []models.ProductImage{}
	}
	b, err := json.Marshal(imgs)
	if err != nil {
		return "", "", fmt.Errorf("encode images: %w", err)
	}
	t, err := json.Marshal(p.Translations)
	if err != nil {
		return "", "", fmt.Errorf("encode translations: %w", err)
	}
	return string(b), string(t), nil
}

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, store.Remote("query products", err)
	}
	defer rows.Close()

	out := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, store.Remote("scan product", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Remote("query products", err)
	}
	return out, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Product{}, store.InvalidID("product")
	}
	row := s.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1::text::uuid`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Product{}, store.ProductNotFound()
		}
		return models.Product{}, store.Remote("get product", err)
	}
	return p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	images, translations, err := encodeJSON(p)
	if err != nil {
		return models.Product{}, err
	}
	now := time.Now().UTC()
	row := s.pool.QueryRow(ctx, `
		INSERT INTO products (id, name, description, slug, price, category, stock_quantity,
			is_active, image_url, images, primary_image_id, translations, created_at, updated_at)
		VALUES ($1::text::uuid, $2, $3, $4, $5::text::numeric, $6, $7, $8, $9, $10::text::jsonb, $11,
			$12::text::jsonb, $13, $13)
		RETURNING `+productColumns,
		uuid.NewString(), p.Name, p.Description, p.Slug, p.Price.String(), p.Category, p.StockQuantity,
		p.IsActive, p.ImageURL, images, p.PrimaryImageID, translations, now)
	created, err := scanProduct(row)
	if err != nil {
		return models.Product{}, store.Remote("insert product", err)
	}
	return created, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	if _, err := uuid.Parse(p.ID); err != nil {
		return models.Product{}, store.InvalidID("product")
	}
	images, translations, err := encodeJSON(p)
	if err != nil {
		return models.Product{}, err
	}
	row := s.pool.QueryRow(ctx, `
		UPDATE products SET name = $2, description = $3, slug = $4, price = $5::text::numeric,
			category = $6, stock_quantity = $7, is_active = $8, image_url = $9,
			images = $10::text::jsonb, primary_image_id = $11, translations = $12::text::jsonb,
			updated_at = $13
		WHERE id = $1::text::uuid
		RETURNING `+productColumns,
		p.ID, p.Name, p.Description, p.Slug, p.Price.String(), p.Category, p.StockQuantity,
		p.IsActive, p.ImageURL, images, p.PrimaryImageID, translations, time.Now().UTC())
	updated, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Product{}, store.ProductNotFound()
		}
		return models.Product{}, store.Remote("update product", err)
	}
	return updated, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return store.InvalidID("product")
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1::text::uuid`, id)
	if err != nil {
		return store.Remote("delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ProductNotFound()
	}
	return nil
}

func (s *Store) FindActiveAdmin(ctx context.Context, username string) (models.Admin, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+adminColumns+` FROM admin WHERE username = $1 AND is_active`, username)
	a, err := scanAdmin(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Admin{}, store.AdminNotFound()
		}
		return models.Admin{}, store.Remote("find admin", err)
	}
	return a, nil
}

func (s *Store) CreateAdmin(ctx context.Context, a models.Admin) (models.Admin, error) {
	now := time.Now().UTC()
	row := s.pool.QueryRow(ctx, `
		INSERT INTO admin (id, username, password_hash, email, is_active, created_at, updated_at)
		VALUES ($1::text::uuid, $2, $3, $4, $5, $6, $6)
		RETURNING `+adminColumns,
		uuid.NewString(), a.Username, a.PasswordHash, a.Email, a.IsActive, now)
	created, err := scanAdmin(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.Admin{}, store.UsernameTaken()
		}
		return models.Admin{}, store.Remote("insert admin", err)
	}
	return created, nil
}

func (s *Store) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+adminColumns+` FROM admin ORDER BY created_at`)
	if err != nil {
		return nil, store.Remote("query admins", err)
	}
	defer rows.Close()

	out := []models.Admin{}
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, store.Remote("scan admin", err)
		}
		a.PasswordHash = ""
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Remote("query admins", err)
	}
	return out, nil
}

func (s *Store) DeleteAdmin(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return store.InvalidID("admin")
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM admin WHERE id = $1::text::uuid`, id)
	if err != nil {
		return store.Remote("delete admin", err)
	}
	if tag.RowsAffected() == 0 {
		return store.AdminNotFound()
	}
	return nil
}

func (s *Store) Stats(ctx context.Context) (models.Stats, error) {
	var (
		st    models.Stats
		total string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM products),
			(SELECT count(*) FROM admin),
			(SELECT coalesce(sum(price * stock_quantity), 0)::text FROM products)`,
	).Scan(&st.TotalProducts, &st.TotalAdmins, &total)
	if err != nil {
		return models.Stats{}, store.Remote("stats", err)
	}
	if st.TotalValue, err = decimal.NewFromString(total); err != nil {
		return models.Stats{}, store.Remote("stats", err)
	}
	return st, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close(context.Context) error {
	s.pool.Close()
	return nil
}
