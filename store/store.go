// Package store mendefinisikan kontrak backend katalog (tabel products dan admin).
package store

import (
	"context"
	"fmt"

	"catalog-admin/apperr"
	"catalog-admin/models"
)

const (
	ProductsTable = "products"
	AdminTable    = "admin"
)

// Products adalah operasi baris pada tabel products.
// ListProducts mengurutkan berdasarkan created_at menurun.
type Products interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
	CreateProduct(ctx context.Context, p models.Product) (models.Product, error)
	UpdateProduct(ctx context.Context, p models.Product) (models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// Admins adalah operasi baris pada tabel admin.
type Admins interface {
	FindActiveAdmin(ctx context.Context, username string) (models.Admin, error)
	CreateAdmin(ctx context.Context, a models.Admin) (models.Admin, error)
	ListAdmins(ctx context.Context) ([]models.Admin, error)
	DeleteAdmin(ctx context.Context, id string) error
}

// Store adalah backend katalog lengkap.
type Store interface {
	Products
	Admins
	Stats(ctx context.Context) (models.Stats, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

func ProductNotFound() error { return apperr.NotFoundErr("Product not found") }

func AdminNotFound() error { return apperr.NotFoundErr("Admin not found") }

func UsernameTaken() error { return apperr.ConflictErr("Username already exists") }

func InvalidID(what string) error {
	return apperr.ValidationErr(fmt.Sprintf("Invalid %s ID", what), nil)
}

// Remote membungkus kesalahan driver database.
func Remote(op string, err error) error {
	return apperr.RemoteErr("Catalog backend request failed", fmt.Errorf("%s: %w", op, err))
}
