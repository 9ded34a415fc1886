// Package memory menyediakan backend katalog di memori untuk pengembangan dan tes.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"catalog-admin/models"
	"catalog-admin/store"
)

type Store struct {
	mu       sync.RWMutex
	products []models.Product
	admins   []models.Admin
	now      func() time.Time
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{now: time.Now}
}

func (s *Store) ListProducts(_ context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, len(s.products))
	for i, p := range s.products {
		out[i] = cloneProduct(p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) GetProduct(_ context.Context, id string) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.productIndex(id)
	if i < 0 {
		return models.Product{}, store.ProductNotFound()
	}
	return cloneProduct(s.products[i]), nil
}

func (s *Store) CreateProduct(_ context.Context, p models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.products = append(s.products, cloneProduct(p))
	return p, nil
}

func (s *Store) UpdateProduct(_ context.Context, p models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(p.ID)
	if i < 0 {
		return models.Product{}, store.ProductNotFound()
	}
	p.CreatedAt = s.products[i].CreatedAt
	p.UpdatedAt = s.now()
	s.products[i] = cloneProduct(p)
	return p, nil
}

func (s *Store) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return store.ProductNotFound()
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	return nil
}

func (s *Store) FindActiveAdmin(_ context.Context, username string) (models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.admins {
		if a.Username == username && a.IsActive {
			return a, nil
		}
	}
	return models.Admin{}, store.AdminNotFound()
}

func (s *Store) CreateAdmin(_ context.Context, a models.Admin) (models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.admins {
		if existing.Username == a.Username {
			return models.Admin{}, store.UsernameTaken()
		}
	}
	now := s.now()
	a.ID = uuid.NewString()
	a.CreatedAt = now
	a.UpdatedAt = now
	s.admins = append(s.admins, a)
	return a, nil
}

func (s *Store) ListAdmins(_ context.Context) ([]models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Admin{}, s.admins...), nil
}

func (s *Store) DeleteAdmin(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, a := range s.admins {
		if a.ID == id {
			s.admins = append(s.admins[:i], s.admins[i+1:]...)
			return nil
		}
	}
	return store.AdminNotFound()
}

func (s *Store) Stats(_ context.Context) (models.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, p := range s.products {
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(p.StockQuantity))))
	}
	return models.Stats{
		TotalProducts: int64(len(s.products)),
		TotalAdmins:   int64(len(s.admins)),
		TotalValue:    total,
	}, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close(context.Context) error { return nil }

func (s *Store) productIndex(id string) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func cloneProduct(p models.Product) models.Product {
	p.Images = append([]models.ProductImage{}, p.Images...)
	p.Translations = append([]models.ProductTranslation{}, p.Translations...)
	return p
}
