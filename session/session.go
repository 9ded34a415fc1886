// Package session menyimpan identitas admin yang sedang masuk di penyimpanan
// tahan lama milik klien (cookie untuk HTTP, berkas untuk CLI).
package session

import (
	"catalog-admin/models"
)

// Key adalah kunci tetap tempat sesi disimpan.
const Key = "admin_session"

// Backend adalah penyimpanan kunci-nilai yang bertahan antar permintaan.
type Backend interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// Store menyimpan paling banyak satu admin.
type Store struct {
	backend Backend
	sealer  *Sealer
}

func New(backend Backend, sealer *Sealer) *Store {
	return &Store{backend: backend, sealer: sealer}
}

// Save menulis admin sebagai sesi saat ini dan mengembalikan token tersegel.
func (s *Store) Save(admin models.Admin) (string, error) {
	token, err := s.sealer.Seal(admin)
	if err != nil {
		return "", err
	}
	if err := s.backend.Set(Key, token); err != nil {
		return "", err
	}
	return token, nil
}

// Read mengembalikan admin yang tersimpan. Sesi yang tidak ada atau rusak
// dianggap tidak ada.
func (s *Store) Read() (models.Admin, bool) {
	token, ok := s.backend.Get(Key)
	if !ok || token == "" {
		return models.Admin{}, false
	}
	admin, err := s.sealer.Open(token)
	if err != nil {
		return models.Admin{}, false
	}
	return admin, true
}

func (s *Store) Clear() error {
	return s.backend.Delete(Key)
}
