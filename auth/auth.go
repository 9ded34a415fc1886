// Package auth memverifikasi kredensial admin terhadap tabel admin.
package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"catalog-admin/apperr"
	"catalog-admin/models"
)

// LoginFailedMsg sengaja sama untuk username tidak dikenal, akun nonaktif,
// dan password salah.
const LoginFailedMsg = "Invalid username or password"

// AdminFinder mencari tepat satu admin aktif berdasarkan username (persis).
// Harus mengembalikan kesalahan apperr.NotFound bila tidak ada.
type AdminFinder interface {
	FindActiveAdmin(ctx context.Context, username string) (models.Admin, error)
}

// Verifier memverifikasi kredensial admin. Tidak menyimpan state antar percobaan.
type Verifier struct {
	admins AdminFinder

	dummyOnce sync.Once
	dummyHash []byte
}

func NewVerifier(admins AdminFinder) *Verifier {
	return &Verifier{admins: admins}
}

// Login mengembalikan admin bila username dan password cocok.
func (v *Verifier) Login(ctx context.Context, username, password string) (models.Admin, error) {
	admin, err := v.admins.FindActiveAdmin(ctx, username)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			// menyamakan waktu respons dengan jalur password salah
			_ = bcrypt.CompareHashAndPassword(v.dummy(), []byte(password))
			return models.Admin{}, &apperr.Error{Kind: apperr.NotFound, PublicMsg: LoginFailedMsg, Err: err}
		}
		return models.Admin{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return models.Admin{}, &apperr.Error{Kind: apperr.InvalidCredential, PublicMsg: LoginFailedMsg, Err: err}
	}
	return admin, nil
}

func (v *Verifier) dummy() []byte {
	v.dummyOnce.Do(func() {
		v.dummyHash, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	})
	return v.dummyHash
}

// HashPassword menghasilkan hash bcrypt untuk password baru.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
