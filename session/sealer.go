package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/o1egl/paseto"

	"catalog-admin/apperr"
	"catalog-admin/models"
)

const footer = "catalog-admin"

// Sealer mengenkripsi identitas admin menjadi token PASETO v2 local.
type Sealer struct {
	key []byte
	v2  *paseto.V2
	now func() time.Time
}

func NewSealer(key []byte) (*Sealer, error) {
	if len(key) != 32 {
		return nil, errors.New("session key must be 32 bytes long")
	}
	return &Sealer{key: key, v2: paseto.NewV2(), now: time.Now}, nil
}

func (s *Sealer) Seal(admin models.Admin) (string, error) {
	admin.PasswordHash = ""
	payload, err := json.Marshal(admin)
	if err != nil {
		return "", err
	}

	now := s.now()
	token := paseto.JSONToken{
		Subject:  admin.ID,
		IssuedAt: now,
	}
	token.Set("admin", string(payload))

	sealed, err := s.v2.Encrypt(s.key, token, footer)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return sealed, nil
}

// Open membuka token. Token rusak atau isinya tidak valid menghasilkan apperr.Parse.
func (s *Sealer) Open(sealed string) (models.Admin, error) {
	var token paseto.JSONToken
	var foot string
	if err := s.v2.Decrypt(sealed, s.key, &token, &foot); err != nil {
		return models.Admin{}, apperr.ParseErr(err)
	}

	var admin models.Admin
	if err := json.Unmarshal([]byte(token.Get("admin")), &admin); err != nil {
		return models.Admin{}, apperr.ParseErr(err)
	}
	if admin.ID == "" || admin.Username == "" || admin.ID != token.Subject {
		return models.Admin{}, apperr.ParseErr(errors.New("session payload is incomplete"))
	}
	return admin, nil
}
