package session

import (
	"github.com/gin-gonic/gin"

	"catalog-admin/models"
)

// Provider dibuat sekali saat aplikasi mulai dan dibagikan ke semua pemakai
// identitas admin.
type Provider struct {
	sealer *Sealer
	cookie CookieOptions
}

func NewProvider(key []byte, cookie CookieOptions) (*Provider, error) {
	sealer, err := NewSealer(key)
	if err != nil {
		return nil, err
	}
	return &Provider{sealer: sealer, cookie: cookie}, nil
}

// Request mengembalikan Store berbasis cookie untuk satu permintaan HTTP.
func (p *Provider) Request(c *gin.Context) *Store {
	return New(NewCookie(c, p.cookie), p.sealer)
}

// Dir mengembalikan Store berbasis berkas untuk CLI.
func (p *Provider) Dir(path string) *Store {
	return New(Dir{Path: path}, p.sealer)
}

// Token membuka token bearer dengan format yang sama seperti cookie.
func (p *Provider) Token(token string) (models.Admin, bool) {
	admin, err := p.sealer.Open(token)
	if err != nil {
		return models.Admin{}, false
	}
	return admin, true
}
