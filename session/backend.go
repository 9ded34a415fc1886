package session

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// CookieMaxAge membuat cookie bertahan seperti penyimpanan tahan lama (30 hari).
const CookieMaxAge = 30 * 24 * 60 * 60

// CookieOptions mengatur cookie sesi. MaxAge 0 berarti cookie sesi browser.
type CookieOptions struct {
	Secure bool
	MaxAge int
	Path   string
}

// Cookie menyimpan sesi di cookie HTTP-only pada permintaan gin.
type Cookie struct {
	c    *gin.Context
	opts CookieOptions
}

func NewCookie(c *gin.Context, opts CookieOptions) *Cookie {
	if opts.Path == "" {
		opts.Path = "/"
	}
	return &Cookie{c: c, opts: opts}
}

func (b *Cookie) Get(key string) (string, bool) {
	v, err := b.c.Cookie(key)
	if err != nil {
		return "", false
	}
	return v, true
}

func (b *Cookie) Set(key, value string) error {
	b.c.SetSameSite(http.SameSiteLaxMode)
	b.c.SetCookie(key, value, b.opts.MaxAge, b.opts.Path, "", b.opts.Secure, true)
	return nil
}

func (b *Cookie) Delete(key string) error {
	b.c.SetSameSite(http.SameSiteLaxMode)
	b.c.SetCookie(key, "", -1, b.opts.Path, "", b.opts.Secure, true)
	return nil
}

// Dir menyimpan setiap kunci sebagai berkas di satu direktori.
type Dir struct {
	Path string
}

func (d Dir) file(key string) string {
	return filepath.Join(d.Path, filepath.Base(key))
}

func (d Dir) Get(key string) (string, bool) {
	b, err := os.ReadFile(d.file(key))
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(b)), true
}

func (d Dir) Set(key, value string) error {
	if err := os.MkdirAll(d.Path, 0o700); err != nil {
		return err
	}
	return os.WriteFile(d.file(key), []byte(value), 0o600)
}

func (d Dir) Delete(key string) error {
	err := os.Remove(d.file(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
