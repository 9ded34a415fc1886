package session

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-admin/apperr"
	"catalog-admin/models"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func testAdmin() models.Admin {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return models.Admin{
		ID:           "a1",
		Username:     "admin",
		PasswordHash: "$2a$10$secret",
		Email:        "admin@example.com",
		IsActive:     true,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
}

func newDirStore(t *testing.T) (*Store, string) {
	t.Helper()
	p, err := NewProvider(testKey, CookieOptions{})
	require.NoError(t, err)
	dir := t.TempDir()
	return p.Dir(dir), dir
}

func TestRoundTrip(t *testing.T) {
	s, _ := newDirStore(t)

	_, ok := s.Read()
	assert.False(t, ok)

	_, err := s.Save(testAdmin())
	require.NoError(t, err)

	got, ok := s.Read()
	require.True(t, ok)
	want := testAdmin()
	want.PasswordHash = ""
	assert.Equal(t, want, got)

	require.NoError(t, s.Clear())
	_, ok = s.Read()
	assert.False(t, ok)
	assert.NoError(t, s.Clear(), "clearing an empty session is fine")
}

func TestPasswordHashIsNeverStored(t *testing.T) {
	s, dir := newDirStore(t)
	token, err := s.Save(testAdmin())
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, Key))
	require.NoError(t, err)
	assert.Equal(t, token, string(raw))
	assert.NotContains(t, string(raw), "secret")
}

func TestCorruptSessionReadsAsAbsent(t *testing.T) {
	s, dir := newDirStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, Key), []byte("{not json"), 0o600))

	_, ok := s.Read()
	assert.False(t, ok)
}

func TestSealerRejectsForeignKey(t *testing.T) {
	a, err := NewSealer(testKey)
	require.NoError(t, err)
	b, err := NewSealer([]byte(strings.Repeat("z", 32)))
	require.NoError(t, err)

	token, err := a.Seal(testAdmin())
	require.NoError(t, err)

	_, err = b.Open(token)
	assert.True(t, apperr.Is(err, apperr.Parse))

	_, err = NewSealer([]byte("short"))
	assert.Error(t, err)
}

func TestCookieBackend(t *testing.T) {
	gin.SetMode(gin.TestMode)
	p, err := NewProvider(testKey, CookieOptions{Secure: true})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/login", nil)

	token, err := p.Request(c).Save(testAdmin())
	require.NoError(t, err)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, Key, cookies[0].Name)
	assert.Equal(t, token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request = httptest.NewRequest(http.MethodGet, "/api/session", nil)
	c2.Request.AddCookie(&http.Cookie{Name: Key, Value: token})

	got, ok := p.Request(c2).Read()
	require.True(t, ok)
	assert.Equal(t, "admin", got.Username)

	viaToken, ok := p.Token(token)
	require.True(t, ok)
	assert.Equal(t, got, viaToken)
}

func TestSealedSessionDoesNotExpire(t *testing.T) {
	sealer, err := NewSealer(testKey)
	require.NoError(t, err)

	issued := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	sealer.now = func() time.Time { return issued }
	token, err := sealer.Seal(testAdmin())
	require.NoError(t, err)

	sealer.now = func() time.Time { return issued.AddDate(1, 0, 0) }
	admin, err := sealer.Open(token)
	require.NoError(t, err)
	assert.Equal(t, "a1", admin.ID)
}
