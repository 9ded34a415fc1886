package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-admin/apperr"
	"catalog-admin/catalog"
	"catalog-admin/models"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestPrintProductsStates(t *testing.T) {
	products := []models.Product{
		{ID: "p1", Name: "Green Tea", Category: "Tea", Price: decimal.RequireFromString("12.5"), StockQuantity: 3, IsActive: true},
		{ID: "p2", Name: "Coffee", Category: "Coffee", Price: decimal.NewFromInt(20)},
	}

	var out bytes.Buffer
	require.NoError(t, printProducts(&out, catalog.Filter(nil, "", "")))
	assert.Equal(t, "No products yet.\n", out.String())

	out.Reset()
	require.NoError(t, printProducts(&out, catalog.Filter(products, "matcha", "")))
	assert.Equal(t, "No products match the current filters.\n", out.String())

	out.Reset()
	require.NoError(t, printProducts(&out, catalog.Filter(products, "tea", "")))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "12.50")
	assert.Equal(t, "1 of 2 products", lines[2])
}

func TestSignedInReadsSessionDir(t *testing.T) {
	dir := t.TempDir()

	_, err := signedIn(dir, []byte(testKey))
	assert.ErrorIs(t, err, errNotSignedIn)

	provider, err := newProviderWithKey([]byte(testKey))
	require.NoError(t, err)
	_, err = provider.Dir(dir).Save(models.Admin{ID: "a1", Username: "admin"})
	require.NoError(t, err)

	admin, err := signedIn(dir, []byte(testKey))
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Username)
}

func TestPasswordPrompt(t *testing.T) {
	c := &cobra.Command{}
	c.SetIn(strings.NewReader("s3cret\n"))
	c.SetOut(&bytes.Buffer{})

	got, err := passwordOrPrompt(c, "")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)

	got, err = passwordOrPrompt(c, "given")
	require.NoError(t, err)
	assert.Equal(t, "given", got)
}

func TestCLIErrorUsesPublicMessage(t *testing.T) {
	assert.EqualError(t, cliError(apperr.ConflictErr("Username already exists")), "Username already exists")

	plain := errors.New("boom")
	assert.Equal(t, plain, cliError(plain))
}

func TestCommandTree(t *testing.T) {
	root := NewRootCommand()
	for _, path := range [][]string{
		{"serve"}, {"admin", "create"}, {"login"}, {"logout"}, {"whoami"}, {"products", "list"}, {"products", "categories"},
	} {
		c, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], c.Name())
	}
}
