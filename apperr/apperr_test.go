package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NotFoundErr("x"), http.StatusNotFound},
		{InvalidCredentialErr("x"), http.StatusUnauthorized},
		{ValidationErr("x", nil), http.StatusBadRequest},
		{LimitExceededErr("x"), http.StatusUnprocessableEntity},
		{RemoteErr("x", errors.New("boom")), http.StatusBadGateway},
		{ConflictErr("x"), http.StatusConflict},
		{errors.New("plain"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NotFoundErr("x")), http.StatusNotFound},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Product not found", PublicMessage(NotFoundErr("Product not found")))
	assert.Equal(t, genericMsg, PublicMessage(errors.New("db exploded")))
	assert.Equal(t, genericMsg, PublicMessage(Wrap(errors.New("db exploded"))))
}

func TestIsAndWrap(t *testing.T) {
	err := fmt.Errorf("lookup: %w", NotFoundErr("gone"))
	assert.True(t, Is(err, NotFound))
	assert.False(t, Is(err, Remote))
	assert.Nil(t, Wrap(nil))

	ae := ValidationErr("bad", map[string]string{"price": "must be >= 0"})
	assert.Same(t, ae, Wrap(ae))
}
