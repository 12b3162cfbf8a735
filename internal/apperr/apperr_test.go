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
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid", InvalidInput("bad"), http.StatusBadRequest},
		{"unauthenticated", Unauthenticated("login"), http.StatusUnauthorized},
		{"unauthorized", Unauthorized("nope"), http.StatusForbidden},
		{"not found", NotFound("gone"), http.StatusNotFound},
		{"conflict", Conflict("rule"), http.StatusBadRequest},
		{"conflict override", Conflict("taken").WithStatus(http.StatusConflict), http.StatusConflict},
		{"store", StoreFailure("put", errors.New("timeout")), http.StatusInternalServerError},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("ctx: %w", NotFound("gone")), http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}

func TestKindAndIs(t *testing.T) {
	cause := errors.New("throttled")
	err := fmt.Errorf("save: %w", StoreFailure("save product", cause))

	assert.Equal(t, KindStoreFailure, KindOf(err))
	assert.True(t, IsKind(err, KindStoreFailure))
	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, New(KindStoreFailure, "")))
	assert.False(t, errors.Is(err, New(KindNotFound, "")))
	assert.Equal(t, KindUnknown, KindOf(errors.New("x")))
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Product not found", PublicMessage(NotFound("Product not found")))
	assert.Equal(t, "Some error occurred", PublicMessage(StoreFailure("scan products", errors.New("secret detail"))))
	assert.Equal(t, "Some error occurred", PublicMessage(errors.New("raw")))
}
