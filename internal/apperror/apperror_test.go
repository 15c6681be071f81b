package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesCodeAndMessageID(t *testing.T) {
	errFetch := Wrap(errors.New("boom"), CodeUnavailable, "error.fetch_categories", "failed to fetch categories")
	wrapped := fmt.Errorf("handler: %w", errFetch)

	assert.True(t, errors.Is(wrapped, New(CodeUnavailable, "", "")))
	assert.True(t, errors.Is(wrapped, New(CodeUnavailable, "error.fetch_categories", "")))
	assert.False(t, errors.Is(wrapped, New(CodeUnavailable, "error.fetch_products", "")))
	assert.False(t, errors.Is(wrapped, New(CodeNotFound, "", "")))
}

func TestFrom(t *testing.T) {
	plain := errors.New("disk on fire")
	appErr := From(plain)
	assert.Equal(t, CodeInternal, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus())
	assert.ErrorIs(t, appErr, plain)
	assert.Equal(t, "error.internal", appErr.LocalizationID())

	nf := NotFound("error.product_not_found", "product not found")
	assert.Same(t, nf, From(fmt.Errorf("wrap: %w", nf)))
	assert.Equal(t, http.StatusNotFound, nf.HTTPStatus())
	assert.Equal(t, "error.product_not_found", nf.LocalizationID())
}
