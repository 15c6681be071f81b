package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestT(t *testing.T) {
	Init()

	assert.Equal(t, "Failed to fetch categories.", T("en", "error.fetch_categories", nil))
	assert.Equal(t, "Gagal mengambil kategori.", T("id-ID,id;q=0.9", "error.fetch_categories", nil))
	// unknown language falls back to the bundle default
	assert.Equal(t, "Product not found.", T("fr", "error.product_not_found", nil))
	assert.Equal(t, "error.unknown", T("en", "error.unknown", nil))
}
