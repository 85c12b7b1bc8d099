package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryValidation(t *testing.T) {
	t.Parallel()

	type request struct {
		Category string `param:"category" validate:"required,category"`
	}

	v := NewValidator()
	for _, ok := range []string{"PLN", "e-money", "TELKOMSEL DATA", "Voucher 3.0"} {
		assert.NoError(t, v.Validate(&request{Category: ok}), ok)
	}
	for _, bad := range []string{"", "<script>", "a/b"} {
		assert.Error(t, v.Validate(&request{Category: bad}), bad)
	}
}
