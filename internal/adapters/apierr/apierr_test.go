package apierr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jose-valero/spinboard/internal/domain"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{nil, http.StatusOK},
		{domain.ErrEmptyRoster, http.StatusNotFound},
		{fmt.Errorf("increment wins x: %w", domain.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("name is required: %w", domain.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("%w: dial tcp", domain.ErrStoreUnavailable), http.StatusServiceUnavailable},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		code, msg := Status(tt.err)
		assert.Equal(t, tt.code, code, "err=%v", tt.err)
		if tt.err != nil {
			assert.NotEmpty(t, msg)
		}
	}
}

func TestStatusHidesInternalDetails(t *testing.T) {
	_, msg := Status(fmt.Errorf("%w: password=secret", domain.ErrStoreUnavailable))
	assert.NotContains(t, msg, "secret")
}
