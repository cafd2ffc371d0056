package utils_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-floor/utils"
)

func TestStatusCodeFor(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{utils.ErrNotFound, http.StatusNotFound},
		{utils.ErrConflict, http.StatusConflict},
		{utils.ErrInvalidState, http.StatusUnprocessableEntity},
		{utils.ErrInvalidInput, http.StatusBadRequest},
		{utils.ErrTransient, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
		// Error yang dibungkus tetap terpetakan
		{fmt.Errorf("table 3: %w", utils.ErrConflict), http.StatusConflict},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, utils.StatusCodeFor(tc.err), "error: %v", tc.err)
	}
}

func TestWrapStoreError(t *testing.T) {
	assert.Nil(t, utils.WrapStoreError(nil))
	assert.ErrorIs(t, utils.WrapStoreError(gorm.ErrRecordNotFound), utils.ErrNotFound)
	assert.ErrorIs(t, utils.WrapStoreError(context.DeadlineExceeded), utils.ErrTransient)
	assert.ErrorIs(t, utils.WrapStoreError(context.Canceled), utils.ErrTransient)

	boom := errors.New("boom")
	assert.Equal(t, boom, utils.WrapStoreError(boom))
}
