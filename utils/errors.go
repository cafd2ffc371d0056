package utils

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Taksonomi error inti. Controller tidak boleh menampilkan raw fault;
// semua kegagalan mutasi dipetakan ke salah satu sentinel di bawah.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrInvalidInput = errors.New("invalid input")
	ErrTransient    = errors.New("transient store error")
)

// StatusCodeFor -> HTTP status untuk error taksonomi
func StatusCodeFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidState):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrTransient):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WrapStoreError -> normalisasi error dari GORM ke taksonomi.
// context deadline dianggap transient (aman untuk retry oleh caller).
func WrapStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrTransient
	default:
		return err
	}
}
