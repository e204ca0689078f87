package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	cause := errors.New("disk full")

	assert.Equal(t, "El nombre no puede estar vacío.", New(CodeEmptyName, "El nombre no puede estar vacío.").Error())
	assert.Equal(t, "failed to persist: disk full", Wrap(cause, CodeInternal, "failed to persist").Error())
	assert.Equal(t, "disk full", Wrap(cause, CodeInternal, "").Error())
	assert.ErrorIs(t, Wrap(cause, CodeInternal, "x"), cause)
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("register: %w", New(CodeInvalidAge, "bad age"))

	assert.Equal(t, CodeInvalidAge, CodeOf(wrapped))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
	assert.True(t, HasCode(wrapped, CodeInvalidAge))
	assert.False(t, HasCode(wrapped, CodeNotFound))
	assert.False(t, HasCode(errors.New("plain"), CodeInternal))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeBadRequest:           http.StatusBadRequest,
		CodeEmptyName:            http.StatusBadRequest,
		CodeNameContainsDigit:    http.StatusBadRequest,
		CodeInvalidAge:           http.StatusBadRequest,
		CodeSpecialtyNotSelected: http.StatusBadRequest,
		CodeNotFound:             http.StatusNotFound,
		CodeCatalogLoadFailure:   http.StatusServiceUnavailable,
		CodeUnavailable:          http.StatusServiceUnavailable,
		CodeInternal:             http.StatusInternalServerError,
		Code("unknown"):          http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), string(code))
	}
}
