package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cases := map[*Error]int{
		NewValidation("bad"):        http.StatusBadRequest,
		NewConflict("taken"):        http.StatusBadRequest,
		NewUnauthorized("who"):      http.StatusUnauthorized,
		NewForbidden("no"):          http.StatusForbidden,
		NewNotFound("gone"):         http.StatusNotFound,
		Wrap(errors.New("io"), "x"): http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, err.StatusCode(), err.Error())
	}
}

func TestKindOf_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("booking: %w", NewConflict("This time slot is already booked"))
	assert.Equal(t, Conflict, KindOf(err))
	assert.Equal(t, Unexpected, KindOf(errors.New("plain")))
}

func TestAs_WrapsForeignErrors(t *testing.T) {
	cause := errors.New("connection refused")
	appErr := As(cause)

	assert.Equal(t, Unexpected, appErr.Kind)
	assert.ErrorIs(t, appErr, cause)
	assert.Equal(t, "Unexpected error: connection refused", appErr.Error())
}
