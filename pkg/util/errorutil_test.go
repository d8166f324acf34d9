package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	t.Run("Should return nil for nil", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
	})

	t.Run("Should unwrap a wrapped domain error", func(t *testing.T) {
		err := fmt.Errorf("guard: %w", NewForbidden("Forbidden access"))
		de := ToDomainError(err)
		assert.Equal(t, "FORBIDDEN", de.Code)
		assert.Equal(t, http.StatusForbidden, de.HTTPStatus)
	})

	t.Run("Should hide unknown errors behind a generic 500", func(t *testing.T) {
		de := ToDomainError(errors.New("connection reset by peer"))
		assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
		assert.Equal(t, "internal server error", de.Message)
		assert.ErrorContains(t, de, "connection reset")
	})
}

func TestNewBadIdentifier(t *testing.T) {
	cause := errors.New("bad hex")
	de := ToDomainError(NewBadIdentifier("zzz", cause))
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Equal(t, "zzz", de.Details["id"])
	assert.ErrorIs(t, de, cause)
}

func TestCodeForStatus(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", CodeForStatus(http.StatusNotFound))
	assert.Equal(t, "INTERNAL_ERROR", CodeForStatus(http.StatusBadGateway))
	assert.Equal(t, "VALIDATION_FAILED", CodeForStatus(http.StatusUnprocessableEntity))
}
