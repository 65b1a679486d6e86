package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUpstreamErrorMapsStatus(t *testing.T) {
	cases := []struct {
		status     int
		code       string
		httpStatus int
	}{
		{http.StatusBadRequest, CodeValidation, http.StatusBadRequest},
		{http.StatusUnprocessableEntity, CodeValidation, http.StatusUnprocessableEntity},
		{http.StatusUnauthorized, CodeUnauthorized, http.StatusUnauthorized},
		{http.StatusForbidden, CodeForbidden, http.StatusForbidden},
		{http.StatusNotFound, CodeNotFound, http.StatusNotFound},
		{http.StatusConflict, CodeConflict, http.StatusConflict},
		{http.StatusServiceUnavailable, CodeUpstream, http.StatusBadGateway},
	}
	for _, tc := range cases {
		derr := ToDomainError(NewUpstreamError(tc.status, "", nil))
		assert.Equal(t, tc.code, derr.Code, tc.status)
		assert.Equal(t, tc.httpStatus, derr.HTTPStatus, tc.status)
		assert.NotEmpty(t, derr.Message)
	}
}

func TestHasCodeSeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("load dashboard: %w", NewSessionRejected())

	assert.True(t, HasCode(err, CodeSessionRejected))
	assert.False(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(errors.New("plain"), CodeInternal))
}

func TestToDomainErrorDefaultsToInternal(t *testing.T) {
	derr := ToDomainError(errors.New("boom"))

	assert.Equal(t, CodeInternal, derr.Code)
	assert.Equal(t, http.StatusInternalServerError, derr.HTTPStatus)
	assert.Nil(t, ToDomainError(nil))
}
