package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{name: "network error type", errType: ErrTypeNetwork, expected: "NETWORK"},
		{name: "parsing error type", errType: ErrTypeParsing, expected: "PARSING"},
		{name: "storage error type", errType: ErrTypeStorage, expected: "STORAGE"},
		{name: "validation error type", errType: ErrTypeValidation, expected: "VALIDATION"},
		{name: "config error type", errType: ErrTypeConfig, expected: "CONFIG"},
		{name: "upstream error type", errType: ErrTypeUpstream, expected: "UPSTREAM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeUpstream,
				Message: "bundle missing",
			},
			wantMessage: "[UPSTREAM] bundle missing",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeNetwork,
				Message: "download failed",
				Cause:   fmt.Errorf("connection refused"),
			},
			wantMessage: "[NETWORK] download failed: connection refused",
		},
		{
			name: "error with empty message",
			appError: &AppError{
				Type: ErrTypeValidation,
			},
			wantMessage: "[VALIDATION] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("zip: not a valid zip file")
	err := NewParsingError("extract archive", cause)

	assert.Same(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
	assert.Nil(t, NewValidationError("table", nil).Unwrap())
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrTypeStorage, Message: "write failed"}

	got := err.WithContext("path", "out/cafef.zip").WithContext("attempt", 2)

	assert.Same(t, err, got)
	assert.Equal(t, "out/cafef.zip", err.Context["path"])
	assert.Equal(t, 2, err.Context["attempt"])
}

func TestHelpers(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantMsg  string
	}{
		{name: "network", err: NewNetworkError("head request", cause), wantType: ErrTypeNetwork, wantMsg: "head request"},
		{name: "parsing", err: NewParsingError("bad token", cause), wantType: ErrTypeParsing, wantMsg: "bad token"},
		{name: "storage", err: NewStorageError("rename", cause), wantType: ErrTypeStorage, wantMsg: "rename"},
		{name: "validation", err: NewValidationError("lookback", nil), wantType: ErrTypeValidation, wantMsg: "lookback"},
		{name: "config", err: NewConfigError("load yaml", cause), wantType: ErrTypeConfig, wantMsg: "load yaml"},
		{name: "upstream", err: NewUpstreamError("http://cdn/x.zip", 503), wantType: ErrTypeUpstream, wantMsg: "unexpected status 503"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantMsg, tt.err.Message)
			assert.NotNil(t, tt.err.Context)
		})
	}

	up := NewUpstreamError("http://cdn/x.zip", 404)
	assert.Equal(t, 404, up.Context["status_code"])
	assert.Equal(t, "http://cdn/x.zip", up.Context["url"])
}

func TestTypeOf(t *testing.T) {
	wrapped := fmt.Errorf("fetch bundle: %w", NewNetworkError("get", errors.New("eof")))

	assert.Equal(t, ErrTypeNetwork, TypeOf(wrapped))
	assert.True(t, IsType(wrapped, ErrTypeNetwork))
	assert.False(t, IsType(wrapped, ErrTypeStorage))
	assert.Equal(t, ErrorType(""), TypeOf(errors.New("plain")))

	var appErr *AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, "get", appErr.Message)
}
