package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeValidationFailed, http.StatusBadRequest},
		{ErrCodeCaptchaFailed, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeCallAlreadyScheduled, http.StatusConflict},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeConfigurationMissing, http.StatusInternalServerError},
		{ErrCodeDatabaseInsertFailed, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestCategory(t *testing.T) {
	assert.Equal(t, CategoryConfiguration, Category(ErrCodeConfigurationMissing))
	assert.Equal(t, CategoryAuthorization, Category(ErrCodeUnauthorized))
	assert.Equal(t, CategoryRemote, Category(ErrCodeDirectoryRequestFailed))
	assert.Equal(t, CategoryRemote, Category(ErrCodeNotificationSendFailed))
	assert.Equal(t, CategoryConflict, Category(ErrCodeCallAlreadyScheduled))
	assert.Equal(t, CategoryValidation, Category(ErrCodeValidationFailed))
	assert.Equal(t, CategoryOther, Category(ErrCodeInternal))
}

func TestAsStandardError_UnwrapsChain(t *testing.T) {
	root := stderrors.New("connection reset")
	stdErr := NewDirectoryRequestFailedError("search", root)
	wrapped := fmt.Errorf("stage 2: %w", stdErr)

	got := AsStandardError(wrapped)
	require.Same(t, stdErr, got)
	assert.True(t, stderrors.Is(got, root))
	assert.Equal(t, "connection reset", got.Details)
}

func TestAsStandardError_WrapsUnknown(t *testing.T) {
	got := AsStandardError(stderrors.New("boom"))
	assert.Equal(t, ErrCodeInternal, got.Code)
	assert.Equal(t, "boom", got.Details)
}

func TestConvertToBPMNError(t *testing.T) {
	retryable := ConvertToBPMNError(NewDirectoryRequestFailedError("search", stderrors.New("503")))
	assert.Equal(t, "DIRECTORY_REQUEST_FAILED", retryable.Code)
	assert.Equal(t, 3, retryable.Retries)
	assert.Equal(t, CategoryRemote, retryable.ToErrorVariables()["errorCategory"])

	terminal := ConvertToBPMNError(NewConfigurationMissingError("HUBSPOT_ACCESS_TOKEN"))
	assert.Equal(t, 0, terminal.Retries)
	assert.False(t, terminal.Retryable)
	assert.Equal(t, "HUBSPOT_ACCESS_TOKEN is not configured", terminal.ToErrorVariables()["errorMessage"])
}

func TestCallAlreadyScheduledMetadata(t *testing.T) {
	err := NewCallAlreadyScheduledError("a@b.co")
	assert.Equal(t, "a@b.co", err.Metadata["email"])
	assert.Equal(t, http.StatusConflict, HTTPStatus(err.Code))
}
