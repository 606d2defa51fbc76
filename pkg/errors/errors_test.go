package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{CodeInvalidParam, http.StatusBadRequest},
		{CodeContentBlocked, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeMethodNotAllowed, http.StatusMethodNotAllowed},
		{CodeTooManyRequests, http.StatusTooManyRequests},
		{CodeConfigurationError, http.StatusInternalServerError},
		{CodeModelSpecNotFound, http.StatusInternalServerError},
		{CodeEmptyResponse, http.StatusInternalServerError},
		{CodeMalformedResponse, http.StatusInternalServerError},
		{CodeUpstreamTimeout, http.StatusGatewayTimeout},
		{CodeUpstreamUnavailable, http.StatusServiceUnavailable},
		{CodeLLMProviderError, http.StatusBadGateway},
		{CodeUnknown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.code, "x").HTTPStatus)
		})
	}
}

func TestAsAppErrorUnwrapsChain(t *testing.T) {
	base := ErrUpstreamTimeout.WithError(stderrors.New("deadline"))
	wrapped := fmt.Errorf("enhance: %w", base)

	got := AsAppError(wrapped)
	assert.Equal(t, CodeUpstreamTimeout, got.Code)
	assert.True(t, IsAppError(wrapped))
}

func TestAsAppErrorFallsBackToUnknown(t *testing.T) {
	got := AsAppError(stderrors.New("plain"))
	assert.Equal(t, CodeUnknown, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.HTTPStatus)
	assert.False(t, IsAppError(stderrors.New("plain")))
}

func TestWithDetailDoesNotMutatePredefined(t *testing.T) {
	e := ErrInvalidParam.WithDetail("mode missing")
	assert.Equal(t, "mode missing", e.Detail)
	assert.Empty(t, ErrInvalidParam.Detail)
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "[1001] Missing or empty userPrompt", ErrMissingUserPrompt.Error())
	e := Wrap(stderrors.New("refused"), CodeUpstreamUnavailable, "AI service unavailable")
	assert.Equal(t, "[5007] AI service unavailable: refused", e.Error())
	assert.ErrorContains(t, stderrors.Unwrap(e), "refused")
}
