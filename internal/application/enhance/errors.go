package enhance

import (
	"context"
	"errors"

	"jenga-prompts-api/internal/infrastructure/llm"
	"jenga-prompts-api/internal/workflow/modelspec"
	"jenga-prompts-api/internal/workflow/strategy"
	apperrors "jenga-prompts-api/pkg/errors"
)

// toAppError 将工作流与提供商错误映射为对外错误码
func toAppError(err error) error {
	if err == nil {
		return nil
	}
	if apperrors.IsAppError(err) {
		return err
	}

	var blocked *llm.BlockedError
	var provider *llm.ProviderError
	switch {
	case errors.As(err, &blocked):
		return apperrors.New(apperrors.CodeContentBlocked, blocked.Error()).WithError(err)
	case errors.Is(err, llm.ErrEmptyResponse):
		return apperrors.ErrEmptyResponse.WithError(err)
	case errors.Is(err, llm.ErrMalformedResponse):
		return apperrors.ErrMalformedResponse.WithError(err)
	case errors.Is(err, llm.ErrUpstreamTimeout):
		return apperrors.ErrUpstreamTimeout.WithError(err)
	case errors.Is(err, llm.ErrUpstreamUnavailable):
		return apperrors.ErrUpstreamDown.WithError(err)
	case errors.Is(err, llm.ErrMissingAPIKey):
		return apperrors.ErrMissingAPIKey.WithError(err)
	case errors.Is(err, modelspec.ErrSpecNotFound), errors.Is(err, strategy.ErrUnknownModel):
		return apperrors.ErrSpecNotFound.WithDetail(err.Error()).WithError(err)
	case errors.As(err, &provider):
		return apperrors.ErrLLMProvider.WithDetail(provider.Error()).WithError(err)
	case errors.Is(err, context.Canceled):
		return apperrors.Wrap(err, apperrors.CodeInternalError, "request canceled")
	default:
		return apperrors.ErrInternalError.WithError(err)
	}
}
