package analysis

import (
	"context"
	stdErrors "errors"
	"net/http"
	"time"

	"github.com/canton09/aisales/errors"
	"github.com/canton09/aisales/internal/domain/entities"
	"github.com/canton09/aisales/pkg/ai"
)

// mapProviderError turns a provider failure into the AppError shown to the user
func mapProviderError(ctx context.Context, provider entities.Provider, viaProxy bool, budget time.Duration, err error) error {
	name := provider.DisplayName()

	if stdErrors.Is(err, context.DeadlineExceeded) || stdErrors.Is(err, context.Canceled) || ctx.Err() != nil {
		return errors.ErrAnalysisTimeout(budget, err)
	}
	if stdErrors.Is(err, ai.ErrEmptyContent) {
		return errors.ErrEmptyModelOutput(name, err)
	}
	if stdErrors.Is(err, ai.ErrMissingGeminiKey) {
		return errors.ErrMissingAPIKey(name)
	}

	var se *ai.StatusError
	if stdErrors.As(err, &se) {
		switch se.StatusCode {
		case http.StatusPaymentRequired:
			return errors.ErrInsufficientBalance(name, err)
		case http.StatusTooManyRequests:
			return errors.ErrRateLimited(name, err)
		case http.StatusServiceUnavailable:
			return errors.ErrProviderBusy(name, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return errors.ErrProviderUnauthorized(name, err)
		case http.StatusNotFound:
			if viaProxy {
				return errors.ErrProxyRouteMissing(err)
			}
		case http.StatusGatewayTimeout:
			return errors.ErrAnalysisTimeout(budget, err)
		}
		return errors.ErrUpstreamStatus(name, se.StatusCode, se.Message, err)
	}

	return errors.ErrUpstreamUnreachable(name, err)
}

// mapDecodeError classifies decoder failures. All of them mean the reply was unusable.
func mapDecodeError(provider entities.Provider, err error) error {
	return errors.ErrMalformedModelOutput(provider.DisplayName(), err)
}
