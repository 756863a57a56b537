package apperr

import (
	"context"
	"errors"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/ethiq/pkg/domain/model"
)

// IsClientError reports whether err is caused by the request rather than by the application
func IsClientError(err error) bool {
	return errors.Is(err, model.ErrNotFound) ||
		errors.Is(err, model.ErrIllegalTransition) ||
		errors.Is(err, model.ErrInvalidFilter) ||
		errors.Is(err, model.ErrInvalidCatalog)
}

// Handle logs an error. Errors caused by the request are logged at warn level.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	logger := ctxlog.From(ctx)
	if IsClientError(err) {
		logger.Warn("request rejected", "error", err)
		return
	}
	logger.Error("application error", "error", err)
}
