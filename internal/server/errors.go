package server

import (
	"errors"
	"fmt"

	"git.appkode.ru/pub/go/failure"

	"mystic_market/internal/domain"
	"mystic_market/pkg/errcodes"
)

// serviceError converts a domain error into a failure kind understood by
// reply.Error. Errors without a client-facing code stay internal.
func serviceError(op string, err error) error {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch appErr.Code {
	case errcodes.InternalServerError:
		return fmt.Errorf("%s: %w", op, err)
	case errcodes.SessionNotFound:
		return failure.NewNotFoundError(
			fmt.Errorf("%s: %w", op, err).Error(),
			failure.WithCode(appErr.Code),
			failure.WithDescription(appErr.Message),
		)
	default:
		return failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("%s: %w", op, err),
			failure.WithCode(appErr.Code),
			failure.WithDescription(appErr.Message),
		)
	}
}

func invalidArgument(code failure.ErrorCode, description string, err error) error {
	return failure.NewInvalidArgumentErrorFromError(
		err,
		failure.WithCode(code),
		failure.WithDescription(description),
	)
}
