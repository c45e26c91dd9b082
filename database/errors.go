package database

import (
	"context"
	stderrors "errors"
	"strings"

	apperrors "github.com/mitlibraries/carbon/errors"
)

// IsConnectionError checks if a database error means the warehouse could
// not be reached, as opposed to rejecting a statement.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	patterns := []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"i/o timeout",
		"no route to host",
		"network is unreachable",
		"no such host",
		"connection closed",
		"driver: bad connection",
		"invalid connection",
		"password authentication failed",
		"unable to open database file",
	}
	for _, p := range patterns {
		if strings.Contains(errStr, p) {
			return true
		}
	}
	return false
}

// FromDatabase converts a driver error raised during operation into a
// SOURCE_UNAVAILABLE AppError. Errors that already are AppErrors pass
// through unchanged.
func FromDatabase(err error, operation string) *apperrors.AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}

	appErr := apperrors.SourceUnavailable(operation, err)
	appErr.WithDetail("connection", IsConnectionError(err))
	return appErr
}
