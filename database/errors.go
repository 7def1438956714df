package database

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/kbukum/articles/errors"
)

var connectionErrorPatterns = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"i/o timeout",
	"no route to host",
	"network is unreachable",
	"connection closed",
	"driver: bad connection",
	"invalid connection",
	"database is closed",
}

// IsConnectionError reports whether err looks like a lost or refused
// connection rather than a failed statement.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range connectionErrorPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// FromDatabase converts a GORM or driver error to an AppError.
func FromDatabase(err error, resource string) *apperrors.AppError {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(resource, "").WithCause(err)
	}
	if IsConnectionError(err) {
		return apperrors.New(apperrors.ErrCodeDatabaseError, "Database is temporarily unavailable. Please try again.",
			http.StatusServiceUnavailable).WithCause(err)
	}
	return apperrors.DatabaseError(err)
}
