package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-data-gateway/internal/engine"
	"github.com/MKhiriev/go-data-gateway/internal/service"
	"github.com/MKhiriev/go-data-gateway/internal/store"
	"github.com/MKhiriev/go-data-gateway/models"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:          http.StatusBadRequest,
	service.ErrWrongPassword:                http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid:      http.StatusUnauthorized,
	service.ErrUnauthenticated:              http.StatusUnauthorized,
	service.ErrInvalidCredential:            http.StatusUnauthorized,
	service.ErrForbidden:                    http.StatusForbidden,
	service.ErrKeyManagementRequiresSession: http.StatusForbidden,
	service.ErrRecordNotFound:               http.StatusNotFound,
	service.ErrRateLimited:                  http.StatusTooManyRequests,

	engine.ErrUnknownOperator:   http.StatusBadRequest,
	engine.ErrInvalidPagination: http.StatusBadRequest,

	store.ErrLoginAlreadyExists: http.StatusConflict,
	store.ErrDuplicateID:        http.StatusConflict,
	store.ErrUserNotFound:       http.StatusNotFound,
	store.ErrCollectionNotFound: http.StatusNotFound,
	store.ErrTableNotFound:      http.StatusNotFound,
	store.ErrAPIKeyNotFound:     http.StatusNotFound,
	store.ErrWebhookNotFound:    http.StatusNotFound,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
	store.ErrEncodingJSON:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// wrapUnauthenticated attaches the 401 sentinel to a credential parsing
// error so statusFromError maps it correctly.
func wrapUnauthenticated(err error) error {
	return fmt.Errorf("%w: %w", service.ErrUnauthenticated, err)
}

// forbiddenScope builds the 403 error for a missing permission scope.
func forbiddenScope(scope models.Scope) error {
	return fmt.Errorf("%w: requires scope %q", service.ErrForbidden, scope)
}

// errorCode translates an HTTP status into the machine-readable code carried
// in the error envelope.
func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "VALIDATION_ERROR"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	default:
		return "INTERNAL_ERROR"
	}
}
