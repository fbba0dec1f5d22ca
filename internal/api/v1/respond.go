package v1

import (
	"net/http"

	"github.com/gosuda/backoffice/internal/actions"
)

// Response carries an action envelope with the status code derived from its
// outcome.
type Response[T any] struct {
	Status int
	Body   actions.Result[T]
}

// StatusFor maps an action outcome to its HTTP status.
func StatusFor(k actions.Kind) int {
	switch k {
	case actions.KindOK:
		return http.StatusOK
	case actions.KindValidation:
		return http.StatusBadRequest
	case actions.KindUnauthenticated:
		return http.StatusUnauthorized
	case actions.KindUnauthorized:
		return http.StatusForbidden
	case actions.KindNotFound:
		return http.StatusNotFound
	case actions.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respond[T any](r actions.Result[T]) (*Response[T], error) {
	return &Response[T]{Status: StatusFor(r.Kind), Body: r}, nil
}
