package actions

import (
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/backoffice/internal/auth"
	"github.com/gosuda/backoffice/internal/domain"
	"github.com/gosuda/backoffice/internal/metrics"
)

// User-facing messages.
const (
	MsgUnauthorized       = "Accès non autorisé"
	MsgInvalidPrefix      = "Données invalides: "
	MsgNotFound           = "Ressource introuvable"
	MsgConflict           = "Action impossible dans l'état actuel"
	MsgInvalidCredentials = "Identifiants invalides"
	MsgBackend            = "Une erreur est survenue"
)

// Kind classifies an action outcome for the transport layer.
type Kind string

const (
	KindOK              Kind = "ok"
	KindUnauthenticated Kind = "unauthenticated"
	KindUnauthorized    Kind = "unauthorized"
	KindValidation      Kind = "validation"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindBackend         Kind = "backend"
)

// Identity is the resolved caller of an action.
type Identity struct {
	UserID   uuid.UUID
	UserType domain.UserType
}

// IsAdmin reports whether the identity may use the back-office. A nil
// identity is not an admin.
func (id *Identity) IsAdmin() bool {
	return id != nil && id.UserID != uuid.Nil && id.UserType == domain.UserTypeAdmin
}

// Result is the uniform envelope returned by every action.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Kind    Kind   `json:"-"`
}

func ok[T any](name string, v T) Result[T] {
	metrics.AdminActionsTotal.WithLabelValues(name, string(KindOK)).Inc()
	return Result[T]{Success: true, Data: v, Kind: KindOK}
}

func denied[T any](name string) Result[T] {
	metrics.AdminActionsTotal.WithLabelValues(name, string(KindUnauthorized)).Inc()
	return Result[T]{Error: MsgUnauthorized, Kind: KindUnauthorized}
}

// invalid reports a validation failure detected before any storage access.
func invalid[T any](name, field, reason string) Result[T] {
	return fail[T](name, domain.Invalid(field, reason))
}

// fail maps err to its user-facing result. Backend failures are logged here
// and reported with a generic message only.
func fail[T any](name string, err error) Result[T] {
	var r Result[T]
	var verr *domain.ValidationError

	switch {
	case errors.As(err, &verr):
		r.Kind = KindValidation
		if verr.Field == "" {
			r.Error = MsgInvalidPrefix + verr.Reason
		} else {
			r.Error = MsgInvalidPrefix + verr.Field + ": " + verr.Reason
		}
	case errors.Is(err, domain.ErrNotFound):
		r.Kind, r.Error = KindNotFound, MsgNotFound
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrConflict):
		r.Kind, r.Error = KindConflict, MsgConflict
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		r.Kind, r.Error = KindUnauthenticated, MsgInvalidCredentials
	case errors.Is(err, auth.ErrNotAdmin), errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrUnauthorized):
		r.Kind, r.Error = KindUnauthorized, MsgUnauthorized
	default:
		r.Kind, r.Error = KindBackend, MsgBackend
		log.Error().Err(err).Str("action", name).Msg("actions: backend failure")
	}

	metrics.AdminActionsTotal.WithLabelValues(name, string(r.Kind)).Inc()
	return r
}

// gated runs fn for admins only. Non-admin callers get the unauthorized
// result before fn, and so before any storage access.
func gated[T any](name string, id *Identity, fn func() (T, error)) Result[T] {
	if !id.IsAdmin() {
		return denied[T](name)
	}
	v, err := fn()
	if err != nil {
		return fail[T](name, err)
	}
	return ok(name, v)
}

// Failed reports err for name after the admin gate. Callers use it for
// input they could not decode before reaching the action itself.
func Failed[T any](name string, id *Identity, err error) Result[T] {
	return gated(name, id, func() (T, error) {
		var zero T
		return zero, err
	})
}
