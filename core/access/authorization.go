/*
Package access resolves API keys to users.

The todo app does not manage accounts itself. Every request carries an API
key in its body, which is handed to an external authentication service
implementing AuthService.
*/
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/relabs-tech/todoapp/core/api"
	"github.com/relabs-tech/todoapp/core/logger"
)

// AuthError is an error reported by the authentication service
type AuthError string

func (e AuthError) Error() string {
	return string(e)
}

// all errors the authentication service reports
const (
	AuthErrAPIKeyNonexistent   AuthError = "API_KEY_NONEXISTENT"
	AuthErrAPIKeyUnauthorized  AuthError = "API_KEY_UNAUTHORIZED"
	AuthErrInternalServerError AuthError = "INTERNAL_SERVER_ERROR"
	AuthErrMethodNotAllowed    AuthError = "METHOD_NOT_ALLOWED"
	AuthErrBadRequest          AuthError = "BAD_REQUEST"
	AuthErrNetwork             AuthError = "NETWORK"
)

// AuthService resolves an API key to the user owning it. Failures are
// reported as AuthError, possibly wrapped.
type AuthService interface {
	UserByAPIKey(ctx context.Context, apiKey string) (api.User, error)
}

// Authenticate resolves apiKey with svc. Errors are mapped to the error kinds
// of the API: invalid keys become api.ErrUnauthorized, failures of the
// authentication service are logged and become api.ErrInternalServerError.
func Authenticate(ctx context.Context, svc AuthService, apiKey string) (api.User, error) {
	user, err := svc.UserByAPIKey(ctx, apiKey)
	if err == nil {
		return user, nil
	}

	var authErr AuthError
	if !errors.As(err, &authErr) {
		logger.LogEvent(ctx, logger.Event{
			Msg:      fmt.Sprintf("unexpected authentication failure: %v", err),
			Source:   "access",
			Severity: logger.SeverityError,
		})
		return api.User{}, api.ErrUnknown
	}

	switch authErr {
	case AuthErrAPIKeyNonexistent, AuthErrAPIKeyUnauthorized:
		return api.User{}, api.ErrUnauthorized
	case AuthErrInternalServerError, AuthErrMethodNotAllowed, AuthErrBadRequest, AuthErrNetwork:
		logger.LogEvent(ctx, logger.Event{
			Msg:      fmt.Sprintf("authentication service failed: %v", err),
			Source:   "access",
			Severity: logger.SeverityError,
		})
		return api.User{}, api.ErrInternalServerError
	default:
		return api.User{}, api.ErrUnknown
	}
}
