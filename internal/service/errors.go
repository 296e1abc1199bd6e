package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/groupcal/internal/apperr"
)

// connectError maps a domain error onto a Connect status code.
func connectError(err error) error {
	var ce *connect.Error
	if errors.As(err, &ce) {
		return ce
	}
	switch apperr.KindOf(err) {
	case apperr.Validation:
		return connect.NewError(connect.CodeInvalidArgument, err)
	case apperr.NotFound:
		return connect.NewError(connect.CodeNotFound, err)
	case apperr.Conflict:
		return connect.NewError(connect.CodeAlreadyExists, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// userOrCaller returns uid, falling back to the authenticated caller.
func userOrCaller(uid, caller string) (string, error) {
	if uid != "" {
		return uid, nil
	}
	if caller == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errors.New("no user in request or session"))
	}
	return caller, nil
}
