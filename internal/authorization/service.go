package authorization

import (
	"context"
	"errors"
)

var (
	ErrInvalidOffice = errors.New("invalid_office")
	ErrInvalidObject = errors.New("invalid_object")
	ErrInvalidAction = errors.New("invalid_action")
	ErrForbidden     = errors.New("forbidden")
)

// Service answers whether an office may perform an action on an object.
type Service interface {
	Authorize(ctx context.Context, office string, object string, action string) error
}
