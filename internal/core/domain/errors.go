package domain

import "errors"

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRemote             = errors.New("remote call failed")
	ErrNotFound           = errors.New("not found")
	ErrEmptyKeyword       = errors.New("search keyword is empty")
	ErrInvalidPage        = errors.New("invalid page number")
	ErrDuplicateSubmit    = errors.New("mutation already in progress")
)

// ValidationError reports an input rejected before any remote call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

const (
	MsgInvalidEmail     = "Invalid email address"
	MsgPasswordRequired = "Password is required"
)
