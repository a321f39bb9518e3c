package domain

import "errors"

var (
	ErrEmailRequired = errors.New("email is required")
	ErrUserNotFound  = errors.New("user not found")
	ErrNotImage      = errors.New("file is not an image")
	ErrNotLoggedIn   = errors.New("not logged in")
	// ErrRejected is returned when the server answers success:false.
	ErrRejected = errors.New("rejected by server")
)
