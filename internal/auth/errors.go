package auth

import "errors"

var (
	ErrInvalidCredential = errors.New("could not validate credentials")
	ErrUnknownPrincipal  = errors.New("user not found")
)
