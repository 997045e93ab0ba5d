package family

import "errors"

var (
	ErrFamilyNotFound       = errors.New("family not found")
	ErrInviteCodeNotFound   = errors.New("invite code not found")
	ErrAlreadyHasFamily     = errors.New("user already has a family")
	ErrDuplicateAdmin       = errors.New("family already has this admin")
	ErrFamilyCreationFailed = errors.New("family creation failed")
)
