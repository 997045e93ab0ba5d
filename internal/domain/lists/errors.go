package lists

import "errors"

var ErrListNotFound = errors.New("list not found")
