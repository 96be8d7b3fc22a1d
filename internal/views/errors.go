package views

import "errors"

var ErrInvalidPostID = errors.New("invalid post id")
