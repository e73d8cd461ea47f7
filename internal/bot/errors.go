package bot

import "errors"

var (
	ErrEmptyBody         = errors.New("empty request body")
	ErrMalformedJSON     = errors.New("malformed json")
	ErrUnrecognizedEvent = errors.New("unrecognized update event")
	ErrUserNotFound      = errors.New("user not found")
	ErrAccessDenied      = errors.New("access denied")
	ErrStoreWrite        = errors.New("store write failure")
	ErrProvider          = errors.New("completion provider failure")
)
