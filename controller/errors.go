package controller

import "errors"

// Failure classes of a session. Only ErrMalformedInput is recoverable; the
// rest end the session after the renderer has been torn down.
var (
	ErrMalformedInput = errors.New("malformed input")
	ErrSpawn          = errors.New("renderer spawn failed")
	ErrPipeWrite      = errors.New("renderer pipe write failed")
	ErrFileIO         = errors.New("data file i/o failed")
	ErrTerminated     = errors.New("renderer already terminated")
)
