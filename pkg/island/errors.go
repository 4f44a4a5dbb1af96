package island

import "errors"

var (
	ErrUninitialized      = errors.New("island not initialized")
	ErrNoGround           = errors.New("no ground below position")
	ErrManagerFull        = errors.New("island manager at capacity")
	ErrPlacementExhausted = errors.New("no free position found, placed at origin")
)
