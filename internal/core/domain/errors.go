package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("access forbidden")

	ErrUserNotFound  = errors.New("user not found")
	ErrFrameNotFound = errors.New("frame not found")
	ErrTileNotFound  = errors.New("tile not found")

	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidState is the base class for operations that are not valid in
	// the frame's current lifecycle state. Match with errors.Is.
	ErrInvalidState   = errors.New("invalid frame state")
	ErrFramePending   = fmt.Errorf("%w: cannot place tiles on pending frames", ErrInvalidState)
	ErrAlreadyPending = fmt.Errorf("%w: frame is already pending approval", ErrInvalidState)

	ErrPositionOccupied = errors.New("position already occupied")
	ErrNotAdjacent      = errors.New("tile is not adjacent to the frame")
	ErrBudgetExceeded   = errors.New("insufficient approved time to place another tile")

	ErrInvalidToken = errors.New("invalid or expired authorship token")

	// ErrUpstream marks failures of external collaborators (time tracking,
	// review tracker). Never retried here; callers may.
	ErrUpstream = errors.New("upstream request failed")

	// ErrIntegrity means a related entity the store guarantees to exist is
	// missing. This is corruption, not a user error, and is logged loudly at
	// the boundary.
	ErrIntegrity = errors.New("store integrity fault")
)
