package inventory

import "errors"

var (
	ErrUnknownLane         = errors.New("unknown lane")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrEmptyClient         = errors.New("client name is required")
	ErrInvalidDispatchMode = errors.New("dispatch mode must be RESERVED_ONLY or DIRECT")
	ErrInsufficientStock   = errors.New("not enough pallets to dispatch")
	ErrLaneOccupied        = errors.New("lane still holds pallets")
	ErrInvalidSettings     = errors.New("invalid warehouse settings")
	ErrInvalidExpiry       = errors.New("expiry must be a date like 2026-12-31")
	ErrNotSaved            = errors.New("change not saved")
)
