package store

import "errors"

var (
	ErrValidation     = errors.New("validation error")
	ErrDuplicateID    = errors.New("duplicate booking id")
	ErrInvalidRoom    = errors.New("room is not on the hotel roster")
	ErrRoomOccupied   = errors.New("room is occupied during the given period")
	ErrInvalidStay    = errors.New("departure must be after arrival")
	ErrInvalidService = errors.New("invalid service schedule")
	ErrNotFound       = errors.New("booking not found")
)
