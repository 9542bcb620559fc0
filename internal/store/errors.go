package store

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrSlotFull      = errors.New("slot full")
	ErrAlreadyBooked = errors.New("interview already booked")
)
