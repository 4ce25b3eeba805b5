package station

import (
	"errors"
)

var (
	// ErrSlotExhausted indicates no roster slot can be assigned.
	ErrSlotExhausted = errors.New("no free slot")
	// ErrInvalidPOM indicates a malformed program on main request.
	ErrInvalidPOM = errors.New("invalid POM command")
	// ErrInvalidCV indicates a CV number or value out of range.
	ErrInvalidCV = errors.New("invalid CV")
	// ErrNotServiceMode indicates a programming track operation outside
	// service mode.
	ErrNotServiceMode = errors.New("not in service mode")
	// ErrServiceBusy indicates a service mode operation is in progress.
	ErrServiceBusy = errors.New("service mode busy")
	// ErrEStopActive indicates the loco ignores changes while its
	// emergency stop timer runs.
	ErrEStopActive = errors.New("emergency stop active")
	// ErrEStopPending indicates the emergency stop broadcast has not
	// been sent yet.
	ErrEStopPending = errors.New("emergency stop pending")
	// ErrNoSuchLoco indicates the slot index is out of range or empty.
	ErrNoSuchLoco = errors.New("no such loco")
	// ErrInvalidFunction indicates a function number beyond F12.
	ErrInvalidFunction = errors.New("invalid function")
)
