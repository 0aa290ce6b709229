package session

import "errors"

var (
	// ErrSessionAlreadyOpen is returned when opening a session while parked.
	ErrSessionAlreadyOpen = errors.New("already parked: a parking session is still active")
	// ErrNoOpenSession is returned when closing with nothing open.
	ErrNoOpenSession = errors.New("no open parking session to close")
	// ErrEventStillOpen is returned when deleting or rating an open session.
	ErrEventStillOpen = errors.New("cannot delete open session")
	// ErrNothingToRate is returned when rating with no closed session.
	ErrNothingToRate = errors.New("no closed parking session to rate")
	// ErrAlreadyRated is returned when the last session already carries feedback.
	ErrAlreadyRated = errors.New("parking session already rated")
	// ErrInvalidRating is returned for ratings outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrVehicleNotRegistered is returned when opening without a registered vehicle.
	ErrVehicleNotRegistered = errors.New("register a vehicle before reserving a slot")
)
