package user

import "errors"

// ErrPlateAlreadyInUse is returned when another driver registered the same plate.
var ErrPlateAlreadyInUse = errors.New("plate number is already registered to another account")

// ErrMissingToken is returned when an empty FCM token is registered.
var ErrMissingToken = errors.New("fcm token is required")

// ErrMissingPlate is returned when the plate number is blank.
var ErrMissingPlate = errors.New("plate number is required")
