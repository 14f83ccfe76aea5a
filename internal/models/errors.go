package models

import "errors"

// Custom errors
var (
	ErrNotFound              = errors.New("record not found")
	ErrUnknownRoadType       = errors.New("unknown road type")
	ErrUnknownPosition       = errors.New("unknown position")
	ErrUnknownSegment        = errors.New("unknown segment")
	ErrUnknownVehicle        = errors.New("unknown vehicle")
	ErrMissingReferenceSpeed = errors.New("missing reference speed")
	ErrInsufficientHistory   = errors.New("insufficient history for accuracy evaluation")
	ErrInvalidWinner         = errors.New("actual winner is not one of the race vehicles")
)
