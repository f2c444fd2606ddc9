package model

import "errors"

// ErrInsufficientPopulation is returned when an event has fewer than two
// eligible attendees.
var ErrInsufficientPopulation = errors.New("Need at least 2 completed attendees with responses to generate matches")
