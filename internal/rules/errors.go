package rules

import "errors"

var (
	// ErrUnknownRule is returned when a name is not in the registry.
	ErrUnknownRule = errors.New("unknown rule")
	// ErrMalformedNeighborhood is returned for keys outside the 8 canonical patterns.
	ErrMalformedNeighborhood = errors.New("malformed neighborhood")
	// ErrIncompleteTable is returned when a table does not define all 8 patterns.
	ErrIncompleteTable = errors.New("incomplete rule table")
	// ErrInvalidState is returned when a table maps a pattern to a state outside 0-3.
	ErrInvalidState = errors.New("invalid cell state")
)
