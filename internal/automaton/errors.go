package automaton

import "errors"

var (
	// ErrWidthTooSmall is returned for rows narrower than MinWidth.
	ErrWidthTooSmall = errors.New("width too small")
	// ErrNoRule is returned when a run is started without a rule table.
	ErrNoRule = errors.New("no rule table")
	// ErrNoBitSource is returned when a row is computed without a boundary source.
	ErrNoBitSource = errors.New("no boundary bit source")
	// ErrNotStarted is returned when a history is advanced before Start.
	ErrNotStarted = errors.New("history not started")
	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid config")
)
