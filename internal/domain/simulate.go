package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrLengthMismatch is returned when a plan and its schedule differ in length.
	ErrLengthMismatch = errors.New("action schedule length does not match rain schedule")

	// ErrInvalidAction is returned for an action that cannot happen on its day.
	ErrInvalidAction = errors.New("invalid action")
)

// FloodError reports a lake receiving rain while full.
type FloodError struct {
	Day  int
	Lake int
}

func (e *FloodError) Error() string {
	return fmt.Sprintf("lake %d floods on day %d", e.Lake, e.Day)
}

// Simulate replays actions against rains and returns the first violation:
// a *FloodError when a full lake receives rain, ErrInvalidAction when a rainy
// day carries an action or a dry day carries 0 or a negative id other than
// NoAction, ErrLengthMismatch when the lengths differ.
func Simulate(rains RainSchedule, actions ActionSchedule) error {
	if len(rains) != len(actions) {
		return fmt.Errorf("%w: %d days, %d actions", ErrLengthMismatch, len(rains), len(actions))
	}

	full := make(map[int]bool)
	for day, lake := range rains {
		action := actions[day]

		switch {
		case lake < 0:
			return fmt.Errorf("%w: day %d has lake %d", ErrNegativeLake, day, lake)
		case lake == DryDay:
			if action == NoAction {
				continue
			}
			if action <= 0 {
				return fmt.Errorf("%w: day %d empties lake %d", ErrInvalidAction, day, action)
			}
			delete(full, action)
		default:
			if action != NoAction {
				return fmt.Errorf("%w: day %d is rainy but empties lake %d", ErrInvalidAction, day, action)
			}
			if full[lake] {
				return &FloodError{Day: day, Lake: lake}
			}
			full[lake] = true
		}
	}
	return nil
}
