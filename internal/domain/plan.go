package domain

import (
	"errors"
	"fmt"
)

// ErrNegativeLake is returned for schedules containing a negative lake id.
var ErrNegativeLake = errors.New("negative lake id")

// AvoidFlood returns the action schedule for rains, or an empty slice when
// some lake must flood. An empty rains also yields an empty slice; use
// PlanSchedule to tell the two apart. Negative lake ids are not checked.
func AvoidFlood(rains []int) []int {
	return plan(rains).Actions
}

// PlanSchedule validates rains and plans which lake to empty on each dry day.
// Infeasibility is reported through Result.Outcome, not as an error.
func PlanSchedule(rains RainSchedule) (Result, error) {
	if err := validate(rains); err != nil {
		return Result{}, err
	}
	return plan(rains), nil
}

func validate(rains RainSchedule) error {
	for day, lake := range rains {
		if lake < 0 {
			return fmt.Errorf("%w: day %d has lake %d", ErrNegativeLake, day, lake)
		}
	}
	return nil
}

func plan(rains RainSchedule) Result {
	if len(rains) == 0 {
		return Result{Outcome: OutcomeEmptyInput, Actions: ActionSchedule{}, FloodDay: -1, FloodLake: -1}
	}

	actions := make(ActionSchedule, len(rains))
	fullSince := make(map[int]int) // lake -> day it last filled
	pool := newDryDayPool()
	emptied := 0

	for day, lake := range rains {
		actions[day] = NoAction
		if lake == DryDay {
			pool.Add(day)
			continue
		}

		if last, ok := fullSince[lake]; ok {
			dry, found := pool.TakeAfter(last)
			if !found {
				return Result{
					Outcome:   OutcomeInfeasible,
					Actions:   ActionSchedule{},
					FloodDay:  day,
					FloodLake: lake,
					Emptied:   emptied,
				}
			}
			actions[dry] = lake
			delete(fullSince, lake)
			emptied++
		}
		fullSince[lake] = day
	}

	for _, day := range pool.Days() {
		actions[day] = PlaceholderLake
	}

	return Result{
		Outcome:   OutcomeFeasible,
		Actions:   actions,
		FloodDay:  -1,
		FloodLake: -1,
		Emptied:   emptied,
	}
}
