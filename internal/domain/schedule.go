package domain

const (
	// DryDay marks a day without rain in a RainSchedule.
	DryDay = 0

	// NoAction marks a day on which no lake is emptied.
	NoAction = -1

	// PlaceholderLake is assigned to dry days that do not need to empty anything.
	PlaceholderLake = 1
)

// RainSchedule lists, per day, the lake that receives rain or DryDay.
type RainSchedule []int

// ActionSchedule lists, per day, the lake emptied that day or NoAction.
type ActionSchedule []int

// DryDays counts the days without rain.
func (r RainSchedule) DryDays() int {
	n := 0
	for _, lake := range r {
		if lake == DryDay {
			n++
		}
	}
	return n
}

// Outcome classifies a planning result.
type Outcome int

const (
	// OutcomeFeasible means every lake can be kept from flooding.
	OutcomeFeasible Outcome = iota
	// OutcomeInfeasible means some lake floods whatever is emptied.
	OutcomeInfeasible
	// OutcomeEmptyInput means the schedule had no days.
	OutcomeEmptyInput
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFeasible:
		return "feasible"
	case OutcomeInfeasible:
		return "infeasible"
	case OutcomeEmptyInput:
		return "empty"
	default:
		return "unknown"
	}
}

// Result is the tagged outcome of planning one schedule.
type Result struct {
	Outcome Outcome

	// Actions has one entry per day when feasible and is empty otherwise.
	Actions ActionSchedule

	// FloodDay and FloodLake locate the first unavoidable flood; both are -1
	// unless Outcome is OutcomeInfeasible.
	FloodDay  int
	FloodLake int

	// Emptied counts the dry days spent emptying a full lake.
	Emptied int
}

// Feasible reports whether the result carries a usable plan.
func (r Result) Feasible() bool {
	return r.Outcome == OutcomeFeasible
}
