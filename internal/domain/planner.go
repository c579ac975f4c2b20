package domain

import "context"

// Planner produces a plan for one rain schedule.
type Planner interface {
	Plan(ctx context.Context, rains RainSchedule) (Result, error)
}

// GreedyPlanner implements Planner with PlanSchedule.
type GreedyPlanner struct{}

func (GreedyPlanner) Plan(_ context.Context, rains RainSchedule) (Result, error) {
	return PlanSchedule(rains)
}
