package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// PlanRequest is the JSON payload asking for one schedule to be planned.
type PlanRequest struct {
	ID    string       `json:"id,omitempty"`
	Rains RainSchedule `json:"rains"`
}

// PlanEvent is the published result of planning one schedule.
type PlanEvent struct {
	ID        string         `json:"id"`
	Outcome   string         `json:"outcome"` // "feasible", "infeasible", "empty"
	Days      int            `json:"days"`
	DryDays   int            `json:"dry_days"`
	Emptied   int            `json:"emptied"`
	Actions   ActionSchedule `json:"actions"`
	FloodDay  *int           `json:"flood_day,omitempty"`
	FloodLake *int           `json:"flood_lake,omitempty"`

	PlannedAt time.Time `json:"planned_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
