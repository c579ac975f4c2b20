package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMissingRains is returned for requests without a rains array.
var ErrMissingRains = errors.New("request has no rains")

// ParseRequest decodes a RawEvent's value into a PlanRequest. Requests
// without an id are assigned one derived from the schedule.
func ParseRequest(raw RawEvent) (PlanRequest, error) {
	var req PlanRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return PlanRequest{}, fmt.Errorf("parse plan request: %w", err)
	}
	if req.Rains == nil {
		return PlanRequest{}, ErrMissingRains
	}
	if req.ID == "" {
		req.ID = generateID(req.Rains)
	}
	return req, nil
}

// ScheduleKey returns the SHA-256 hex digest of the schedule. Equal schedules
// always share a key.
func ScheduleKey(rains RainSchedule) string {
	var b strings.Builder
	b.Grow(len(rains) * 3)
	for i, lake := range rains {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(lake))
	}
	hash := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(hash[:])
}

func generateID(rains RainSchedule) string {
	return "plan-" + ScheduleKey(rains)[:16]
}

// NewPlanEvent builds the publishable event for a planned schedule.
func NewPlanEvent(id string, rains RainSchedule, result Result) PlanEvent {
	event := PlanEvent{
		ID:        id,
		Outcome:   result.Outcome.String(),
		Days:      len(rains),
		DryDays:   rains.DryDays(),
		Emptied:   result.Emptied,
		Actions:   result.Actions,
		PlannedAt: clock.Now().UTC(),
	}
	if event.Actions == nil {
		event.Actions = ActionSchedule{}
	}
	if result.Outcome == OutcomeInfeasible {
		day, lake := result.FloodDay, result.FloodLake
		event.FloodDay = &day
		event.FloodLake = &lake
	}
	return event
}

// SerializePlanEvent marshals a PlanEvent into an OutputEvent keyed by its id.
func SerializePlanEvent(event PlanEvent) (OutputEvent, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize plan event: %w", err)
	}
	return OutputEvent{
		Key:   []byte(event.ID),
		Value: data,
		Headers: map[string]string{
			"outcome":    event.Outcome,
			"planned_at": event.PlannedAt.Format(time.RFC3339),
		},
	}, nil
}
