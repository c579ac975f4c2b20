package main

import (
	"errors"
	"slices"

	"github.com/couchcryptid/flood-planner/internal/domain"
)

func validateAll(requests []domain.PlanRequest, plans []domain.PlanEvent) []*phase {
	byID := make(map[string]domain.PlanEvent, len(plans))
	for _, p := range plans {
		byID[p.ID] = p
	}

	return []*phase{
		validateParity(requests, plans, byID),
		validateShape(requests, byID),
		validateReplay(requests, byID),
		validateOutcomes(requests, byID),
	}
}

// ── Phase 1: Fixture Parity ──
// Every request has exactly one recorded plan, and re-planning reproduces it.

func validateParity(requests []domain.PlanRequest, plans []domain.PlanEvent, byID map[string]domain.PlanEvent) *phase {
	p := &phase{name: "Phase 1: Fixture Parity (re-plan)"}

	if len(requests) != len(plans) {
		p.errorf("%d requests but %d plans", len(requests), len(plans))
	}
	if len(byID) != len(plans) {
		p.errorf("plan fixture has %d duplicate ids", len(plans)-len(byID))
	}

	for _, req := range requests {
		recorded, ok := byID[req.ID]
		if !ok {
			p.errorf("%s: no recorded plan", req.ID)
			continue
		}
		result, err := domain.PlanSchedule(req.Rains)
		if err != nil {
			p.errorf("%s: %v", req.ID, err)
			continue
		}
		if got := result.Outcome.String(); got != recorded.Outcome {
			p.errorf("%s: outcome %s, recorded %s", req.ID, got, recorded.Outcome)
		}
		if !slices.Equal(result.Actions, recorded.Actions) {
			p.errorf("%s: actions %v, recorded %v", req.ID, result.Actions, recorded.Actions)
		}
	}
	return p
}

// ── Phase 2: Plan Shape ──
// Feasible plans match the schedule length, rainy days carry -1, dry days a positive lake.

func validateShape(requests []domain.PlanRequest, byID map[string]domain.PlanEvent) *phase {
	p := &phase{name: "Phase 2: Plan Shape"}

	for _, req := range requests {
		plan, ok := byID[req.ID]
		if !ok || plan.Outcome != domain.OutcomeFeasible.String() {
			continue
		}
		if len(plan.Actions) != len(req.Rains) {
			p.errorf("%s: %d actions for %d days", req.ID, len(plan.Actions), len(req.Rains))
			continue
		}
		if plan.Days != len(req.Rains) || plan.DryDays != req.Rains.DryDays() {
			p.errorf("%s: days=%d dry=%d, schedule has %d/%d", req.ID, plan.Days, plan.DryDays, len(req.Rains), req.Rains.DryDays())
		}
		for day, lake := range req.Rains {
			action := plan.Actions[day]
			if lake != domain.DryDay && action != domain.NoAction {
				p.errorf("%s day %d: rainy day has action %d", req.ID, day, action)
			}
			if lake == domain.DryDay && action <= 0 {
				p.errorf("%s day %d: dry day has action %d", req.ID, day, action)
			}
		}
	}
	return p
}

// ── Phase 3: Replay ──
// Feasible plans never flood; infeasible plans name a real second rain.

func validateReplay(requests []domain.PlanRequest, byID map[string]domain.PlanEvent) *phase {
	p := &phase{name: "Phase 3: Replay"}

	for _, req := range requests {
		plan, ok := byID[req.ID]
		if !ok {
			continue
		}
		switch plan.Outcome {
		case domain.OutcomeFeasible.String():
			if err := domain.Simulate(req.Rains, plan.Actions); err != nil {
				var flood *domain.FloodError
				if errors.As(err, &flood) {
					p.errorf("%s: lake %d floods on day %d", req.ID, flood.Lake, flood.Day)
					continue
				}
				p.errorf("%s: %v", req.ID, err)
			}
		case domain.OutcomeInfeasible.String():
			checkFloodLocation(p, req, plan)
		}
	}
	return p
}

func checkFloodLocation(p *phase, req domain.PlanRequest, plan domain.PlanEvent) {
	if plan.FloodDay == nil || plan.FloodLake == nil {
		p.errorf("%s: infeasible plan without flood location", req.ID)
		return
	}
	day, lake := *plan.FloodDay, *plan.FloodLake
	if day < 0 || day >= len(req.Rains) || req.Rains[day] != lake {
		p.errorf("%s: flood day %d does not rain on lake %d", req.ID, day, lake)
		return
	}
	if !slices.Contains(req.Rains[:day], lake) {
		p.errorf("%s: lake %d was never full before day %d", req.ID, lake, day)
	}
}

// ── Phase 4: Outcome Consistency ──
// Empty outcome if and only if the schedule has no days.

func validateOutcomes(requests []domain.PlanRequest, byID map[string]domain.PlanEvent) *phase {
	p := &phase{name: "Phase 4: Outcome Consistency"}

	for _, req := range requests {
		plan, ok := byID[req.ID]
		if !ok {
			continue
		}
		isEmpty := plan.Outcome == domain.OutcomeEmptyInput.String()
		if isEmpty != (len(req.Rains) == 0) {
			p.errorf("%s: outcome %s for %d days", req.ID, plan.Outcome, len(req.Rains))
		}
		if plan.Outcome != domain.OutcomeInfeasible.String() && (plan.FloodDay != nil || plan.FloodLake != nil) {
			p.errorf("%s: %s plan carries a flood location", req.ID, plan.Outcome)
		}
	}
	return p
}
