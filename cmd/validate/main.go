// Command validate checks plan fixtures end to end: it re-plans every rain
// schedule, compares the result with the recorded plan, and replays each plan
// day by day to confirm no lake floods.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -requests data/mock/rain_schedules.json \
//	  -plans data/mock/flood_plans.json \
//	  -profile /tmp/validate-profile
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/flood-planner/internal/domain"
	"github.com/pkg/profile"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	requestsPath := flag.String("requests", "", "path to rain schedule request fixture")
	plansPath := flag.String("plans", "", "path to recorded plan fixture")
	profileDir := flag.String("profile", "", "write a CPU profile to this directory")
	maxErrors := flag.Int("max-errors", 20, "errors listed per failing phase (0 lists all)")
	flag.Parse()

	if *requestsPath == "" || *plansPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	var prof interface{ Stop() }
	if *profileDir != "" {
		prof = profile.Start(profile.CPUProfile, profile.ProfilePath(*profileDir), profile.NoShutdownHook)
	}

	requests, err := loadJSON[domain.PlanRequest](*requestsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load requests: %v\n", err)
		os.Exit(1)
	}
	plans, err := loadJSON[domain.PlanEvent](*plansPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load plans: %v\n", err)
		os.Exit(1)
	}

	ok := report(os.Stdout, requests, plans, validateAll(requests, plans), *maxErrors)

	if prof != nil {
		prof.Stop()
	}
	if !ok {
		os.Exit(1)
	}
}

// outcomeMix counts recorded plans by outcome.
type outcomeMix struct {
	feasible, infeasible, empty int
	emptied                     int
}

func mixOf(plans []domain.PlanEvent) outcomeMix {
	var m outcomeMix
	for _, p := range plans {
		switch p.Outcome {
		case domain.OutcomeFeasible.String():
			m.feasible++
			m.emptied += p.Emptied
		case domain.OutcomeInfeasible.String():
			m.infeasible++
		case domain.OutcomeEmptyInput.String():
			m.empty++
		}
	}
	return m
}

// report prints the phase table and failures to w and reports whether every
// phase passed.
func report(w io.Writer, requests []domain.PlanRequest, plans []domain.PlanEvent, phases []*phase, maxErrors int) bool {
	fmt.Fprintln(w, "=== Flood Plan Validation ===")
	fmt.Fprintln(w)

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	mix := mixOf(plans)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Records: %d requests, %d plans\n", len(requests), len(plans))
	fmt.Fprintf(w, "Outcomes: %d feasible (%d lakes emptied), %d infeasible, %d empty\n",
		mix.feasible, mix.emptied, mix.infeasible, mix.empty)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		shown := p.errors
		if maxErrors > 0 && len(shown) > maxErrors {
			shown = shown[:maxErrors]
		}
		for i, e := range shown {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
		if hidden := len(p.errors) - len(shown); hidden > 0 {
			fmt.Fprintf(w, "  ... %d more\n", hidden)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return true
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return false
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return items, nil
}
