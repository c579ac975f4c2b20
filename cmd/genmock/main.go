// Command genmock generates random rain schedule fixtures and the plans the
// planner produces for them. It uses the domain package directly so the
// fixtures match real service behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -requests-out data/mock/rain_schedules.json \
//	  -plans-out data/mock/flood_plans.json \
//	  -count 200 -days 40 -lakes 6 -seed 240426
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/flood-planner/internal/domain"
	"github.com/jonboulle/clockwork"
)

type genOptions struct {
	count    int
	maxDays  int
	lakes    int
	dryRatio float64
	seed     int64
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	requestsOut := flag.String("requests-out", "", "output path for rain schedule request fixture")
	plansOut := flag.String("plans-out", "", "output path for plan fixture")
	opts := genOptions{}
	flag.IntVar(&opts.count, "count", 200, "number of schedules to generate")
	flag.IntVar(&opts.maxDays, "days", 40, "maximum days per schedule")
	flag.IntVar(&opts.lakes, "lakes", 6, "number of distinct lake ids")
	flag.Float64Var(&opts.dryRatio, "dry-ratio", 0.35, "probability that a day is dry")
	flag.Int64Var(&opts.seed, "seed", 240426, "random seed")
	flag.Parse()

	if *requestsOut == "" || *plansOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -requests-out, -plans-out")
	}
	if opts.count <= 0 || opts.maxDays < 0 || opts.lakes <= 0 || opts.dryRatio < 0 || opts.dryRatio > 1 {
		return fmt.Errorf("invalid generation options: %+v", opts)
	}

	// Set a fixed clock for reproducible PlannedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	requests := generateRequests(opts)
	plans := make([]domain.PlanEvent, 0, len(requests))
	for _, req := range requests {
		result, err := domain.PlanSchedule(req.Rains)
		if err != nil {
			return fmt.Errorf("plan %s: %w", req.ID, err)
		}
		plans = append(plans, domain.NewPlanEvent(req.ID, req.Rains, result))
	}

	if err := writeJSON(*requestsOut, requests); err != nil {
		return fmt.Errorf("writing request fixture: %w", err)
	}
	log.Printf("wrote request fixture: %s", *requestsOut)

	if err := writeJSON(*plansOut, plans); err != nil {
		return fmt.Errorf("writing plan fixture: %w", err)
	}
	log.Printf("wrote plan fixture: %s", *plansOut)

	printStats(plans)
	return nil
}

func generateRequests(opts genOptions) []domain.PlanRequest {
	rng := rand.New(rand.NewSource(opts.seed))
	requests := make([]domain.PlanRequest, opts.count)
	for i := range requests {
		days := rng.Intn(opts.maxDays + 1)
		rains := make(domain.RainSchedule, days)
		for d := range rains {
			if rng.Float64() < opts.dryRatio {
				rains[d] = domain.DryDay
				continue
			}
			rains[d] = 1 + rng.Intn(opts.lakes)
		}
		requests[i] = domain.PlanRequest{
			ID:    fmt.Sprintf("mock-%04d", i),
			Rains: rains,
		}
	}
	return requests
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(plans []domain.PlanEvent) {
	outcomes := map[string]int{}
	var days, dry, emptied int
	for i := range plans {
		p := &plans[i]
		outcomes[p.Outcome]++
		days += p.Days
		dry += p.DryDays
		emptied += p.Emptied
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(plans))
	fmt.Printf("By outcome: feasible=%d, infeasible=%d, empty=%d\n",
		outcomes["feasible"], outcomes["infeasible"], outcomes["empty"])
	fmt.Printf("Days: %d, dry days: %d, emptied: %d\n", days, dry, emptied)
}
