package rollup

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/warp/capacity-engine/capacity"
	"github.com/warp/capacity-engine/generic"
	"github.com/warp/capacity-engine/metrics"
)

// DefaultWorkers bounds per-request fan-out when no size is configured.
const DefaultWorkers = 8

// Outcome is one resource's result or its error.
type Outcome struct {
	ResourceID generic.ResourceID
	Result     *capacity.Result
	Err        error
}

// Task computes one resource.
type Task func(ctx context.Context, id generic.ResourceID) (*capacity.Result, error)

// FanOut runs task for every id with at most workers in flight.
// Outcomes come back in the order of ids regardless of completion order.
// A failing or panicking task never stops the others; a panic becomes that
// resource's error.
func FanOut(ctx context.Context, ids []generic.ResourceID, workers int, task Task) []Outcome {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	outcomes := make([]Outcome, len(ids))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, id := range ids {
		g.Go(func() error {
			outcomes[i] = run(ctx, id, task)
			return nil
		})
	}
	// Tasks report through outcomes, so Wait never carries an error.
	_ = g.Wait()

	return outcomes
}

func run(ctx context.Context, id generic.ResourceID, task Task) (out Outcome) {
	defer func() {
		if p := recover(); p != nil {
			out = Outcome{ResourceID: id, Err: fmt.Errorf("panic: %v", p)}
		}
	}()
	res, err := task(ctx, id)
	return Outcome{ResourceID: id, Result: res, Err: err}
}

// Succeeded drops failed outcomes, logging and counting each one.
func Succeeded(view string, outcomes []Outcome) ([]*capacity.Result, []generic.ResourceID) {
	results := make([]*capacity.Result, 0, len(outcomes))
	var skipped []generic.ResourceID
	for _, o := range outcomes {
		if o.Err != nil {
			log.Printf("[Rollup] %s: skipping resource %d: %v", view, o.ResourceID, o.Err)
			metrics.ResourceFailures.WithLabelValues(view).Inc()
			skipped = append(skipped, o.ResourceID)
			continue
		}
		metrics.ResourcesComputed.WithLabelValues(view).Inc()
		results = append(results, o.Result)
	}
	return results, skipped
}
