// Package sweep runs many independent forests to estimate how burn-out time
// and burned area depend on the propagation probability.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"forestfire/internal/core"
	"forestfire/internal/forest"
)

// Plan describes a sweep. Base supplies the dimensions and ignitions; its
// probability is replaced by each entry of Probabilities.
type Plan struct {
	Base          forest.Config
	Probabilities []float64
	Trials        int
	Workers       int
	// Seed makes the sweep reproducible. Zero draws a fresh base seed.
	Seed int64
}

// Result aggregates the trials for one probability.
type Result struct {
	Probability float64 `json:"probability"`
	Trials      int     `json:"trials"`
	MeanSteps   float64 `json:"meanSteps"`
	MaxSteps    int     `json:"maxSteps"`
	// MeanBurned is the mean fraction of cells that ended as ash.
	MeanBurned float64 `json:"meanBurned"`
}

type job struct {
	index int
	cfg   forest.Config
}

type outcome struct {
	index  int
	steps  int
	burned float64
	err    error
}

// Run executes every probability × trial on a worker pool and returns one
// Result per probability, sorted by probability.
func Run(ctx context.Context, plan Plan) ([]Result, error) {
	if len(plan.Probabilities) == 0 {
		return nil, errors.New("sweep: no probabilities given")
	}
	if plan.Trials < 1 {
		return nil, fmt.Errorf("sweep: trials must be at least 1, got %d", plan.Trials)
	}
	for _, p := range plan.Probabilities {
		cfg := plan.Base.Clone()
		cfg.Probability = p
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("sweep: %w", err)
		}
	}
	workers := plan.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	baseSeed := plan.Seed
	if baseSeed == 0 {
		var err error
		if baseSeed, err = core.NewSeed(); err != nil {
			return nil, fmt.Errorf("sweep: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan job)
	outcomes := make(chan outcome)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				res := runTrial(j)
				select {
				case outcomes <- res:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	go func() {
		defer close(jobs)
		n := 0
		for pi, p := range plan.Probabilities {
			for trial := 0; trial < plan.Trials; trial++ {
				cfg := plan.Base.Clone()
				cfg.Probability = p
				cfg.Seed = trialSeed(baseSeed, n)
				n++
				select {
				case jobs <- job{index: pi, cfg: cfg}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	acc := make([]Result, len(plan.Probabilities))
	var firstErr error
	for res := range outcomes {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
				cancel()
			}
			continue
		}
		r := &acc[res.index]
		r.Trials++
		r.MeanSteps += float64(res.steps)
		r.MeanBurned += res.burned
		if res.steps > r.MaxSteps {
			r.MaxSteps = res.steps
		}
	}
	if firstErr != nil {
		return nil, fmt.Errorf("sweep: %w", firstErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, p := range plan.Probabilities {
		acc[i].Probability = p
		if acc[i].Trials > 0 {
			acc[i].MeanSteps /= float64(acc[i].Trials)
			acc[i].MeanBurned /= float64(acc[i].Trials)
		}
	}
	sort.SliceStable(acc, func(i, j int) bool { return acc[i].Probability < acc[j].Probability })
	return acc, nil
}

func runTrial(j job) outcome {
	e, err := forest.NewEngine(j.cfg)
	if err != nil {
		return outcome{index: j.index, err: err}
	}
	steps := e.RunToCompletion()
	cells := j.cfg.Size().Cells()
	return outcome{
		index:  j.index,
		steps:  steps,
		burned: float64(e.Counts().Burned) / float64(cells),
	}
}

// trialSeed derives a distinct non-zero seed for the n-th trial.
func trialSeed(base int64, n int) int64 {
	seed := base + int64(n) + 1
	if seed == 0 {
		seed = 1
	}
	return seed
}
