package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Ensemble runs independent simulators side by side, one per parameter set.
// Each simulator still steps on its own goroutine only.
type Ensemble struct {
	params  []Params
	metrics func() []Metric
}

// NewEnsemble takes a metrics factory so that no Metric is shared between
// runs.
func NewEnsemble(params []Params, metrics func() []Metric) *Ensemble {
	return &Ensemble{params: params, metrics: metrics}
}

// Run returns one result per parameter set, in order. The first failure
// cancels the remaining runs.
func (e *Ensemble) Run(ctx context.Context, cfg Config, emitters []Emitter) ([]*Result, error) {
	results := make([]*Result, len(e.params))

	g, ctx := errgroup.WithContext(ctx)
	for i, p := range e.params {
		i, p := i, p
		g.Go(func() error {
			sim, err := New(p)
			if err != nil {
				return err
			}
			if e.metrics != nil {
				for _, m := range e.metrics() {
					sim.AddMetric(m)
				}
			}

			res, err := sim.Run(ctx, cfg, emitters)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
