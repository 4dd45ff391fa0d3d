package filter

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/millennium/codec"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*Evaluator)

// WithWorkers sets the number of worker goroutines
func WithWorkers(workers int) EvaluatorOption {
	return func(e *Evaluator) {
		if workers > 0 {
			e.workerCount = workers
		}
	}
}

// WithBatchSize sets the batch size for chunked processing
func WithBatchSize(size int) EvaluatorOption {
	return func(e *Evaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// Evaluator applies a filter to a set of records, splitting large sets into
// batches that are evaluated concurrently. Matches keep the input order.
type Evaluator struct {
	workerCount int
	batchSize   int
}

// NewEvaluator creates a new evaluator
func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Evaluate returns the records that match filter
func (e *Evaluator) Evaluate(ctx context.Context, filter Filter, records []*codec.Record) ([]*codec.Record, error) {
	if len(records) == 0 {
		return []*codec.Record{}, nil
	}

	// For small record sets, don't bother with concurrency
	if len(records) <= e.batchSize {
		return evaluateSequential(filter, records), nil
	}

	return e.evaluateConcurrent(ctx, filter, records)
}

func evaluateSequential(filter Filter, records []*codec.Record) []*codec.Record {
	matches := make([]*codec.Record, 0, len(records))
	for _, rec := range records {
		if filter.Evaluate(rec) {
			matches = append(matches, rec)
		}
	}
	return matches
}

func (e *Evaluator) evaluateConcurrent(ctx context.Context, filter Filter, records []*codec.Record) ([]*codec.Record, error) {
	batches := (len(records) + e.batchSize - 1) / e.batchSize
	results := make([][]*codec.Record, batches)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerCount)

	for i := range batches {
		start := i * e.batchSize
		end := min(start+e.batchSize, len(records))

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = evaluateSequential(filter, records[start:end])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	matches := make([]*codec.Record, 0, len(records))
	for _, batch := range results {
		matches = append(matches, batch...)
	}
	return matches, nil
}
