// Package refine sends generated questions to an LLM for polishing and
// falls back to the originals when the job fails.
package refine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/drillz/internal/choices"
	"github.com/abhisek/drillz/internal/logger"
	"github.com/abhisek/drillz/internal/model"
)

// DefaultTimeout bounds a refine job when Options.Timeout is unset.
const DefaultTimeout = 30 * time.Second

// ErrBatchMismatch reports a refined batch that does not line up with the
// input batch.
var ErrBatchMismatch = errors.New("refined batch does not match input")

// Options controls a single refine job.
type Options struct {
	Timeout time.Duration
	Heavy   bool
}

// Refiner turns a batch of questions into refined questions. Implementations
// must return the batch in input order with ids preserved.
type Refiner interface {
	Refine(ctx context.Context, qs []model.Question, opts Options) ([]model.Question, error)
}

// Result is the outcome of Run. Questions is always usable: on failure it
// holds the originals with repaired choices.
type Result struct {
	Questions []model.Question
	Degraded  bool
	Err       error
}

// Runner applies a Refiner under a timeout and repairs every question's
// choices on the way out.
type Runner struct {
	Refiner Refiner
	Choices *choices.Generator
	Logger  *logger.Logger
}

// Run is a convenience for a Runner with default collaborators.
func Run(ctx context.Context, r Refiner, qs []model.Question, opts Options) Result {
	return (&Runner{Refiner: r}).Run(ctx, qs, opts)
}

// Run executes one refine job. It never fails: any error, timeout or
// mismatched batch surfaces as a degraded Result carrying the originals.
func (r *Runner) Run(ctx context.Context, qs []model.Question, opts Options) Result {
	log := logger.OrNop(r.Logger)
	gen := r.Choices
	if gen == nil {
		gen = choices.New(nil)
	}

	if len(qs) == 0 {
		return Result{}
	}

	refined, err := r.refine(ctx, qs, opts)
	if err == nil {
		err = checkBatch(qs, refined)
	}

	src := refined
	res := Result{}
	if err != nil {
		log.Warn("refine failed, using original questions", "count", len(qs), "heavy", opts.Heavy, "error", err)
		src = qs
		res.Degraded = true
		res.Err = err
	}

	res.Questions = make([]model.Question, len(src))
	for i, q := range src {
		res.Questions[i] = gen.EnsureChoicesIncludeAnswer(q, choices.NoAvoid)
	}
	return res
}

func (r *Runner) refine(ctx context.Context, qs []model.Question, opts Options) ([]model.Question, error) {
	if r.Refiner == nil {
		return nil, fmt.Errorf("no refiner configured")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	in := make([]model.Question, len(qs))
	for i, q := range qs {
		in[i] = q.Clone()
	}

	// Buffered so a Refiner that ignores ctx can still finish and exit.
	done := make(chan refineOutcome, 1)
	go func() {
		out, err := r.Refiner.Refine(ctx, in, opts)
		done <- refineOutcome{out, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return res.questions, nil
	}
}

type refineOutcome struct {
	questions []model.Question
	err       error
}

func checkBatch(in, out []model.Question) error {
	if len(in) != len(out) {
		return fmt.Errorf("%w: got %d questions, want %d", ErrBatchMismatch, len(out), len(in))
	}
	for i := range in {
		if in[i].ID != out[i].ID {
			return fmt.Errorf("%w: position %d has id %d, want %d", ErrBatchMismatch, i, out[i].ID, in[i].ID)
		}
	}
	return nil
}
