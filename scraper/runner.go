package scraper

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map"
	"go.uber.org/zap"
)

// ErrScraperNotFound is returned by Run when the requested name has no
// registration.
var ErrScraperNotFound = errors.New("scraper not found")

// Result holds the outcome of a single scraper invocation: either a value or
// an error, never both.
type Result struct {
	Scraper  string
	Value    any
	Err      error
	Duration time.Duration
}

// Failed reports whether the invocation ended in an error.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Outcome maps scraper names to their results for one RunAll invocation. It
// preserves registration order so that iterating Results matches the order in
// which the scrapers ran.
type Outcome struct {
	results *orderedmap.OrderedMap
}

func newOutcome() *Outcome {
	return &Outcome{results: orderedmap.New()}
}

func (o *Outcome) add(res Result) {
	o.results.Set(res.Scraper, res)
}

// Get returns the result recorded for the named scraper.
func (o *Outcome) Get(name string) (Result, bool) {
	v, ok := o.results.Get(name)
	if !ok {
		return Result{}, false
	}
	return v.(Result), true
}

// Len returns the number of recorded results.
func (o *Outcome) Len() int {
	return o.results.Len()
}

// Results returns all results in run order.
func (o *Outcome) Results() []Result {
	out := make([]Result, 0, o.results.Len())
	for pair := o.results.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value.(Result))
	}
	return out
}

// Failures returns the results that ended in an error, in run order.
func (o *Outcome) Failures() []Result {
	var failed []Result
	for _, res := range o.Results() {
		if res.Failed() {
			failed = append(failed, res)
		}
	}
	return failed
}

// Runner holds named scrapers and executes them sequentially with failure
// isolation: an error or panic in one scraper is recorded and logged but never
// stops the rest of the batch.
//
// A Runner is not safe for concurrent use; it is meant to be driven by a
// single goroutine, batch-style.
type Runner struct {
	scrapers *orderedmap.OrderedMap
	logger   *zap.Logger
}

// NewRunner creates an empty runner. A nil logger disables logging.
func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		scrapers: orderedmap.New(),
		logger:   logger,
	}
}

// Register adds the scraper under its name. Registering a name that already
// exists replaces the previous scraper (last write wins) while keeping its
// original position in the run order. Register never fails.
func (r *Runner) Register(s Scraper) {
	name := s.Name()
	if _, exists := r.scrapers.Get(name); exists {
		r.logger.Warn("replacing scraper registration", zap.String("scraper", name))
	}
	r.scrapers.Set(name, s)
	r.logger.Info("registered scraper", zap.String("scraper", name))
}

// Unregister removes the named scraper. Unknown names are ignored.
func (r *Runner) Unregister(name string) {
	if _, exists := r.scrapers.Get(name); !exists {
		return
	}
	r.scrapers.Delete(name)
	r.logger.Info("unregistered scraper", zap.String("scraper", name))
}

// Names returns the registered scraper names in registration order.
func (r *Runner) Names() []string {
	names := make([]string, 0, r.scrapers.Len())
	for pair := r.scrapers.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key.(string))
	}
	return names
}

// Len returns the number of registered scrapers.
func (r *Runner) Len() int {
	return r.scrapers.Len()
}

// Run executes the named scraper. An unknown name returns an error wrapping
// ErrScraperNotFound and leaves the registry untouched. For a known name the
// invocation itself never returns an error: faults are captured in the Result.
func (r *Runner) Run(ctx context.Context, name string) (Result, error) {
	v, ok := r.scrapers.Get(name)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q (registered: %v)", ErrScraperNotFound, name, r.Names())
	}
	return r.invoke(ctx, r.logger, v.(Scraper)), nil
}

// RunAll executes every registered scraper in registration order and returns
// a fresh Outcome with one entry per scraper. A failing scraper does not
// prevent subsequent scrapers from running.
//
// The name list is snapshotted before iterating; mutating registrations from
// inside a running scraper is unsupported, and a name removed mid-run is
// skipped.
func (r *Runner) RunAll(ctx context.Context) *Outcome {
	runLog := r.logger.With(zap.String("run_id", uuid.NewString()))

	names := r.Names()
	runLog.Info("running all scrapers", zap.Int("count", len(names)))

	outcome := newOutcome()
	for _, name := range names {
		v, ok := r.scrapers.Get(name)
		if !ok {
			continue
		}
		outcome.add(r.invoke(ctx, runLog, v.(Scraper)))
	}

	runLog.Info("run complete",
		zap.Int("scrapers", outcome.Len()),
		zap.Int("failed", len(outcome.Failures())))
	return outcome
}

// invoke runs one scraper inside the isolation boundary and logs start,
// success, or failure.
func (r *Runner) invoke(ctx context.Context, logger *zap.Logger, s Scraper) Result {
	name := s.Name()
	logger.Info("running scraper", zap.String("scraper", name))

	start := time.Now()
	value, err := runIsolated(ctx, s)
	res := Result{
		Scraper:  name,
		Value:    value,
		Err:      err,
		Duration: time.Since(start),
	}

	if res.Failed() {
		logger.Error("scraper failed",
			zap.String("scraper", name),
			zap.Duration("duration", res.Duration),
			zap.Error(res.Err))
	} else {
		logger.Info("scraper completed",
			zap.String("scraper", name),
			zap.Duration("duration", res.Duration))
	}
	return res
}

// runIsolated converts a panic inside Run into an error carrying the stack,
// so one misbehaving scraper cannot take down the batch.
func runIsolated(ctx context.Context, s Scraper) (value any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			value = nil
			err = fmt.Errorf("scraper panicked: %v\n%s", rec, debug.Stack())
		}
	}()
	return s.Run(ctx)
}
