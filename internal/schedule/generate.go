package schedule

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/cheerioskun/teesheet/internal/models"
	"github.com/cheerioskun/teesheet/internal/utils"
)

const (
	// DefaultConcurrency keeps submission sequential
	DefaultConcurrency = 1
	// MaxConcurrency caps parallel creation calls against the booking API
	MaxConcurrency = 16
)

// TeeTimeCreator creates one tee time on the booking API
type TeeTimeCreator interface {
	CreateTeeTime(ctx context.Context, teeTime models.GeneratedTeeTime) (models.TeeTime, error)
}

// Failure records one instant whose creation call failed
type Failure struct {
	Instant      time.Time `json:"instant"`
	ErrorMessage string    `json:"error_message"`
	Err          error     `json:"-"`
}

// Outcome summarises a bulk generation
type Outcome struct {
	Total        int       `json:"total"`
	SuccessCount int       `json:"success_count"`
	Failures     []Failure `json:"failures"`
}

// AllFailed reports whether nothing was created out of a non-empty batch
func (o Outcome) AllFailed() bool {
	return o.Total > 0 && o.SuccessCount == 0
}

// Partial reports whether some but not all creation calls failed
func (o Outcome) Partial() bool {
	return o.SuccessCount > 0 && len(o.Failures) > 0
}

// Progress is reported after every finished creation call
type Progress struct {
	Done   int
	Failed int
	Total  int
}

// Generator submits expanded tee times to a TeeTimeCreator
type Generator struct {
	creator     TeeTimeCreator
	concurrency int
	limiter     *rate.Limiter
	loc         *time.Location
	logger      *utils.Logger

	// OnProgress, when set, is called after each finished call. Calls are serialised.
	OnProgress func(Progress)
}

// Option configures a Generator
type Option func(*Generator)

// WithConcurrency bounds the number of in-flight creation calls
func WithConcurrency(n int) Option {
	return func(g *Generator) {
		if n < 1 {
			n = DefaultConcurrency
		}
		if n > MaxConcurrency {
			n = MaxConcurrency
		}
		g.concurrency = n
	}
}

// WithRatePerSecond limits how fast calls are issued. Zero or less disables the limit.
func WithRatePerSecond(perSecond float64) Option {
	return func(g *Generator) {
		if perSecond <= 0 {
			g.limiter = nil
			return
		}
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithLocation sets the time zone rules are expanded in
func WithLocation(loc *time.Location) Option {
	return func(g *Generator) {
		if loc != nil {
			g.loc = loc
		}
	}
}

// WithLogger overrides the default logger
func WithLogger(logger *utils.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithProgress installs a progress callback
func WithProgress(fn func(Progress)) Option {
	return func(g *Generator) {
		g.OnProgress = fn
	}
}

// NewGenerator creates a new Generator
func NewGenerator(creator TeeTimeCreator, opts ...Option) *Generator {
	g := &Generator{
		creator:     creator,
		concurrency: DefaultConcurrency,
		loc:         time.Local,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = utils.GetLogger()
	}
	return g
}

// Plan expands req in the generator's location without calling the API
func (g *Generator) Plan(req models.BulkGenerationRequest) ([]models.GeneratedTeeTime, error) {
	return Plan(req, g.loc)
}

// Generate validates req and issues one creation call per expanded instant.
//
// A failed call is recorded and never stops its siblings. The returned error
// is non-nil only when validation fails, in which case no call is made.
// When ctx is cancelled no further calls are issued and every instant not
// yet issued is recorded as a failure carrying the context error.
func (g *Generator) Generate(ctx context.Context, req models.BulkGenerationRequest) (Outcome, error) {
	planned, err := g.Plan(req)
	if err != nil {
		return Outcome{}, err
	}

	log := g.logger.With("from", req.StartDate.String(), "to", req.EndDate.String(), "total", len(planned))
	log.Info("generating %d tee times", len(planned))

	var (
		mu     sync.Mutex
		errs   = make([]error, len(planned))
		done   int
		failed int
	)
	record := func(i int, err error) {
		mu.Lock()
		defer mu.Unlock()
		errs[i] = err
		done++
		if err != nil {
			failed++
		}
		if g.OnProgress != nil {
			g.OnProgress(Progress{Done: done, Failed: failed, Total: len(planned)})
		}
	}

	var group errgroup.Group
	group.SetLimit(g.concurrency)

	for i := range planned {
		if err := g.wait(ctx); err != nil {
			for j := i; j < len(planned); j++ {
				record(j, err)
			}
			log.Warning("generation stopped after issuing %d of %d calls: %v", i, len(planned), err)
			break
		}

		group.Go(func() error {
			// the slot may free up only after ctx is done
			if err := ctx.Err(); err != nil {
				record(i, err)
				return nil
			}
			if _, err := g.creator.CreateTeeTime(ctx, planned[i]); err != nil {
				log.Error("failed to create tee time at %s: %v", planned[i].StartTime.Format(time.RFC3339), err)
				record(i, err)
				return nil
			}
			record(i, nil)
			return nil
		})
	}
	_ = group.Wait()

	outcome := Outcome{Total: len(planned)}
	for i, err := range errs {
		if err == nil {
			outcome.SuccessCount++
			continue
		}
		outcome.Failures = append(outcome.Failures, Failure{
			Instant:      planned[i].StartTime,
			ErrorMessage: err.Error(),
			Err:          err,
		})
	}
	log.Info("generation finished: %d created, %d failed", outcome.SuccessCount, len(outcome.Failures))
	return outcome, nil
}

func (g *Generator) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if g.limiter == nil {
		return nil
	}
	return g.limiter.Wait(ctx)
}
