package timenlu

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/calendar"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/merge"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/resolver"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/token"
	"github.com/y00281951/fst-time-nlu-sub002/internal/observability"
	"github.com/y00281951/fst-time-nlu-sub002/server/timezone"
)

// ErrInvalidRequest marks a request whose base or tokens are malformed.
var ErrInvalidRequest = errors.New("invalid request")

const (
	opResolve = "resolve"
	opBatch   = "batch"
)

// Service implements TimeResolver on the merge cascade.
type Service struct {
	merger      *merge.ContextMerger
	logger      *slog.Logger
	metrics     *observability.Metrics
	loc         *time.Location
	concurrency int
	now         func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger requests log to.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithTimezone sets the zone a request base without its own zone is read in.
func WithTimezone(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithConcurrency bounds the number of batch requests resolved at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithMetrics records request counters and durations into m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the clock used for requests without a base.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a resolution service over registry.
func NewService(registry *resolver.Registry, opts ...Option) *Service {
	s := &Service{
		merger:      merge.New(registry),
		logger:      slog.Default(),
		metrics:     observability.NewMetrics(1000),
		loc:         time.UTC,
		concurrency: 8,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Metrics returns the service's metrics collector.
func (s *Service) Metrics() *observability.Metrics {
	return s.metrics
}

// Resolve resolves one request.
func (s *Service) Resolve(ctx context.Context, req Request) (Response, error) {
	rc := observability.NewRequestContext(s.logger, opResolve)
	if parent, ok := observability.FromContext(ctx); ok {
		rc.RequestID = parent.RequestID
	}
	resp, err := s.resolve(ctx, rc, req)
	s.metrics.RecordDuration(opResolve, rc.Duration())
	if err != nil {
		s.metrics.RecordFailure(opResolve)
		rc.Warn("request rejected", slog.String("error", err.Error()))
		return resp, err
	}
	s.metrics.RecordRequest(opResolve, len(resp.Results))
	rc.Debug("request resolved",
		slog.Int(observability.LogFieldTokens, len(req.Tokens)),
		slog.Int(observability.LogFieldResults, len(resp.Results)),
		slog.Int64(observability.LogFieldDuration, rc.DurationMs()),
	)
	return resp, nil
}

func (s *Service) resolve(ctx context.Context, rc *observability.RequestContext, req Request) (Response, error) {
	resp := Response{RequestID: rc.RequestID, Results: [][]string{}, Consumed: []int{}}
	if err := ctx.Err(); err != nil {
		return resp, err
	}

	base, err := s.base(req)
	if err != nil {
		return resp, err
	}
	resp.Base = timezone.Format(base)

	if err := token.ValidateAll(req.Tokens); err != nil {
		return resp, errors.Wrapf(ErrInvalidRequest, "%v", err)
	}

	steps := s.merger.Merge(req.Tokens, base)
	for _, step := range steps {
		resp.Consumed = append(resp.Consumed, step.Consumed)
	}
	resp.Results = calendar.Render(merge.Results(steps))
	return resp, nil
}

func (s *Service) base(req Request) (time.Time, error) {
	loc := s.loc
	if req.Timezone != "" {
		l, err := timezone.ParseTimezone(req.Timezone)
		if err != nil {
			return time.Time{}, errors.Wrapf(ErrInvalidRequest, "%v", err)
		}
		loc = l
	}
	if req.Base == "" {
		return timezone.Wall(s.now(), loc), nil
	}
	base, err := timezone.ParseBase(req.Base, loc)
	if err != nil {
		return time.Time{}, errors.Wrapf(ErrInvalidRequest, "%v", err)
	}
	return base, nil
}

// ResolveBatch resolves reqs with bounded parallelism. Responses keep request order.
func (s *Service) ResolveBatch(ctx context.Context, reqs []Request) ([]Response, error) {
	rc := observability.NewRequestContext(s.logger, opBatch)
	out := make([]Response, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			resp, err := s.Resolve(gctx, req)
			if err != nil {
				if errors.Is(err, ErrInvalidRequest) {
					resp.Error = err.Error()
					out[i] = resp
					return nil
				}
				return err
			}
			out[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.metrics.RecordFailure(opBatch)
		rc.Error("batch aborted", err, slog.Int("requests", len(reqs)))
		return nil, err
	}
	s.metrics.RecordDuration(opBatch, rc.Duration())
	s.metrics.RecordRequest(opBatch, len(reqs))
	rc.Info("batch resolved",
		slog.Int("requests", len(reqs)),
		slog.Int64(observability.LogFieldDuration, rc.DurationMs()),
	)
	return out, nil
}

var _ TimeResolver = (*Service)(nil)
