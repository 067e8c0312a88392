package v1

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/y00281951/fst-time-nlu-sub002/internal/profile"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu"
	apierrors "github.com/y00281951/fst-time-nlu-sub002/server/internal/errors"
	"github.com/y00281951/fst-time-nlu-sub002/internal/observability"
	"github.com/y00281951/fst-time-nlu-sub002/server/middleware"
)

// HeaderRequestID carries a caller-chosen request ID.
const HeaderRequestID = "X-Request-Id"

type APIV1Service struct {
	Profile  *profile.Profile
	Resolver timenlu.TimeResolver
	Metrics  *observability.Metrics

	limiter *middleware.RateLimiter
}

func NewAPIV1Service(profile *profile.Profile, resolver timenlu.TimeResolver, metrics *observability.Metrics) *APIV1Service {
	if metrics == nil {
		metrics = observability.NewMetrics(1000)
	}
	return &APIV1Service{
		Profile:  profile,
		Resolver: resolver,
		Metrics:  metrics,
		limiter:  middleware.NewRateLimiter(profile.RateLimit, profile.RateBurst),
	}
}

// RegisterRoutes registers the HTTP handlers with the given Echo instance.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	echoServer.GET("/healthz", s.Healthz)

	api := echoServer.Group("/api/v1")
	api.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOriginFunc: func(_ string) (bool, error) {
			return true, nil
		},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"*"},
	}))
	api.Use(echomiddleware.BodyLimit("1M"))
	api.Use(s.limiter.Middleware())

	api.POST("/resolve", s.Resolve)
	api.POST("/resolve/batch", s.ResolveBatch)
	api.GET("/system/metrics", s.GetMetricsOverview)
}

// Healthz reports liveness.
// GET /healthz
func (s *APIV1Service) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.Profile.Version,
	})
}

// Resolve resolves one token sequence.
// POST /api/v1/resolve
func (s *APIV1Service) Resolve(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return s.fail(c, apierrors.InvalidArgument("unable to read request body", err))
	}
	req, err := timenlu.DecodeRequest(body)
	if err != nil {
		return s.fail(c, apierrors.InvalidArgument("malformed request body", err))
	}

	ctx := s.requestContext(c)
	resp, err := s.Resolver.Resolve(ctx, req)
	if err != nil {
		return s.fail(c, classify(err))
	}
	c.Response().Header().Set(HeaderRequestID, resp.RequestID)
	return c.JSON(http.StatusOK, resp)
}

// BatchRequest is the body of a batch resolve call.
type BatchRequest struct {
	Requests []timenlu.Request `json:"requests"`
}

// BatchResponse holds one response per request, in request order.
type BatchResponse struct {
	Responses []timenlu.Response `json:"responses"`
}

// ResolveBatch resolves independent token sequences.
// POST /api/v1/resolve/batch
func (s *APIV1Service) ResolveBatch(c echo.Context) error {
	var req BatchRequest
	if err := c.Bind(&req); err != nil {
		return s.fail(c, apierrors.InvalidArgument("malformed request body", err))
	}
	if len(req.Requests) == 0 {
		return s.fail(c, apierrors.InvalidArgument("no requests", nil))
	}
	resps, err := s.Resolver.ResolveBatch(c.Request().Context(), req.Requests)
	if err != nil {
		return s.fail(c, classify(err))
	}
	return c.JSON(http.StatusOK, BatchResponse{Responses: resps})
}

// requestContext attaches a caller-supplied request ID to the request context.
func (s *APIV1Service) requestContext(c echo.Context) context.Context {
	ctx := c.Request().Context()
	if id := c.Request().Header.Get(HeaderRequestID); id != "" {
		ctx = observability.WithRequestContext(ctx, observability.NewRequestContextWithID(slog.Default(), id, "http"))
	}
	return ctx
}

func classify(err error) *apierrors.APIError {
	switch {
	case errors.Is(err, timenlu.ErrInvalidRequest):
		return apierrors.InvalidArgument("invalid request", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apierrors.ContextCanceled(err)
	default:
		return apierrors.From(err, apierrors.ErrCodeInternal)
	}
}

func (s *APIV1Service) fail(c echo.Context, apiErr *apierrors.APIError) error {
	slog.Warn("resolve request failed",
		slog.String(observability.LogFieldErrorCode, string(apiErr.Code)),
		slog.String("path", c.Path()),
		slog.String("error", apiErr.Error()),
	)
	body := map[string]string{"code": string(apiErr.Code), "message": apiErr.Message}
	if apiErr.Cause != nil {
		body["detail"] = apiErr.Cause.Error()
	}
	return c.JSON(apiErr.HTTPStatus(), body)
}
