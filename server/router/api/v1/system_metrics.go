package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/y00281951/fst-time-nlu-sub002/internal/observability"
)

// MetricsOverviewResponse represents the overview response of service metrics
type MetricsOverviewResponse struct {
	TotalRequests int64                                         `json:"total_requests"`
	SuccessRate   float64                                       `json:"success_rate"`
	ErrorCount    int64                                         `json:"error_count"`
	ResultCount   int64                                         `json:"result_count"`
	Operations    map[string]*observability.OperationSnapshot `json:"operations"`
}

// GetMetricsOverview returns the resolver metrics overview
// GET /api/v1/system/metrics
func (s *APIV1Service) GetMetricsOverview(c echo.Context) error {
	snap := s.Metrics.Snapshot()
	resp := MetricsOverviewResponse{
		TotalRequests: snap.RequestTotal,
		ErrorCount:    snap.RequestFailed,
		ResultCount:   snap.ResultTotal,
		Operations:    snap.Operations,
	}
	if total := snap.RequestTotal + snap.RequestFailed; total > 0 {
		resp.SuccessRate = float64(snap.RequestTotal) / float64(total)
	}
	return c.JSON(http.StatusOK, resp)
}
