package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/barganito/barganito.api/alerts"
	"github.com/barganito/barganito.api/metrics"
)

type MatcherRunner interface {
	RunOnce(ctx context.Context) (alerts.RunResult, error)
}

type ExpirySweeper interface {
	DeactivateExpired(now time.Time) (int64, error)
}

// CronHandler exposes the scheduled jobs over HTTP, protected by a
// pre-shared token. The scheduler guarantees at most one concurrent
// invocation per job; there is no run-level lock here.
type CronHandler struct {
	matcher MatcherRunner
	sweeper ExpirySweeper
	secret  string
}

func NewCronHandler(matcher MatcherRunner, sweeper ExpirySweeper, secret string) *CronHandler {
	return &CronHandler{
		matcher: matcher,
		sweeper: sweeper,
		secret:  secret,
	}
}

type CronRunResponse struct {
	Success   bool             `json:"success"`
	Timestamp string           `json:"timestamp"`
	Results   alerts.RunResult `json:"results"`
}

type CronSweepResponse struct {
	Success   bool   `json:"success"`
	Timestamp string `json:"timestamp"`
	Swept     int64  `json:"swept"`
}

func (h *CronHandler) CheckAlerts(w http.ResponseWriter, r *http.Request) Result {
	if !h.authorized(r) {
		return Unauthorized("Não autorizado")
	}

	started := time.Now()
	result, err := h.matcher.RunOnce(r.Context())
	metrics.MatcherRunDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.MatcherRuns.WithLabelValues("error").Inc()
		return Result{
			Error: err,
			Code:  http.StatusInternalServerError,
			Body:  ErrorResponse{err.Error()},
		}
	}

	metrics.MatcherRuns.WithLabelValues("success").Inc()
	metrics.AlertsChecked.Add(float64(result.Checked))
	metrics.NotificationsTriggered.Add(float64(result.Triggered))
	metrics.DispatchErrors.Add(float64(result.Errors))

	return Ok(CronRunResponse{
		Success:   true,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Results:   result,
	})
}

func (h *CronHandler) SweepExpired(w http.ResponseWriter, r *http.Request) Result {
	if !h.authorized(r) {
		return Unauthorized("Não autorizado")
	}

	swept, err := h.sweeper.DeactivateExpired(time.Now())
	if err != nil {
		return Result{
			Error: err,
			Code:  http.StatusInternalServerError,
			Body:  ErrorResponse{err.Error()},
		}
	}
	metrics.PromotionsSwept.Add(float64(swept))

	return Ok(CronSweepResponse{
		Success:   true,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Swept:     swept,
	})
}

func (h *CronHandler) authorized(r *http.Request) bool {
	token := r.URL.Query().Get("token")
	if token == "" || h.secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) == 1
}
