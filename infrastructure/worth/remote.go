package worth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/felixgeelhaar/shapley-go/domain/coalition"
	"github.com/felixgeelhaar/shapley-go/infrastructure/logging"
	"github.com/felixgeelhaar/shapley-go/infrastructure/resilience"
)

// RemoteConfig configures a worth function served over HTTP.
type RemoteConfig struct {
	// URL receives a POST per evaluation.
	URL string
	// Game is sent along with every request.
	Game string
	// Headers are added to every request.
	Headers map[string]string
	// Timeout bounds a single attempt.
	Timeout time.Duration
	// MaxAttempts includes the first attempt.
	MaxAttempts int
	// RetryDelay is the initial backoff delay.
	RetryDelay time.Duration
	// Multiplier is the exponential backoff multiplier.
	Multiplier float64
	// BreakerThreshold opens the circuit after this many consecutive
	// failures. 0 disables the circuit breaker.
	BreakerThreshold int
	// BreakerTimeout is how long the circuit stays open.
	BreakerTimeout time.Duration
	// RateLimit caps requests per second across attempts. 0 means unlimited.
	RateLimit float64
	// Burst is the token bucket size for RateLimit (default 1).
	Burst int
	// Client overrides the HTTP client.
	Client *http.Client
}

// DefaultRemoteConfig returns defaults for url.
func DefaultRemoteConfig(url string) RemoteConfig {
	return RemoteConfig{
		URL:            url,
		Timeout:        10 * time.Second,
		MaxAttempts:    3,
		RetryDelay:     100 * time.Millisecond,
		Multiplier:     2.0,
		BreakerTimeout: 30 * time.Second,
	}
}

// RemoteRequest is the body posted to the worth service.
type RemoteRequest struct {
	Game    string   `json:"game,omitempty"`
	Members []string `json:"members"`
}

// RemoteResponse is the body expected back.
type RemoteResponse struct {
	Worth float64 `json:"worth"`
}

// Remote evaluates worth by posting member IDs to an HTTP endpoint.
// Server errors and transport failures are retried; 4xx responses are not.
type Remote struct {
	config  RemoteConfig
	client  *http.Client
	exec    *resilience.Executor[float64]
	limiter *rate.Limiter
}

// NewRemote creates a remote worth function.
func NewRemote(config RemoteConfig) *Remote {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	client := config.Client
	if client == nil {
		client = &http.Client{}
	}

	r := &Remote{
		config: config,
		client: client,
		exec: resilience.NewExecutor[float64](resilience.ExecutorConfig{
			MaxConcurrent:           1,
			CircuitBreakerThreshold: config.BreakerThreshold,
			CircuitBreakerTimeout:   config.BreakerTimeout,
			RetryMaxAttempts:        config.MaxAttempts,
			RetryInitialDelay:       config.RetryDelay,
			RetryBackoffMultiplier:  config.Multiplier,
			NonRetryable:            []error{ErrRemoteRejected, ErrInvalidResponse},
			AttemptTimeout:          config.Timeout,
		}),
	}

	if config.RateLimit > 0 {
		burst := config.Burst
		if burst <= 0 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), burst)
	}

	return r
}

// Worth implements coalition.WorthFunction.
func (r *Remote) Worth(ctx context.Context, g *coalition.Group) (float64, error) {
	payload, err := json.Marshal(RemoteRequest{Game: r.config.Game, Members: g.IDs()})
	if err != nil {
		return 0, fmt.Errorf("encode worth request: %w", err)
	}

	v, err := r.exec.Execute(ctx, func(ctx context.Context) (float64, error) {
		return r.post(ctx, payload)
	})
	if err != nil {
		logging.Warn().
			Add(logging.Component("worth.remote")).
			Add(logging.Str("url", r.config.URL)).
			Add(logging.ErrorField(err)).
			Msg("worth evaluation failed")
		return 0, err
	}
	return v, nil
}

func (r *Remote) post(ctx context.Context, payload []byte) (float64, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return 0, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.config.URL, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("create worth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range r.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 500:
		return 0, fmt.Errorf("%w: status %d: %s", ErrRemoteUnavailable, resp.StatusCode, truncate(body))
	case resp.StatusCode >= 400:
		return 0, fmt.Errorf("%w: status %d: %s", ErrRemoteRejected, resp.StatusCode, truncate(body))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return 0, fmt.Errorf("%w: status %d", ErrInvalidResponse, resp.StatusCode)
	}

	var out RemoteResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return out.Worth, nil
}

// BreakerState reports the circuit breaker state, or "disabled".
func (r *Remote) BreakerState() string {
	return r.exec.CircuitBreakerState()
}

func truncate(b []byte) string {
	const limit = 256
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
