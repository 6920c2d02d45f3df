package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

var (
	errCircuitOpen   = errors.New("circuit breaker open")
	errNoHTTPClient  = errors.New("http client not configured")
	errMissingAPIKey = errors.New("api key is not configured")
	errMalformed     = errors.New("malformed payload")
)

// StatusError is returned when the provider answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("provider returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Body)
}

// BreakerConfig controls when the circuit breaker opens.
type BreakerConfig struct {
	// ConsecutiveFailures trips the breaker once reached.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

// DefaultBreakerConfig is used when a provider is built without overrides.
var DefaultBreakerConfig = BreakerConfig{
	ConsecutiveFailures: 5,
	OpenTimeout:         30 * time.Second,
}

func newCircuitBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("INFO: circuit breaker %s changed from %s to %s", name, from, to)
		},
	})
}

// doRequest executes a single HTTP request through the circuit breaker.
// Transport errors and 5xx responses count against the breaker; other
// non-2xx responses are returned as a StatusError without tripping it.
// A request canceled by its caller is not a provider failure and is
// reported as the context error. There are no retries.
func doRequest(
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	req *http.Request,
) (*http.Response, error) {
	if client == nil {
		return nil, errNoHTTPClient
	}

	var canceled error
	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			if errors.Is(execErr, context.Canceled) {
				canceled = execErr
				if ctxErr := req.Context().Err(); ctxErr != nil {
					canceled = ctxErr
				}
				return nil, nil
			}
			return nil, execErr
		}
		if resp.StatusCode >= 500 {
			return nil, statusError(resp)
		}
		return resp, nil
	})
	if canceled != nil {
		return nil, canceled
	}
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp)
	}
	return resp, nil
}

// statusError consumes and closes the response body.
func statusError(resp *http.Response) error {
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
