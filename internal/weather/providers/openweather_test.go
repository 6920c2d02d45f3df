package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const londonPayload = `{
	"name": "London",
	"weather": [{"main": "Clouds", "description": "overcast clouds"}],
	"main": {"temp": 12.3, "humidity": 81, "pressure": 1012},
	"wind": {"speed": 4.1}
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestOpenWeatherCurrentSuccess(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/2.5/weather" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "São Paulo" {
			t.Errorf("unexpected q %q", q.Get("q"))
		}
		if q.Get("appid") != "secret" {
			t.Errorf("unexpected appid %q", q.Get("appid"))
		}
		if q.Get("units") != "metric" {
			t.Errorf("unexpected units %q", q.Get("units"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(londonPayload))
	})

	p := NewOpenWeatherProvider(srv.Client(), "secret", srv.URL)
	res, err := p.Current(context.Background(), "São Paulo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.LocationName != "London" || res.ConditionDescription != "overcast clouds" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.TemperatureCelsius != 12.3 || res.HumidityPercent != 81 || res.WindSpeedMetersPerSecond != 4.1 {
		t.Fatalf("unexpected measurements %+v", res)
	}
}

func TestOpenWeatherZeroValuesAreValid(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"Calm","weather":[{"description":"fog"}],"main":{"temp":0,"humidity":0},"wind":{"speed":0}}`))
	})

	p := NewOpenWeatherProvider(srv.Client(), "secret", srv.URL)
	res, err := p.Current(context.Background(), "Calm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TemperatureCelsius != 0 || res.HumidityPercent != 0 || res.WindSpeedMetersPerSecond != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestOpenWeatherNotFound(t *testing.T) {
	srv, hits := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	})

	p := NewOpenWeatherProvider(srv.Client(), "secret", srv.URL)

	// Unknown cities must not trip the breaker.
	for i := 0; i < 10; i++ {
		_, err := p.Current(context.Background(), "Atlantis")
		var se *StatusError
		if !errors.As(err, &se) {
			t.Fatalf("expected StatusError, got %v", err)
		}
		if se.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", se.StatusCode)
		}
	}
	if got := hits.Load(); got != 10 {
		t.Fatalf("expected 10 upstream calls, got %d", got)
	}
}

func TestOpenWeatherServerErrorsOpenBreaker(t *testing.T) {
	srv, hits := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	p := NewOpenWeatherProviderWithBreaker(srv.Client(), "secret", srv.URL, BreakerConfig{
		ConsecutiveFailures: 3,
		OpenTimeout:         time.Minute,
	})

	for i := 0; i < 3; i++ {
		if _, err := p.Current(context.Background(), "London"); err == nil {
			t.Fatalf("expected error on attempt %d", i)
		}
	}

	_, err := p.Current(context.Background(), "London")
	if !errors.Is(err, errCircuitOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if got := hits.Load(); got != 3 {
		t.Fatalf("expected 3 upstream calls without retries, got %d", got)
	}
}

func TestOpenWeatherMalformedPayload(t *testing.T) {
	cases := map[string]string{
		"not json":         `<html>oops</html>`,
		"missing name":     `{"weather":[{"description":"x"}],"main":{"temp":1,"humidity":2},"wind":{"speed":3}}`,
		"no weather":       `{"name":"X","weather":[],"main":{"temp":1,"humidity":2},"wind":{"speed":3}}`,
		"missing temp":     `{"name":"X","weather":[{"description":"x"}],"main":{"humidity":2},"wind":{"speed":3}}`,
		"missing wind":     `{"name":"X","weather":[{"description":"x"}],"main":{"temp":1,"humidity":2}}`,
		"humidity too big": `{"name":"X","weather":[{"description":"x"}],"main":{"temp":1,"humidity":150},"wind":{"speed":3}}`,
	}

	for name, body := range cases {
		body := body
		t.Run(name, func(t *testing.T) {
			srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			p := NewOpenWeatherProvider(srv.Client(), "secret", srv.URL)
			_, err := p.Current(context.Background(), "X")
			if !errors.Is(err, errMalformed) {
				t.Fatalf("expected malformed payload error, got %v", err)
			}
		})
	}
}

func TestOpenWeatherMissingAPIKey(t *testing.T) {
	srv, hits := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(londonPayload))
	})

	p := NewOpenWeatherProvider(srv.Client(), "", srv.URL)
	_, err := p.Current(context.Background(), "London")
	if !errors.Is(err, errMissingAPIKey) {
		t.Fatalf("expected missing api key error, got %v", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("expected no upstream call")
	}
}

func TestOpenWeatherDefaultBaseURL(t *testing.T) {
	p := NewOpenWeatherProvider(http.DefaultClient, "secret", "")
	if p.endpoint != "https://api.openweathermap.org/data/2.5/weather" {
		t.Fatalf("unexpected endpoint %s", p.endpoint)
	}
}

func TestOpenWeatherCanceledRequestDoesNotTripBreaker(t *testing.T) {
	started := make(chan struct{}, 1)
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "Slowtown" {
			started <- struct{}{}
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
			return
		}
		_, _ = w.Write([]byte(londonPayload))
	})

	p := NewOpenWeatherProviderWithBreaker(srv.Client(), "secret", srv.URL, BreakerConfig{
		ConsecutiveFailures: 1,
		OpenTimeout:         time.Minute,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := p.Current(ctx, "Slowtown")
		done <- err
	}()

	<-started
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	// A single breaker failure would have opened the circuit.
	if _, err := p.Current(context.Background(), "London"); err != nil {
		t.Fatalf("expected breaker to stay closed, got %v", err)
	}
}
