package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weathernow/internal/weather"
)

// DefaultOpenWeatherBaseURL is the public OpenWeatherMap API host.
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org"

var validate = validator.New()

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name     string
	apiKey   string
	endpoint string
	client   *http.Client
	circuit  *gobreaker.CircuitBreaker
}

var _ weather.Provider = (*OpenWeatherProvider)(nil)

// NewOpenWeatherProvider builds a provider for the current-weather endpoint.
// An empty baseURL selects DefaultOpenWeatherBaseURL.
func NewOpenWeatherProvider(client *http.Client, apiKey, baseURL string) *OpenWeatherProvider {
	return NewOpenWeatherProviderWithBreaker(client, apiKey, baseURL, DefaultBreakerConfig)
}

// NewOpenWeatherProviderWithBreaker is NewOpenWeatherProvider with explicit
// circuit breaker settings.
func NewOpenWeatherProviderWithBreaker(client *http.Client, apiKey, baseURL string, cfg BreakerConfig) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherBaseURL
	}

	return &OpenWeatherProvider{
		name:     "openweathermap",
		apiKey:   apiKey,
		endpoint: strings.TrimRight(baseURL, "/") + "/data/2.5/weather",
		client:   client,
		circuit:  newCircuitBreaker("openweather", cfg),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// currentPayload is the subset of the current-weather response we rely on.
// Pointers distinguish a missing field from a zero value.
type currentPayload struct {
	Name    string `json:"name" validate:"required"`
	Weather []struct {
		Description string `json:"description" validate:"required"`
	} `json:"weather" validate:"min=1,dive"`
	Main struct {
		Temp     *float64 `json:"temp" validate:"required"`
		Humidity *int     `json:"humidity" validate:"required,gte=0,lte=100"`
	} `json:"main"`
	Wind struct {
		Speed *float64 `json:"speed" validate:"required,gte=0"`
	} `json:"wind"`
}

// Current fetches the current weather for query in metric units.
func (p *OpenWeatherProvider) Current(ctx context.Context, query string) (weather.Result, error) {
	if p.apiKey == "" {
		return weather.Result{}, fmt.Errorf("openweather: %w", errMissingAPIKey)
	}

	values := url.Values{}
	values.Set("q", query)
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")

	u := fmt.Sprintf("%s?%s", p.endpoint, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return weather.Result{}, err
	}

	resp, err := doRequest(p.client, p.circuit, req)
	if err != nil {
		return weather.Result{}, fmt.Errorf("openweather: %w", err)
	}
	defer resp.Body.Close()

	var payload currentPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Result{}, fmt.Errorf("openweather: %w: %v", errMalformed, err)
	}
	if err := validate.Struct(payload); err != nil {
		return weather.Result{}, fmt.Errorf("openweather: %w: %v", errMalformed, err)
	}

	return weather.Result{
		LocationName:             payload.Name,
		ConditionDescription:     payload.Weather[0].Description,
		TemperatureCelsius:       *payload.Main.Temp,
		HumidityPercent:          *payload.Main.Humidity,
		WindSpeedMetersPerSecond: *payload.Wind.Speed,
	}, nil
}
