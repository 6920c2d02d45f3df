package weather

import (
	"context"
)

// Provider abstracts the external weather data source (e.g. OpenWeatherMap).
// Implementations must request metric units and return an error for any
// response that is not a well-formed weather payload.
type Provider interface {
	Name() string
	Current(ctx context.Context, query string) (Result, error)
}
