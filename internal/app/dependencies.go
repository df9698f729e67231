package app

import (
	"context"

	validator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/grupo-inti/backend-quotes/internal/ratelimit"
)

// Dependencies enumerates core services shared across modules to make wiring explicit.
type Dependencies struct {
	Context         context.Context
	Validator       *validator.Validate
	Limiter         ratelimit.Limiter
	MetricsRegistry *prometheus.Registry
	TracerProvider  trace.TracerProvider
}

// NewValidator provides the request payload validator used by HTTP handlers.
func NewValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// Tracer returns the default OpenTelemetry tracer for instrumentation hooks.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
