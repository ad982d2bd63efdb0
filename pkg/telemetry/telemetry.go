/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package telemetry sets up OpenTelemetry metrics for edudash.
package telemetry

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
)

var (
	meterProvider     *metric.MeterProvider
	meterProviderOnce sync.Once
	shutdownOnce      sync.Once
)

type Config struct {
	ServiceName    string
	ServiceVersion string
	OTLPEndpoint   string
	//default:false
	Insecure bool
	//default:false
	Enabled bool
}

// Init installs the global meter provider once
func Init(ctx context.Context, config Config) error {
	var initErr error
	meterProviderOnce.Do(func() {
		meterProvider, initErr = NewMeterProvider(ctx, config)
		if initErr != nil {
			return
		}
		otel.SetMeterProvider(meterProvider)
	})

	return initErr
}

// NewMeterProvider builds an OTLP/HTTP backed provider, or a provider without
// readers when telemetry is disabled
func NewMeterProvider(ctx context.Context, config Config) (*metric.MeterProvider, error) {
	if !config.Enabled {
		return metric.NewMeterProvider(), nil
	}
	if config.ServiceName == "" {
		return nil, fmt.Errorf("service name is required")
	}
	if config.OTLPEndpoint == "" {
		return nil, fmt.Errorf("OTLP endpoint is required")
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(config.ServiceName),
			semconv.ServiceVersion(config.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporterOpts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(normalizeEndpoint(config.OTLPEndpoint)),
	}
	if config.Insecure {
		exporterOpts = append(exporterOpts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	return metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(exporter)),
	), nil
}

// normalizeEndpoint strips scheme, path and query; the exporter wants host[:port]
func normalizeEndpoint(raw string) string {
	endpoint := strings.TrimSpace(raw)
	endpoint = strings.TrimPrefix(strings.ToLower(endpoint), "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")
	if idx := strings.Index(endpoint, "/"); idx != -1 {
		endpoint = endpoint[:idx]
	}
	if idx := strings.Index(endpoint, "?"); idx != -1 {
		endpoint = endpoint[:idx]
	}
	return endpoint
}

func Shutdown(ctx context.Context) error {
	var shutdownErr error
	shutdownOnce.Do(func() {
		if meterProvider != nil {
			shutdownErr = meterProvider.Shutdown(ctx)
		}
	})
	return shutdownErr
}

func GetMeter(name string, opts ...otelmetric.MeterOption) otelmetric.Meter {
	return otel.Meter(name, opts...)
}
