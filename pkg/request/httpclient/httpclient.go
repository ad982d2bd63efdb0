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

// Package httpclient builds retrying, circuit-broken HTTP clients on heimdall.
package httpclient

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gojek/heimdall/v7"
	"github.com/gojek/heimdall/v7/hystrix"
	"github.com/opentracing-contrib/go-stdlib/nethttp"
)

// ConnectionPoolConfig tunes the underlying transport. Durations are in milliseconds.
type ConnectionPoolConfig struct {
	Timeout               int `mapstructure:"timeout"`
	KeepAliveTimeout      int `mapstructure:"keepAliveTimeout"`
	MaxIdleConnections    int `mapstructure:"maxIdleConnections"`
	IdleConnectionTimeout int `mapstructure:"idleConnectionTimeout"`
}

// HystrixResiliencyConfig configures the circuit breaker. Durations are in milliseconds.
type HystrixResiliencyConfig struct {
	MaxConcurrentRequests     int `mapstructure:"maxConcurrentRequests"`
	RequestVolumeThreshold    int `mapstructure:"requestVolumeThreshold"`
	CircuitBreakerSleepWindow int `mapstructure:"circuitBreakerSleepWindow"`
	ErrorPercentThreshold     int `mapstructure:"errorPercentThreshold"`
	CircuitBreakerTimeout     int `mapstructure:"circuitBreakerTimeout"`
}

const (
	defaultTimeout               = 10000
	defaultKeepAliveTimeout      = 30000
	defaultMaxIdleConnections    = 10
	defaultIdleConnectionTimeout = 90000

	defaultMaxConcurrentRequests  = 100
	defaultRequestVolumeThreshold = 20
	defaultSleepWindow            = 5000
	defaultErrorPercentThreshold  = 50
)

func withDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

// InitializeClient returns a hystrix command named name whose requests are
// traced with opentracing and retried by retrier up to retryCount times.
// A nil transport uses a pooled http.Transport built from poolCfg.
func InitializeClient(
	name string,
	poolCfg ConnectionPoolConfig,
	hystrixCfg HystrixResiliencyConfig,
	retrier heimdall.Retriable,
	retryCount int,
	transport http.RoundTripper,
) (*hystrix.Client, error) {
	if name == "" {
		return nil, errors.New("http client name is required")
	}
	if retryCount < 0 {
		return nil, errors.New("retry count must not be negative")
	}

	if retrier == nil {
		retrier = heimdall.NewNoRetrier()
	}

	timeout := ms(withDefault(poolCfg.Timeout, defaultTimeout))

	if transport == nil {
		transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: ms(withDefault(poolCfg.KeepAliveTimeout, defaultKeepAliveTimeout)),
			}).DialContext,
			MaxIdleConns:        withDefault(poolCfg.MaxIdleConnections, defaultMaxIdleConnections),
			MaxIdleConnsPerHost: withDefault(poolCfg.MaxIdleConnections, defaultMaxIdleConnections),
			IdleConnTimeout:     ms(withDefault(poolCfg.IdleConnectionTimeout, defaultIdleConnectionTimeout)),
		}
	}

	hystrixTimeout := timeout
	if hystrixCfg.CircuitBreakerTimeout > 0 {
		hystrixTimeout = ms(hystrixCfg.CircuitBreakerTimeout)
	}

	client := hystrix.NewClient(
		hystrix.WithCommandName(name),
		hystrix.WithHTTPTimeout(timeout),
		hystrix.WithHystrixTimeout(hystrixTimeout),
		hystrix.WithMaxConcurrentRequests(withDefault(hystrixCfg.MaxConcurrentRequests, defaultMaxConcurrentRequests)),
		hystrix.WithRequestVolumeThreshold(withDefault(hystrixCfg.RequestVolumeThreshold, defaultRequestVolumeThreshold)),
		hystrix.WithSleepWindow(withDefault(hystrixCfg.CircuitBreakerSleepWindow, defaultSleepWindow)),
		hystrix.WithErrorPercentThreshold(withDefault(hystrixCfg.ErrorPercentThreshold, defaultErrorPercentThreshold)),
		hystrix.WithRetrier(retrier),
		hystrix.WithRetryCount(retryCount),
		hystrix.WithHTTPClient(&http.Client{
			Timeout:   timeout,
			Transport: &nethttp.Transport{RoundTripper: transport},
		}),
	)
	return client, nil
}
