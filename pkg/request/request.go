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

// Package request wraps outgoing HTTP calls with tracing and logging.
package request

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gojek/heimdall/v7"
	"github.com/opentracing-contrib/go-stdlib/nethttp"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/sirupsen/logrus"

	"github.com/edudash/edudash/pkg/logger"
)

type Request struct {
	ctx     context.Context
	method  string
	url     string
	body    []byte
	headers map[string]string
}

// NewRequest prepares a request; it is not sent until MakeRequest
func NewRequest(ctx context.Context, method, url string, body []byte) (*Request, error) {
	if url == "" {
		return nil, fmt.Errorf("request url is required")
	}
	if method == "" {
		method = http.MethodGet
	}
	return &Request{
		ctx:     ctx,
		method:  method,
		url:     url,
		body:    body,
		headers: make(map[string]string),
	}, nil
}

func (r *Request) SetHeaders(headers map[string]string) {
	for k, v := range headers {
		r.headers[k] = v
	}
}

// MakeRequest sends the request with client inside an opentracing span named
// methodName and returns the body and status code.
// Non-2xx responses are returned without error; callers decide.
func (r *Request) MakeRequest(client heimdall.Doer, methodName, service string) ([]byte, int, error) {
	span, ctx := opentracing.StartSpanFromContext(r.ctx, methodName)
	defer span.Finish()
	ext.Component.Set(span, service)

	var body io.Reader
	if len(r.body) > 0 {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	req, ht := nethttp.TraceRequest(opentracing.GlobalTracer(), req, nethttp.OperationName(methodName))
	defer ht.Finish()

	log := logger.Logger(ctx).WithFields(logrus.Fields{
		"service": service,
		"method":  methodName,
	})

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		ext.Error.Set(span, true)
		log.WithError(err).Warn("request failed")
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	ext.HTTPStatusCode.Set(span, uint16(resp.StatusCode))
	log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("request completed")
	return data, resp.StatusCode, nil
}
