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

package request

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gojek/heimdall/v7"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edudash/edudash/pkg/request/httpclient"
)

func newClient(t *testing.T, name string, retries int) heimdall.Doer {
	t.Helper()
	client, err := httpclient.InitializeClient(
		name,
		httpclient.ConnectionPoolConfig{Timeout: 2000},
		httpclient.HystrixResiliencyConfig{},
		heimdall.NewRetrier(heimdall.NewConstantBackoff(time.Millisecond, time.Millisecond)),
		retries,
		nil,
	)
	require.NoError(t, err)
	return client
}

func TestMakeRequest(t *testing.T) {
	tracer := mocktracer.New()
	opentracing.SetGlobalTracer(tracer)
	t.Cleanup(func() { opentracing.SetGlobalTracer(opentracing.NoopTracer{}) })

	var gotAuth, gotBody, gotSpanHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotSpanHeader = r.Header.Get("Mockpfx-Ids-Spanid")
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	req, err := NewRequest(context.Background(), http.MethodPost, server.URL, []byte(`{"q":"hi"}`))
	require.NoError(t, err)
	req.SetHeaders(map[string]string{"Authorization": "Bearer token"})

	body, status, err := req.MakeRequest(newClient(t, "request-test-ok", 0), "test.Post", "test")
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, "Bearer token", gotAuth)
	assert.Equal(t, `{"q":"hi"}`, gotBody)
	assert.NotEmpty(t, gotSpanHeader, "span context is injected into the request")

	var names []string
	for _, span := range tracer.FinishedSpans() {
		names = append(names, span.OperationName)
	}
	assert.Contains(t, names, "test.Post")
}

func TestMakeRequest_RetriesServerErrors(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("done"))
	}))
	defer server.Close()

	req, err := NewRequest(context.Background(), http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	body, status, err := req.MakeRequest(newClient(t, "request-test-retry", 3), "test.Get", "test")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "done", string(body))
	assert.Equal(t, 3, calls)
}

func TestNewRequest_Validation(t *testing.T) {
	_, err := NewRequest(context.Background(), http.MethodGet, "", nil)
	assert.Error(t, err)

	req, err := NewRequest(context.Background(), "", "http://localhost", nil)
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, req.method)
}
