package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gojek/heimdall/v7"

	"github.com/edudash/edudash/pkg/request"
	"github.com/edudash/edudash/pkg/request/httpclient"
)

const serviceName = "assistant"

type HTTPConfig struct {
	URL            string
	APIToken       string
	RetryCount     int
	ConnectionPool httpclient.ConnectionPoolConfig
	Hystrix        httpclient.HystrixResiliencyConfig
}

type askRequest struct {
	Query string `json:"query"`
}

type askResponse struct {
	Response string `json:"response"`
}

// HTTPClient posts {"query": ...} to a remote endpoint and expects
// {"response": ...} back
type HTTPClient struct {
	client   heimdall.Doer
	url      string
	apiToken string
}

func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.URL == "" {
		return nil, errors.New("assistant configuration is missing required field: URL")
	}

	client, err := httpclient.InitializeClient(
		serviceName,
		cfg.ConnectionPool,
		cfg.Hystrix,
		heimdall.NewRetrier(heimdall.NewConstantBackoff(100*time.Millisecond, 50*time.Millisecond)),
		cfg.RetryCount,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize http client: %w", err)
	}

	return &HTTPClient{
		client:   client,
		url:      cfg.URL,
		apiToken: cfg.APIToken,
	}, nil
}

func (c *HTTPClient) Ask(ctx context.Context, query string) (string, error) {
	body, err := json.Marshal(askRequest{Query: query})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := request.NewRequest(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return "", err
	}

	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	if c.apiToken != "" {
		headers["Authorization"] = "Bearer " + c.apiToken
	}
	req.SetHeaders(headers)

	data, status, err := req.MakeRequest(c.client, "assistant.Ask", serviceName)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d, response: %s", status, string(data))
	}

	var resp askResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.Response == "" {
		return "", errors.New("assistant returned an empty response")
	}
	return resp.Response, nil
}
