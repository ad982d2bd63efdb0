package assistant

import (
	"fmt"

	"github.com/edudash/edudash/pkg/config"
)

const (
	DriverCanned = "canned"
	DriverHTTP   = "http"
)

// New builds the client selected by cfg.Driver
func New(cfg config.AssistantConfig) (Client, error) {
	switch cfg.Driver {
	case "", DriverCanned:
		return NewCannedClient(), nil
	case DriverHTTP:
		return NewHTTPClient(HTTPConfig{
			URL:            cfg.URL,
			APIToken:       cfg.APIToken,
			RetryCount:     cfg.RetryCount,
			ConnectionPool: cfg.ConnectionPool,
			Hystrix:        cfg.Hystrix,
		})
	default:
		return nil, fmt.Errorf("unsupported assistant driver: %s", cfg.Driver)
	}
}
