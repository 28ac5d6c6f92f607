package litmos_two

import (
	"net/http"

	"github.com/sunkingbms/litmos-two/api"
)

// Client is the entry point for callers embedding the directory client
// directly: one pooled HTTP client and one Directory shared by every
// concurrent operation.
type Client struct {
	httpClient *http.Client
	directory  *api.Directory
}

func NewClient(baseURL string, credentials api.Credentials, opts ...ConfigOption) *Client {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	httpClient := &http.Client{}
	httpClient.Transport = cfg.transport
	httpClient.Timeout = cfg.timeout

	directory := api.NewDirectory(api.Config{
		BaseURL:     baseURL,
		ActionURL:   cfg.actionURL,
		Credentials: credentials,
		HttpClient:  httpClient,
		Logger:      cfg.logger,
		Limiter:     cfg.limiter,
		Retry:       cfg.retry,
		MaxAttempts: cfg.maxAttempts,
		Diag:        cfg.diag,
	})

	return &Client{
		httpClient: httpClient,
		directory:  directory,
	}
}

func (c *Client) Directory() *api.Directory {
	return c.directory
}
