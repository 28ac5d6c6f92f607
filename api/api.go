package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sunkingbms/litmos-two/diag"
	"github.com/sunkingbms/litmos-two/errors"
	"github.com/sunkingbms/litmos-two/logger"
	"github.com/sunkingbms/litmos-two/metrics"
	"github.com/sunkingbms/litmos-two/rate"
	"github.com/sunkingbms/litmos-two/retry"
)

// Credentials carries both authentication variants the directory API
// exposes: the apikey header used by the lookup/update endpoints and the
// bearer token used by the row-level action endpoint.
type Credentials struct {
	ApiKey      string
	BearerToken string
	// Source tags lookup queries with the calling application name.
	Source string
}

type authStyle int

const (
	authApiKey authStyle = iota
	authBearer
)

// RawResult is the transport's view of one completed HTTP exchange.
// A nil *RawResult means no response was received at all.
type RawResult struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// BodyPreview returns at most n characters of the response body.
func (r *RawResult) BodyPreview(n int) string {
	if r == nil {
		return ""
	}
	body := string(r.Body)
	if len(body) > n {
		return body[:n]
	}
	return body
}

// Config wires the shared pieces of the retrying transport.
type Config struct {
	BaseURL     string
	ActionURL   string
	Credentials Credentials
	HttpClient  *http.Client
	Logger      logger.Logger
	Limiter     rate.Limiter
	Retry       retry.Retry
	MaxAttempts int
	Diag        diag.Recorder
}

func (c *Config) applyDefaults() {
	if c.HttpClient == nil {
		c.HttpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.Logger == nil {
		c.Logger = &logger.Noop{}
	}
	if c.Limiter == nil {
		c.Limiter = &rate.NoopLimiter{}
	}
	if c.Retry == nil {
		c.Retry = retry.NewExponentialRetry(
			retry.WithInitialDuration(500*time.Millisecond),
			retry.WithLogger(c.Logger),
		)
	}
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 3
	}
	if c.Diag == nil {
		c.Diag = &diag.Noop{}
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.ActionURL == "" {
		c.ActionURL = c.BaseURL + "/users"
	}
}

// apiClient is the retrying transport shared by every directory call.
// One instance (and one pooled http.Client) serves all concurrent batch
// and push operations.
type apiClient struct {
	config     Config
	httpClient *http.Client
	logger     logger.Logger
}

func newApiClient(config Config) *apiClient {
	config.applyDefaults()
	return &apiClient{
		config:     config,
		httpClient: config.HttpClient,
		logger:     config.Logger,
	}
}

// send issues one logical request, retrying on connection-level failures
// and on the retryable status family (429, 500, 502, 503, 504) with
// exponential backoff. Any other status is returned as-is. A nil result
// with a TYPE_IO error means every attempt failed without a response;
// callers treat that as "no-response", distinct from an HTTP error.
func (c *apiClient) send(
	httpMethod string,
	endpoint string,
	reqData any,
	auth authStyle,
) (*RawResult, *errors.ApiError) {
	var data []byte
	if reqData != nil {
		var jsonErr error
		data, jsonErr = json.Marshal(reqData)
		if jsonErr != nil {
			return nil, &errors.ApiError{
				Stage:     errors.STAGE_BEFORE_REQUEST,
				Type:      errors.TYPE_JSON_PARSE,
				SourceErr: jsonErr,
			}
		}
	}

	var result *RawResult
	var lastErr *errors.ApiError

	_ = c.config.Retry.Do(
		c.config.MaxAttempts,
		"api.send",
		func(attempt int) (error, retry.ExitStrategy) {
			if attempt > 0 {
				metrics.RetryAttempts.Inc()
			}

			req, err := c.newRequest(httpMethod, endpoint, data, auth)
			if err != nil {
				lastErr = &errors.ApiError{
					Stage:     errors.STAGE_BEFORE_REQUEST,
					Type:      errors.TYPE_REQUEST_PREP,
					SourceErr: err,
				}
				return lastErr, retry.StopNow
			}

			c.config.Limiter.Limit(req)

			res, err := c.httpClient.Do(req)
			if err != nil {
				lastErr = &errors.ApiError{
					Stage:     errors.STAGE_REQUEST,
					Type:      errors.TYPE_IO,
					SourceErr: err,
				}
				return lastErr, retry.Continue
			}

			var body []byte
			if res.Body != nil {
				body, _ = io.ReadAll(res.Body)
				_ = res.Body.Close()
			}

			result = &RawResult{
				StatusCode:  res.StatusCode,
				ContentType: res.Header.Get("Content-Type"),
				Body:        body,
			}
			lastErr = nil

			if retry.RetryableStatus(res.StatusCode) {
				return &errors.ApiError{
					Stage:          errors.STAGE_AFTER_REQUEST,
					Type:           errors.TYPE_HTTP_STATUS,
					Body:           body,
					HttpStatusCode: res.StatusCode,
				}, retry.Continue
			}
			return nil, retry.StopNow
		},
	)

	if result == nil {
		c.logger.Errorf("HTTP request error %s %s: %v", httpMethod, endpoint, lastErr)
		c.config.Diag.Record(diag.Event{
			URL:   endpoint,
			Error: lastErr.Error(),
		})
		return nil, lastErr
	}

	c.observeAnomalies(endpoint, result)
	return result, nil
}

func (c *apiClient) newRequest(
	httpMethod string,
	endpoint string,
	data []byte,
	auth authStyle,
) (*http.Request, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(httpMethod, endpoint, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	switch auth {
	case authBearer:
		req.Header.Set("Authorization", "Bearer "+c.config.Credentials.BearerToken)
	default:
		req.Header.Set("apikey", c.config.Credentials.ApiKey)
	}
	return req, nil
}

// observeAnomalies writes a diagnostic record when the response shape is
// suspicious: an HTML body, or an error status carrying neither JSON nor
// XML. The SaaS API serves HTML error pages on outages and auth problems
// instead of the documented formats.
func (c *apiClient) observeAnomalies(endpoint string, res *RawResult) {
	ct := strings.ToLower(res.ContentType)
	ok := res.StatusCode >= 200 && res.StatusCode < 300
	if strings.Contains(ct, "html") ||
		(!ok && !strings.Contains(ct, "json") && !strings.Contains(ct, "xml")) {
		c.logger.Warnf(
			"Unexpected response from %s (status=%d ct=%s)",
			endpoint, res.StatusCode, res.ContentType,
		)
		c.config.Diag.Record(diag.Event{
			URL:         endpoint,
			Status:      res.StatusCode,
			ContentType: res.ContentType,
			BodyPreview: res.BodyPreview(2000),
		})
	}
}
