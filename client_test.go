package litmos_two

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sunkingbms/litmos-two/api"
	"github.com/sunkingbms/litmos-two/rate"
)

var testCredentials = api.Credentials{
	ApiKey:      "__API__KEY__",
	BearerToken: "__TOKEN__",
	Source:      "usertool",
}

type fakeTransport struct{}

func (f *fakeTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, http.ErrHandlerTimeout
}

func Test_newClient(t *testing.T) {
	c := NewClient("https://api.litmos.test/v1.svc", testCredentials)
	assert.NotNil(t, c)
	assert.NotNil(t, c.Directory())
	assert.Equal(t, 30*time.Second, c.httpClient.Timeout)
	assert.NotNil(t, c.httpClient.Transport)
}

func Test_newClient_opts(t *testing.T) {
	tt := &fakeTransport{}
	c := NewClient(
		"https://api.litmos.test/v1.svc",
		testCredentials,
		WithTimeout(1*time.Second),
		WithTransport(tt),
		WithRateLimiter(&rate.NoopLimiter{}),
	)
	assert.Equal(t, 1*time.Second, c.httpClient.Timeout)
	assert.Equal(t, tt, c.httpClient.Transport)
}

func Test_config_WithTransport(t *testing.T) {
	c := config{}
	WithTransport(&fakeTransport{})(&c)
	assert.NotNil(t, c.transport)
}

func Test_config_WithTimeout(t *testing.T) {
	c := config{}
	WithTimeout(2 * time.Second)(&c)
	assert.Equal(t, 2*time.Second, c.timeout)
}

func Test_config_WithMaxAttempts(t *testing.T) {
	c := config{}
	WithMaxAttempts(5)(&c)
	assert.Equal(t, 5, c.maxAttempts)
}

func Test_config_WithActionURL(t *testing.T) {
	c := config{}
	WithActionURL("https://hooks.litmos.test/action")(&c)
	assert.Equal(t, "https://hooks.litmos.test/action", c.actionURL)
}
