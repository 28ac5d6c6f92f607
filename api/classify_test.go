package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sunkingbms/litmos-two/diag"
	"github.com/sunkingbms/litmos-two/logger"
)

type captureDiag struct {
	events []diag.Event
}

func (c *captureDiag) Record(ev diag.Event) {
	c.events = append(c.events, ev)
}

func Test_Classify(t *testing.T) {
	testCases := []struct {
		name        string
		res         *RawResult
		expectOk    bool
		expectValue any
		expectDiag  int
	}{
		{
			name:        "nil result",
			res:         nil,
			expectOk:    false,
			expectValue: "no-response",
		},
		{
			name:        "204 no content",
			res:         &RawResult{StatusCode: 204},
			expectOk:    true,
			expectValue: nil,
		},
		{
			name:        "server error",
			res:         &RawResult{StatusCode: 503, Body: []byte("unavailable")},
			expectOk:    false,
			expectValue: "Server error (503)",
		},
		{
			name: "html content type regardless of status",
			res: &RawResult{
				StatusCode:  200,
				ContentType: "text/html; charset=utf-8",
				Body:        []byte("<html><body>login</body></html>"),
			},
			expectOk:    false,
			expectValue: "API returned HTML error page (status 200)",
			expectDiag:  1,
		},
		{
			name: "html doctype sniffed without content type",
			res: &RawResult{
				StatusCode: 403,
				Body:       []byte("<!DOCTYPE html><html></html>"),
			},
			expectOk:    false,
			expectValue: "API returned HTML error page (status 403)",
			expectDiag:  1,
		},
		{
			name: "valid json with 201",
			res: &RawResult{
				StatusCode:  201,
				ContentType: "application/json",
				Body:        []byte(`{"Id":"u-1"}`),
			},
			expectOk:    true,
			expectValue: map[string]any{"Id": "u-1"},
		},
		{
			name: "json sniffed by brace prefix",
			res: &RawResult{
				StatusCode: 200,
				Body:       []byte(`  [1, 2]`),
			},
			expectOk:    true,
			expectValue: []any{float64(1), float64(2)},
		},
		{
			name: "invalid json",
			res: &RawResult{
				StatusCode:  200,
				ContentType: "application/json",
				Body:        []byte(`{"Id":`),
			},
			expectOk:   false,
			expectDiag: 1,
		},
		{
			name: "xml mapped to nested maps",
			res: &RawResult{
				StatusCode:  200,
				ContentType: "application/xml",
				Body:        []byte(`<User><Id>u-1</Id><Active>true</Active></User>`),
			},
			expectOk:    true,
			expectValue: map[string]any{"Id": "u-1", "Active": "true"},
		},
		{
			name: "xml sniffed by angle prefix",
			res: &RawResult{
				StatusCode: 200,
				Body:       []byte(`<Status>ok</Status>`),
			},
			expectOk:    true,
			expectValue: "ok",
		},
		{
			name: "invalid xml",
			res: &RawResult{
				StatusCode:  200,
				ContentType: "text/xml",
				Body:        []byte(`<User><Id>`),
			},
			expectOk: false,
		},
		{
			name: "plain text falls through truncated",
			res: &RawResult{
				StatusCode:  200,
				ContentType: "text/plain",
				Body:        []byte(strings.Repeat("x", 1500)),
			},
			expectOk:    false,
			expectValue: strings.Repeat("x", 1000),
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			d := &captureDiag{}
			c := NewClassifier(&logger.Noop{}, d)

			ok, value := c.Classify(tt.res)

			assert.Equal(t, tt.expectOk, ok)
			if tt.expectValue != nil || tt.expectOk {
				assert.Equal(t, tt.expectValue, value)
			}
			assert.Len(t, d.events, tt.expectDiag)
		})
	}
}

func Test_Classify_error_reasons(t *testing.T) {
	c := NewClassifier(nil, nil)

	_, value := c.Classify(&RawResult{
		StatusCode:  200,
		ContentType: "application/json",
		Body:        []byte(`{"broken":`),
	})
	assert.True(t, strings.HasPrefix(value.(string), "Invalid JSON response:"))

	_, value = c.Classify(&RawResult{
		StatusCode:  200,
		ContentType: "text/xml",
		Body:        []byte(`<a><b>`),
	})
	assert.True(t, strings.HasPrefix(value.(string), "Invalid XML response:"))
}
