package api

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sunkingbms/litmos-two/diag"
	"github.com/sunkingbms/litmos-two/logger"
	"github.com/sunkingbms/litmos-two/parsers"
)

// bodyPreviewLimit caps how much of an unclassifiable body is surfaced
// as a failure reason.
const bodyPreviewLimit = 1000

var htmlPrefixes = []string{"<!DOCTYPE", "<html", "<HTML"}

// Classifier turns a raw HTTP outcome into (ok, value). It tells an
// intentional JSON/XML payload apart from the HTML error pages the API
// serves on outages, so operators can distinguish infra failure from
// data failure. Anomalies are also recorded for postmortem.
type Classifier struct {
	Logger logger.Logger
	Diag   diag.Recorder
}

func NewClassifier(log logger.Logger, d diag.Recorder) *Classifier {
	if log == nil {
		log = &logger.Noop{}
	}
	if d == nil {
		d = &diag.Noop{}
	}
	return &Classifier{Logger: log, Diag: d}
}

// Classify applies the rules in order:
//  1. nil result -> (false, "no-response")
//  2. 204 -> (true, nil)
//  3. status >= 500 -> (false, "Server error (<status>)")
//  4. HTML content type or doctype/tag prefix -> (false, html-page reason)
//  5. JSON content type or {/[ prefix -> parse, (true, value) or parse failure
//  6. XML content type or < prefix -> nested-map parse
//  7. anything else -> (false, first 1000 chars of body)
func (c *Classifier) Classify(res *RawResult) (bool, any) {
	if res == nil {
		return false, "no-response"
	}

	status := res.StatusCode
	ct := strings.ToLower(res.ContentType)
	text := string(res.Body)
	trimmed := strings.TrimSpace(text)

	if status == 204 {
		return true, nil
	}

	if status >= 500 {
		c.Logger.Warnf("Server error (status=%d): %s", status, preview(text, 500))
		return false, fmt.Sprintf("Server error (%d)", status)
	}

	if strings.Contains(ct, "html") || hasAnyPrefix(trimmed, htmlPrefixes) {
		c.Logger.Warnf("Received HTML response instead of JSON/XML (status=%d)", status)
		c.Diag.Record(diag.Event{
			Error:       "html_response_instead_of_json",
			Status:      status,
			ContentType: res.ContentType,
			BodyPreview: preview(text, bodyPreviewLimit),
		})
		return false, fmt.Sprintf("API returned HTML error page (status %d)", status)
	}

	if strings.Contains(ct, "json") ||
		strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var value any
		if err := json.Unmarshal([]byte(trimmed), &value); err != nil {
			c.Logger.Warnf(
				"JSON parse error: %v. Content-Type=%s, Body preview=%s",
				err, res.ContentType, preview(text, 200),
			)
			c.Diag.Record(diag.Event{
				Error:       "json_parse_failed",
				Status:      status,
				ContentType: res.ContentType,
				BodyPreview: preview(text, 500),
			})
			return false, fmt.Sprintf("Invalid JSON response: %v", err)
		}
		return true, value
	}

	if strings.Contains(ct, "xml") || strings.HasPrefix(trimmed, "<") {
		value, err := parsers.XmlToMap([]byte(trimmed))
		if err != nil {
			c.Logger.Warnf("XML parse error: %v", err)
			return false, fmt.Sprintf("Invalid XML response: %v", err)
		}
		return true, value
	}

	return false, preview(text, bodyPreviewLimit)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func preview(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
