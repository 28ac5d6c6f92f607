package rate

import "net/http"

// Limiter controls the request rate against the directory API.
//
// The Limit method is called before each outbound attempt and may block
// to maintain the desired request rate. Implementations can use the
// request information (method, path, etc.) to apply different limits to
// different endpoints. This keeps bulk jobs from tripping the API's
// throttling responses in the first place, instead of only reacting to
// 429s after the fact.
type Limiter interface {
	// Limit applies rate limiting to the given request, blocking if
	// necessary until the request may proceed.
	Limit(req *http.Request)
}
