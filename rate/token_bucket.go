package rate

import (
	"context"
	"net/http"

	xrate "golang.org/x/time/rate"
)

// TokenBucketLimiter throttles outbound requests with a token bucket.
// All endpoints share one bucket; the directory API throttles per key,
// not per path.
type TokenBucketLimiter struct {
	limiter *xrate.Limiter
}

var _ Limiter = &TokenBucketLimiter{}

// NewTokenBucket allows rps requests per second with the given burst.
func NewTokenBucket(rps float64, burst int) *TokenBucketLimiter {
	return &TokenBucketLimiter{
		limiter: xrate.NewLimiter(xrate.Limit(rps), burst),
	}
}

func (t *TokenBucketLimiter) Limit(req *http.Request) {
	ctx := context.Background()
	if req != nil {
		ctx = req.Context()
	}
	// Wait only errors when the context is done; the request will fail
	// on its own once the transport sees the cancelled context.
	_ = t.limiter.Wait(ctx)
}
