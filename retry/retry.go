package retry

// Retry provides a standardized interface for implementing retry logic
// with different strategies. The transport uses it to re-issue directory
// API calls that fail with a retryable HTTP status or a connection-level
// error; strategies control backoff, maximum attempts and early exit.
//
// Usage Example:
//
//	retry := retry.NewExponentialRetry(
//	    retry.WithInitialDuration(100*time.Millisecond),
//	    retry.WithLogger(myLogger),
//	)
//
//	err := retry.Do(3, "directory-call", func(attempt int) (error, retry.ExitStrategy) {
//	    res, err := send()
//	    if err != nil {
//	        if isRetriable(err) {
//	            return err, retry.Continue
//	        }
//	        return err, retry.StopNow
//	    }
//	    return nil, retry.StopNow
//	})
//
// The RetriableFn receives the current attempt number (0-based) and returns
// an error and an ExitStrategy. StopNow stops immediately regardless of
// remaining attempts; Continue keeps retrying until attempts is exhausted.
//
// NOTE: if attempts is 0, the fn is never called.
type Retry interface {
	Do(attempts int, fnName string, fn RetriableFn) error
}

type RetriableFn func(attempt int) (error, ExitStrategy)

type ExitStrategy bool

var StopNow ExitStrategy = true
var Continue ExitStrategy = false

// retryableStatuses are the HTTP statuses the directory API returns for
// transient conditions: throttling and upstream availability failures.
var retryableStatuses = map[int]struct{}{
	429: {},
	500: {},
	502: {},
	503: {},
	504: {},
}

// RetryableStatus reports whether an HTTP status code is worth retrying.
func RetryableStatus(code int) bool {
	_, ok := retryableStatuses[code]
	return ok
}
