package logger

// Logger is the logging contract used across the litmos-two packages.
// Library code never constructs a concrete logger; it accepts this
// interface and defaults to Noop, so callers can plug in their preferred
// implementation (zap, logrus, standard log) or silence logging entirely.
//
// The logger is used for:
// - directory API request/response debugging
// - batch job progress and per-row failures
// - retry attempt tracking
// - push delivery dispositions
//
// Usage Example:
//
//	client := litmos_two.NewClient(baseURL, creds, litmos_two.WithLogger(myLogger))
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
