// Package diag records anomalous API events to an append-only JSONL file
// for postmortem inspection. Nothing in the hot path ever reads it back,
// and recording must never fail or block the caller: a recorder that
// cannot write drops the event.
package diag

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sunkingbms/litmos-two/logger"
)

// Event is one diagnostic record. Response anomalies fill When/URL/Status/
// ContentType/BodyPreview; internal faults fill When/Error/Trace.
type Event struct {
	When        string `json:"when"`
	URL         string `json:"url,omitempty"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	BodyPreview string `json:"body_preview,omitempty"`
	Error       string `json:"error,omitempty"`
	Trace       string `json:"trace,omitempty"`
}

type Recorder interface {
	Record(ev Event)
}

type Noop struct {
}

var _ Recorder = &Noop{}

func (n Noop) Record(_ Event) {
}

type fileRecorder struct {
	path   string
	logger logger.Logger

	mu sync.Mutex
}

var _ Recorder = &fileRecorder{}

// NewFileRecorder appends events to <dir>/debug.jsonl, creating the
// directory if needed.
func NewFileRecorder(dir string, log logger.Logger) Recorder {
	if log == nil {
		log = &logger.Noop{}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Errorf("diag: cannot create log dir %s: %v", dir, err)
	}
	return &fileRecorder{
		path:   filepath.Join(dir, "debug.jsonl"),
		logger: log,
	}
}

func (f *fileRecorder) Record(ev Event) {
	if ev.When == "" {
		ev.When = time.Now().UTC().Format(time.RFC3339)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	fh, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		f.logger.Errorf("diag: failed to open %s: %v", f.path, err)
		return
	}
	defer func() { _ = fh.Close() }()

	if err := json.NewEncoder(fh).Encode(ev); err != nil {
		f.logger.Errorf("diag: failed to write event: %v", err)
	}
}
