package types

// JobStatus is the lifecycle state of one batch run.
// Queued -> Running -> {Completed, CompletedWithErrors, Failed}.
// Terminal states are sticky.
type JobStatus string

const (
	JobQueued              JobStatus = "queued"
	JobRunning             JobStatus = "running"
	JobCompleted           JobStatus = "completed"
	JobCompletedWithErrors JobStatus = "completed_with_errors"
	JobFailed              JobStatus = "failed"
)

// Terminal reports whether no further transitions are allowed.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobCompleted, JobCompletedWithErrors, JobFailed:
		return true
	}
	return false
}

// JobError is one per-record failure entry, captured only for failed
// records to bound memory.
type JobError struct {
	RowIndex int    `json:"row_index"`
	Reason   string `json:"error"`
	Record   Record `json:"row,omitempty"`
}

// JobSnapshot is a point-in-time, eventually-consistent view of a job.
// Readers may observe a momentarily stale done count; it only ever
// advances.
type JobSnapshot struct {
	ID     string     `json:"job_id"`
	Status JobStatus  `json:"status"`
	Total  int        `json:"total"`
	Done   int        `json:"done"`
	Errors []JobError `json:"errors"`
}
