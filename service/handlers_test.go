package service_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunkingbms/litmos-two/batch"
	"github.com/sunkingbms/litmos-two/service"
	"github.com/sunkingbms/litmos-two/types"
)

type fakeSubmitter struct {
	jobID string
	err   error

	lastOp     types.OperationKind
	lastSource batch.RecordSource
	calls      int
}

func (f *fakeSubmitter) Submit(source batch.RecordSource, op types.OperationKind) (string, error) {
	f.calls++
	f.lastSource = source
	f.lastOp = op
	if f.err != nil {
		return "", f.err
	}
	return f.jobID, nil
}

type fakeReader struct {
	snaps map[string]types.JobSnapshot
}

func (f *fakeReader) Snapshot(id string) (types.JobSnapshot, bool) {
	snap, ok := f.snaps[id]
	return snap, ok
}

func csvOf(rows int) string {
	var b strings.Builder
	b.WriteString("username,email\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "user%d,user%d@example.com\n", i, i)
	}
	return b.String()
}

func multipartCSV(t *testing.T, csvBody, operationType string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fw, err := w.CreateFormFile("file", "users.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csvBody))
	require.NoError(t, err)
	require.NoError(t, w.WriteField("operation_type", operationType))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/process-csv", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func newIntakeServer(submitter *fakeSubmitter, reader *fakeReader, cfg service.Config) *echo.Echo {
	server := service.NewServer()
	service.RegisterIntakeRoutes(server, service.NewIntakeHandler(submitter, reader, cfg, nil))
	return server
}

var intakeConfig = service.Config{MinRecords: 2, MaxRecords: 5}

func Test_ProcessCSV_accepts_valid_upload(t *testing.T) {
	submitter := &fakeSubmitter{jobID: "job-1"}
	server := newIntakeServer(submitter, &fakeReader{}, intakeConfig)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, multipartCSV(t, csvOf(3), "activation"))

	require.Equal(t, http.StatusAccepted, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "job-1", body["job_id"])
	assert.Equal(t, "accepted", body["status"])

	require.Equal(t, 1, submitter.calls)
	assert.Equal(t, types.Activate, submitter.lastOp)

	first, err := submitter.lastSource.Next()
	require.NoError(t, err)
	assert.Equal(t, "user0", first["username"])
}

func Test_ProcessCSV_defaults_to_deactivation(t *testing.T) {
	submitter := &fakeSubmitter{jobID: "job-1"}
	server := newIntakeServer(submitter, &fakeReader{}, intakeConfig)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, multipartCSV(t, csvOf(3), "deactivation"))

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, types.Deactivate, submitter.lastOp)
}

func Test_ProcessCSV_rejects_undersized_upload(t *testing.T) {
	submitter := &fakeSubmitter{jobID: "job-1"}
	server := newIntakeServer(submitter, &fakeReader{}, intakeConfig)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, multipartCSV(t, csvOf(1), "deactivation"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "at least 2")
	assert.Equal(t, 0, submitter.calls)
}

func Test_ProcessCSV_rejects_oversized_upload(t *testing.T) {
	submitter := &fakeSubmitter{jobID: "job-1"}
	server := newIntakeServer(submitter, &fakeReader{}, intakeConfig)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, multipartCSV(t, csvOf(9), "deactivation"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "at most 5")
	assert.Equal(t, 0, submitter.calls)
}

func Test_ProcessCSV_rejects_missing_file(t *testing.T) {
	server := newIntakeServer(&fakeSubmitter{}, &fakeReader{}, intakeConfig)

	req := httptest.NewRequest(http.MethodPost, "/api/process-csv", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_ProcessCSV_rejects_invalid_csv(t *testing.T) {
	server := newIntakeServer(&fakeSubmitter{}, &fakeReader{}, intakeConfig)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, multipartCSV(t, "username,email\n\"broken,row\n", "deactivation"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_ProcessCSV_submit_failure_detail_gated(t *testing.T) {
	submitter := &fakeSubmitter{err: fmt.Errorf("batch engine is not running")}

	server := newIntakeServer(submitter, &fakeReader{}, intakeConfig)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, multipartCSV(t, csvOf(3), "deactivation"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "not running")

	dev := intakeConfig
	dev.DevShowDetail = true
	server = newIntakeServer(submitter, &fakeReader{}, dev)
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, multipartCSV(t, csvOf(3), "deactivation"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "not running")
}

func Test_JobStatus_found(t *testing.T) {
	reader := &fakeReader{snaps: map[string]types.JobSnapshot{
		"job-7": {
			ID:     "job-7",
			Status: types.JobCompletedWithErrors,
			Total:  35,
			Done:   35,
			Errors: []types.JobError{{RowIndex: 3, Reason: "500:Server error"}},
		},
	}}
	server := newIntakeServer(&fakeSubmitter{}, reader, intakeConfig)

	req := httptest.NewRequest(http.MethodGet, "/api/job-status/job-7", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var snap types.JobSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, types.JobCompletedWithErrors, snap.Status)
	assert.Equal(t, 35, snap.Done)
	require.Len(t, snap.Errors, 1)
	assert.Equal(t, 3, snap.Errors[0].RowIndex)
}

func Test_JobStatus_unknown_job(t *testing.T) {
	server := newIntakeServer(&fakeSubmitter{}, &fakeReader{}, intakeConfig)

	req := httptest.NewRequest(http.MethodGet, "/api/job-status/nope", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "job not found")
}

type fakeDelivery struct {
	disposition types.Disposition
	envelopes   []types.PushEnvelope
}

func (f *fakeDelivery) Handle(envelope types.PushEnvelope) types.Disposition {
	f.envelopes = append(f.envelopes, envelope)
	return f.disposition
}

func pushRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/pubsub/push", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func Test_Push_disposition_to_status(t *testing.T) {
	tests := []struct {
		disposition types.Disposition
		wantStatus  int
	}{
		{types.Ack, http.StatusOK},
		{types.Reject, http.StatusBadRequest},
		{types.RetryRequested, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.disposition.String(), func(t *testing.T) {
			worker := &fakeDelivery{disposition: tc.disposition}
			server := service.NewServer()
			service.RegisterPushRoutes(server, service.NewPushHandler(worker, nil))

			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, pushRequest(`{"message":{"data":"e30=","messageId":"m-1"}}`))

			assert.Equal(t, tc.wantStatus, rec.Code)
			require.Len(t, worker.envelopes, 1)
			assert.Equal(t, "m-1", worker.envelopes[0].Message.MessageID)
		})
	}
}

func Test_Push_rejects_unparseable_body(t *testing.T) {
	worker := &fakeDelivery{disposition: types.Ack}
	server := service.NewServer()
	service.RegisterPushRoutes(server, service.NewPushHandler(worker, nil))

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, pushRequest(`{not json`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, worker.envelopes)
}

func Test_Health(t *testing.T) {
	server := service.NewServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
