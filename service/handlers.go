package service

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sunkingbms/litmos-two/batch"
	"github.com/sunkingbms/litmos-two/logger"
	"github.com/sunkingbms/litmos-two/types"
)

// JobSubmitter accepts a record source for background processing.
// Satisfied by batch.Engine.
type JobSubmitter interface {
	Submit(source batch.RecordSource, op types.OperationKind) (string, error)
}

// JobReader exposes job progress. Satisfied by batch.Store.
type JobReader interface {
	Snapshot(id string) (types.JobSnapshot, bool)
}

// DeliveryHandler decides the broker response for one push delivery.
// Satisfied by push.Worker.
type DeliveryHandler interface {
	Handle(envelope types.PushEnvelope) types.Disposition
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

type acceptedResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// IntakeHandler serves the batch upload and status endpoints.
type IntakeHandler struct {
	engine JobSubmitter
	store  JobReader
	config Config
	logger logger.Logger
}

func NewIntakeHandler(engine JobSubmitter, store JobReader, config Config, log logger.Logger) *IntakeHandler {
	if log == nil {
		log = &logger.Noop{}
	}
	return &IntakeHandler{engine: engine, store: store, config: config, logger: log}
}

// ProcessCSV validates an uploaded delimited file and submits it as a
// background job. The row count is checked before any job exists: an
// out-of-bounds upload is refused synchronously and never touches the
// engine.
func (h *IntakeHandler) ProcessCSV(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "no file uploaded"})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "could not read uploaded file"})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "could not read uploaded file"})
	}

	count, err := batch.CountCSVRows(bytes.NewReader(data), h.config.MaxRecords)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "file is not valid CSV"})
	}
	if count < h.config.MinRecords {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("file has %d data rows; at least %d required", count, h.config.MinRecords),
		})
	}
	if count > h.config.MaxRecords {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("file has more than %d data rows; at most %d allowed", h.config.MaxRecords, h.config.MaxRecords),
		})
	}

	op := types.ParseOperation(c.FormValue("operation_type"))

	jobID, err := h.engine.Submit(batch.NewCSVSource(bytes.NewReader(data)), op)
	if err != nil {
		h.logger.Errorf("Job submission refused: %v", err)
		res := errorResponse{Error: "could not accept job"}
		if h.config.DevShowDetail {
			res.Detail = err.Error()
		}
		return c.JSON(http.StatusInternalServerError, res)
	}

	h.logger.Infof("Accepted %s job %s with %d rows", op, jobID, count)
	return c.JSON(http.StatusAccepted, acceptedResponse{JobID: jobID, Status: "accepted"})
}

// JobStatus returns the point-in-time snapshot for one job.
func (h *IntakeHandler) JobStatus(c echo.Context) error {
	snap, ok := h.store.Snapshot(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "job not found"})
	}
	return c.JSON(http.StatusOK, snap)
}

// PushHandler adapts broker push deliveries onto the delivery worker,
// mapping the abstract disposition to the wire status the broker
// understands: 2xx acknowledges, 4xx permanently rejects, 5xx requests
// redelivery.
type PushHandler struct {
	worker DeliveryHandler
	logger logger.Logger
}

func NewPushHandler(worker DeliveryHandler, log logger.Logger) *PushHandler {
	if log == nil {
		log = &logger.Noop{}
	}
	return &PushHandler{worker: worker, logger: log}
}

func (h *PushHandler) Receive(c echo.Context) error {
	var envelope types.PushEnvelope
	if err := c.Bind(&envelope); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "malformed push envelope"})
	}

	switch h.worker.Handle(envelope) {
	case types.Ack:
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	case types.Reject:
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "malformed push envelope"})
	default:
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "delivery failed, retry requested"})
	}
}
