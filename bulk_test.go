package litmos_two

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBulkClient() *Client {
	return NewClient(
		"https://api.litmos.test/v1.svc",
		testCredentials,
		WithTransport(&fakeTransport{}),
	)
}

func Test_newBulk(t *testing.T) {
	b := NewBulk(newBulkClient())
	require.NotNil(t, b)
	assert.NotNil(t, b.Engine())
	assert.NotNil(t, b.Store())
	assert.NotNil(t, b.PushWorker())
}

func Test_newBulk_opts(t *testing.T) {
	b := NewBulk(
		newBulkClient(),
		WithBulkWorkers(8),
		WithBulkMaxInflight(3),
		WithBulkMaxRecords(50),
		WithBulkSubmitDelay(-1),
		WithBulkJobTTL(time.Hour),
		WithBulkAckRemoteRejections(true),
	)
	assert.Equal(t, 8, b.config.workers)
	assert.Equal(t, 3, b.config.maxInflight)
	assert.Equal(t, 50, b.config.maxRecords)
	assert.Equal(t, time.Duration(-1), b.config.submitDelay)
	assert.Equal(t, time.Hour, b.config.jobTTL)
	assert.True(t, b.config.ackRemoteRejections)
}

func Test_Bulk_start_stop(t *testing.T) {
	b := NewBulk(newBulkClient(), WithBulkSubmitDelay(-1))

	b.Start()
	b.Start()
	b.Stop()
	b.Stop()
}
