package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/todos", "GET", 200, 5*time.Millisecond)
	m.RecordRequest("/todos", "GET", 200, 7*time.Millisecond)
	m.RecordRequest("/auth/login", "POST", 401, time.Millisecond)
	m.RecordError("/auth/login", "POST", "INVALID_CREDENTIALS")

	requests, errorCounts := m.Snapshot()
	assert.Equal(t, int64(2), requests["/todos|GET|200"])
	assert.Equal(t, int64(1), requests["/auth/login|POST|401"])
	assert.Equal(t, int64(1), errorCounts["/auth/login|POST|INVALID_CREDENTIALS"])
}

func TestMetricsSnapshotIsACopy(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/todos", "GET", 200, time.Millisecond)

	requests, _ := m.Snapshot()
	requests["/todos|GET|200"] = 99

	fresh, _ := m.Snapshot()
	assert.Equal(t, int64(1), fresh["/todos|GET|200"])
}

func TestMetricsNilReceiver(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/todos", "GET", 200, time.Millisecond)
	m.RecordError("/todos", "GET", "INTERNAL_ERROR")

	requests, errorCounts := m.Snapshot()
	require.Nil(t, requests)
	require.Nil(t, errorCounts)
}
