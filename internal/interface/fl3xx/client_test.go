package fl3xx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flightwatch-service/internal/domain/repository"
	"flightwatch-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rosterPayload = `[
	{
		"bookingIdentifier": "ASP501",
		"airportFrom": "CYUL",
		"airportTo": "KBOS",
		"blockOffEstUTC": "2025-10-06T15:00:00Z",
		"blockOnEstUTC": "2025-10-06T18:15:00Z",
		"picName": "Doe",
		"sicName": "Roe",
		"accountName": "Demo",
		"registrationNumber": "C-GXYZ",
		"aircraftCategory": "CL35",
		"workflowCustomName": "Confirmed",
		"flightStatus": "Scheduled"
	},
	{
		"bookingReference": "ASP502",
		"airportFrom": "KBOS",
		"airportTo": "CYUL",
		"blockOffEstUTC": 1759762800,
		"takeOffUTC": "2025-10-06T15:10:00Z",
		"workflow": "Confirmed"
	}
]`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, server.Client(), logger.NewNop()), server
}

func TestFetchSnapshotArrayPayload(t *testing.T) {
	t.Parallel()

	var gotQuery map[string]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"from":     r.URL.Query().Get("from"),
			"to":       r.URL.Query().Get("to"),
			"timeZone": r.URL.Query().Get("timeZone"),
			"value":    r.URL.Query().Get("value"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(rosterPayload))
	})

	snapshot, err := client.FetchSnapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "UTC", gotQuery["timeZone"])
	assert.Equal(t, "ALL", gotQuery["value"])
	assert.NotEmpty(t, gotQuery["from"])
	assert.NotEmpty(t, gotQuery["to"])

	assert.Equal(t, "fl3xx_api", snapshot.Source)
	assert.NotEmpty(t, snapshot.Hash)
	require.Equal(t, 2, snapshot.FlightCount())

	first := snapshot.Legs[0]
	assert.Equal(t, "ASP501", first.Booking)
	assert.Equal(t, "CYUL", first.From)
	assert.Equal(t, "KBOS", first.To)
	require.NotNil(t, first.OffBlockSched)
	assert.Equal(t, time.Date(2025, 10, 6, 15, 0, 0, 0, time.UTC), *first.OffBlockSched)
	assert.Equal(t, "03:15", first.FlightTimeEst)
	assert.Equal(t, "Doe", first.PIC)
	assert.Equal(t, "C-GXYZ", first.Aircraft)
	assert.Equal(t, "Confirmed", first.Workflow)
	assert.Equal(t, "Scheduled", first.Status)

	second := snapshot.Legs[1]
	assert.Equal(t, "ASP502", second.Booking, "bookingReference is the fallback identifier")
	require.NotNil(t, second.OffBlockSched, "epoch block times must parse")
	require.NotNil(t, second.ActualTakeoff)
	assert.Empty(t, second.FlightTimeEst, "missing on-block leaves flight time blank")
}

func TestFetchSnapshotItemsPayload(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": [{"bookingIdentifier": "ASP501"}]}`))
	})

	snapshot, err := client.FetchSnapshot(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, snapshot.FlightCount())
	assert.Equal(t, "ASP501", snapshot.Legs[0].Booking)
}

func TestFetchSnapshotIdenticalPayloadsHashEqually(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rosterPayload))
	})

	first, err := client.FetchSnapshot(context.Background())
	require.NoError(t, err)
	second, err := client.FetchSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Hash, second.Hash)
}

func TestFetchSnapshotUpstreamFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"server error",
			func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) },
		},
		{
			"unparseable body",
			func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`"nonsense"`)) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client, _ := newTestClient(t, tt.handler)
			_, err := client.FetchSnapshot(context.Background())
			require.ErrorIs(t, err, repository.ErrSourceUnavailable)
		})
	}
}

func TestFetchSnapshotConnectionRefused(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := client.FetchSnapshot(context.Background())
	require.ErrorIs(t, err, repository.ErrSourceUnavailable)
}
