package mav

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"vonatinfo/feature/feeds"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const samplePositions = `{
  "data": {
    "vehiclePositions": [
      {
        "vehicleId": "mav-1", "lat": 47.5, "lon": 19.04, "heading": 90.0, "speed": 80.5,
        "lastUpdated": 1736930000,
        "nextStop": {"arrivalDelay": 120},
        "trip": {
          "arrivalStoptime": {"scheduledArrival": 30000, "arrivalDelay": 60, "stop": {"name": "Szeged"}},
          "alerts": [{"alertDescriptionText": "Pályafelújítás"}, {"alertDescriptionText": " "}],
          "tripShortName": "7012",
          "route": {"shortName": "IC"},
          "stoptimes": [
            {"stop": {"name": "Budapest-Nyugati", "platformCode": "10"}, "scheduledArrival": 25000, "arrivalDelay": null, "scheduledDeparture": 25000, "departureDelay": 0},
            {"stop": {"name": "Szeged", "platformCode": null}, "scheduledArrival": 34000, "arrivalDelay": 180, "scheduledDeparture": 34000, "departureDelay": null}
          ],
          "tripGeometry": {"points": "abc"}
        }
      },
      {
        "vehicleId": "mav-2", "lat": 47.1, "lon": 20.2, "heading": null, "speed": null,
        "lastUpdated": 1736930010,
        "nextStop": null,
        "trip": {
          "arrivalStoptime": {"scheduledArrival": 86200, "arrivalDelay": 300, "stop": {"name": "Debrecen"}},
          "alerts": [],
          "tripShortName": "6230",
          "route": {"shortName": "S"},
          "stoptimes": [],
          "tripGeometry": null
        }
      },
      {"vehicleId": "ghost", "lat": 47.0, "lon": 19.0, "lastUpdated": 1736930000, "trip": null},
      {"vehicleId": "nameless", "lat": 47.0, "lon": 19.0, "lastUpdated": 1736930000, "trip": {"tripShortName": ""}}
    ]
  }
}`

func newTestAdapter(url string) *Adapter {
	cfg := Config{
		Enabled: true, URL: url, Timeout: time.Second, UserAgent: "Mozilla/5.0",
		SwLat: 45.7457, SwLon: 16.2103, NeLat: 48.5637, NeLon: 22.9067,
		Modes: []string{"RAIL", "TRAMTRAIN"},
	}
	return NewAdapter(cfg, zap.NewNop())
}

func TestAdapter_Poll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Mozilla/5.0", r.Header.Get("User-Agent"))
		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Query, "swLat: 45.7457")
		assert.Contains(t, req.Query, "modes: [RAIL, TRAMTRAIN]")
		_, _ = w.Write([]byte(samplePositions))
	}))
	defer srv.Close()

	a := newTestAdapter(srv.URL)
	assert.Equal(t, "mav", a.Name())
	assert.False(t, a.Authoritative())

	records, err := a.Poll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	ic := records[0]
	assert.Equal(t, "7012", ic.Key)
	assert.Equal(t, "mav", ic.Position.Source)
	assert.Equal(t, int64(1736930000), ic.ObservedAt)
	assert.Equal(t, 90.0, *ic.Position.Heading)
	assert.Equal(t, 80.5, *ic.Position.Speed)
	assert.Equal(t, 120, *ic.NextStopDelay)
	assert.Equal(t, "IC", ic.RouteShortName)
	assert.Equal(t, "abc", ic.Geometry)
	assert.Equal(t, []string{"Pályafelújítás"}, ic.Alerts)
	assert.Equal(t, "Pályafelújítás", ic.Status)
	require.Len(t, ic.Schedule, 2)
	assert.Equal(t, "10", *ic.Schedule[0].Platform)
	assert.Nil(t, ic.Schedule[1].Platform)
	// The schedule wins over arrivalStoptime.
	assert.Equal(t, 34180, *ic.FinalArrival)
	assert.Equal(t, "Szeged", ic.Destination())

	s := records[1]
	assert.Equal(t, "6230", s.Key)
	assert.Nil(t, s.Position.Heading)
	assert.Nil(t, s.NextStopDelay)
	assert.Empty(t, s.Schedule)
	assert.Equal(t, 86500, *s.FinalArrival)
	assert.Equal(t, "Debrecen", s.Destination())
	assert.True(t, s.SpansMidnight())
}

func TestAdapter_PollDerivesMissingHeading(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		lat := 47.0 + float64(n-1)*0.01
		body := map[string]any{"data": map[string]any{"vehiclePositions": []any{
			map[string]any{
				"vehicleId": "v", "lat": lat, "lon": 19.0, "lastUpdated": 1736930000 + int64(n)*10,
				"trip": map[string]any{"tripShortName": "100"},
			},
		}}}
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	a := newTestAdapter(srv.URL)

	first, err := a.Poll(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Nil(t, first[0].Position.Heading)
	require.NotNil(t, first[0].Position.Speed)
	assert.Equal(t, 0.0, *first[0].Position.Speed)

	second, err := a.Poll(context.Background())
	require.NoError(t, err)
	require.Len(t, second, 1)
	require.NotNil(t, second[0].Position.Heading)
	assert.InDelta(t, 0.0, *second[0].Position.Heading, 0.5)
	// 0.01 degrees of latitude in ten seconds is about 400 km/h.
	require.NotNil(t, second[0].Position.Speed)
	assert.InDelta(t, 400.3, *second[0].Position.Speed, 2.0)
}

func TestAdapter_PollFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"ServerError", http.StatusBadGateway, "", feeds.ErrUpstreamStatus},
		{"NotJSON", http.StatusOK, "<html>", feeds.ErrMalformedPayload},
		{"GraphQLError", http.StatusOK, `{"errors":[{"message":"boom"}]}`, ErrGraphQL},
		{"NoData", http.StatusOK, `{}`, feeds.ErrMalformedPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			records, err := newTestAdapter(srv.URL).Poll(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, records)
		})
	}
}

func TestVehicleQuery_DefaultsModes(t *testing.T) {
	q := vehicleQuery(Config{SwLat: 1, SwLon: 2, NeLat: 3, NeLon: 4})
	assert.Contains(t, q, "modes: [RAIL]")
	assert.Contains(t, q, "neLon: 4")
}
