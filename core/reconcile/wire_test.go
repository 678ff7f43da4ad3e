package reconcile

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTripRecord_MarshalJSON(t *testing.T) {
	platform := "5"
	r := TripRecord{
		Key:            "63 railjet xpress",
		Position:       VehiclePosition{Source: "oebb", VehicleID: "railjet", Lat: 47.9, Lon: 17.6},
		ObservedAt:     1700000000,
		Status:         "Vonatpozíció az ÖBB adatai alapján",
		RouteShortName: "RJX",
		NextStopDelay:  intp(180),
		Alerts:         []string{"Vonatpozíció az ÖBB adatai alapján"},
		Schedule: []StopTime{
			{Name: "Budapest-Keleti", Platform: &platform, ScheduledArrival: 30000, ScheduledDeparture: 30000},
			{Name: "Wien Hbf", ScheduledArrival: 40000, ArrivalDelay: intp(120), ScheduledDeparture: 40000},
		},
	}
	r.Finalize(nil)

	b, err := json.Marshal(r)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))

	assert.Equal(t, "railjet", doc["vehicleId"])
	assert.Equal(t, float64(1700000000), doc["lastUpdated"])
	assert.Equal(t, float64(180), doc["nextStop"].(map[string]any)["arrivalDelay"])
	assert.Nil(t, doc["heading"])

	tripDoc := doc["trip"].(map[string]any)
	assert.Equal(t, "63 railjet xpress", tripDoc["tripShortName"])
	assert.Equal(t, "RJX", tripDoc["route"].(map[string]any)["shortName"])

	arrival := tripDoc["arrivalStoptime"].(map[string]any)
	assert.Equal(t, float64(40000), arrival["scheduledArrival"])
	assert.Equal(t, float64(120), arrival["arrivalDelay"])
	assert.Equal(t, "Wien Hbf", arrival["stop"].(map[string]any)["name"])

	stops := tripDoc["stoptimes"].([]any)
	require.Len(t, stops, 2)
	first := stops[0].(map[string]any)
	assert.Equal(t, "5", first["stop"].(map[string]any)["platformCode"])

	alerts := tripDoc["alerts"].([]any)
	assert.Equal(t, "Vonatpozíció az ÖBB adatai alapján", alerts[0].(map[string]any)["alertDescriptionText"])
}

func TestTripRecord_MarshalJSONWithoutSchedule(t *testing.T) {
	r := TripRecord{Key: "9", Headsign: "Győr", FinalArrival: intp(5000)}

	b, err := json.Marshal(r)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))

	tripDoc := doc["trip"].(map[string]any)
	assert.Empty(t, tripDoc["stoptimes"])
	assert.Nil(t, doc["nextStop"])
	arrival := tripDoc["arrivalStoptime"].(map[string]any)
	assert.Equal(t, float64(5000), arrival["scheduledArrival"])
	assert.Equal(t, "Győr", arrival["stop"].(map[string]any)["name"])
}

func TestSnapshot_Documents(t *testing.T) {
	empty := NewPublisher().Current()

	b, err := json.Marshal(empty.FullDocument())
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"vehiclePositions":[]}}`, string(b))

	b, err = json.Marshal(empty.LightDocument())
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[]}`, string(b))

	pub := NewPublisher()
	snap, err := pub.Publish([]TripRecord{{Key: "7012", Position: VehiclePosition{VehicleID: "v"}}}, time.Unix(0, 0))
	require.NoError(t, err)

	b, err = json.Marshal(snap.LightDocument())
	require.NoError(t, err)
	var light struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(b, &light))
	require.Len(t, light.Data, 1)
	assert.Equal(t, "7012", light.Data[0]["tripShortName"])
}
