package reconcile

import "encoding/json"

// The full roster is served in the shape of the upstream vehicle-position
// document so that existing map clients keep working.

type wireStop struct {
	Name         string  `json:"name"`
	PlatformCode *string `json:"platformCode,omitempty"`
}

type wireStopTime struct {
	Stop               wireStop `json:"stop"`
	ScheduledArrival   int      `json:"scheduledArrival"`
	ArrivalDelay       *int     `json:"arrivalDelay"`
	ScheduledDeparture int      `json:"scheduledDeparture"`
	DepartureDelay     *int     `json:"departureDelay"`
}

type wireArrival struct {
	ScheduledArrival *int     `json:"scheduledArrival"`
	ArrivalDelay     *int     `json:"arrivalDelay"`
	Stop             wireStop `json:"stop"`
}

type wireAlert struct {
	AlertDescriptionText string `json:"alertDescriptionText"`
}

type wireRoute struct {
	ShortName string `json:"shortName"`
}

type wireGeometry struct {
	Points string `json:"points"`
}

type wireTrip struct {
	ArrivalStoptime wireArrival    `json:"arrivalStoptime"`
	Alerts          []wireAlert    `json:"alerts"`
	TripShortName   string         `json:"tripShortName"`
	Route           wireRoute      `json:"route"`
	Stoptimes       []wireStopTime `json:"stoptimes"`
	TripGeometry    wireGeometry   `json:"tripGeometry"`
}

type wireRecord struct {
	VehicleID   string    `json:"vehicleId"`
	Source      string    `json:"source"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	Heading     *float64  `json:"heading"`
	Speed       *float64  `json:"speed"`
	LastUpdated int64     `json:"lastUpdated"`
	NextStop    *NextStop `json:"nextStop"`
	Status      string    `json:"status,omitempty"`
	Trip        wireTrip  `json:"trip"`
}

// MarshalJSON encodes the record in the vehicle-position document shape.
func (r TripRecord) MarshalJSON() ([]byte, error) {
	w := wireRecord{
		VehicleID:   r.Position.VehicleID,
		Source:      r.Position.Source,
		Lat:         r.Position.Lat,
		Lon:         r.Position.Lon,
		Heading:     r.Position.Heading,
		Speed:       r.Position.Speed,
		LastUpdated: r.ObservedAt,
		Status:      r.Status,
		Trip: wireTrip{
			Alerts:        make([]wireAlert, 0, len(r.Alerts)),
			TripShortName: r.Key,
			Route:         wireRoute{ShortName: r.RouteShortName},
			Stoptimes:     make([]wireStopTime, 0, len(r.Schedule)),
			TripGeometry:  wireGeometry{Points: r.Geometry},
		},
	}
	if r.NextStopDelay != nil {
		w.NextStop = &NextStop{ArrivalDelay: r.NextStopDelay}
	}

	for _, a := range r.Alerts {
		w.Trip.Alerts = append(w.Trip.Alerts, wireAlert{AlertDescriptionText: a})
	}
	for _, st := range r.Schedule {
		w.Trip.Stoptimes = append(w.Trip.Stoptimes, wireStopTime{
			Stop:               wireStop{Name: st.Name, PlatformCode: st.Platform},
			ScheduledArrival:   st.ScheduledArrival,
			ArrivalDelay:       st.ArrivalDelay,
			ScheduledDeparture: st.ScheduledDeparture,
			DepartureDelay:     st.DepartureDelay,
		})
	}

	w.Trip.ArrivalStoptime.Stop.Name = r.Destination()
	if n := len(r.Schedule); n > 0 {
		last := r.Schedule[n-1]
		sa := last.ScheduledArrival
		w.Trip.ArrivalStoptime.ScheduledArrival = &sa
		w.Trip.ArrivalStoptime.ArrivalDelay = last.ArrivalDelay
	} else if r.FinalArrival != nil {
		fa := *r.FinalArrival
		w.Trip.ArrivalStoptime.ScheduledArrival = &fa
	}

	return json.Marshal(w)
}

// VehiclePositions wraps the full roster.
type VehiclePositions struct {
	VehiclePositions []TripRecord `json:"vehiclePositions"`
}

// FullDocument is the served and mirrored form of the full roster:
// {"data":{"vehiclePositions":[...]}}.
type FullDocument struct {
	Data VehiclePositions `json:"data"`
}

// LightDocument is the served and mirrored form of the light roster:
// {"data":[...]}.
type LightDocument struct {
	Data []LightRecord `json:"data"`
}

// FullDocument returns the full roster document of s.
func (s *Snapshot) FullDocument() FullDocument {
	full := s.FullRoster()
	if full == nil {
		full = []TripRecord{}
	}
	return FullDocument{Data: VehiclePositions{VehiclePositions: full}}
}

// LightDocument returns the light roster document of s.
func (s *Snapshot) LightDocument() LightDocument {
	light := s.LightRoster()
	if light == nil {
		light = []LightRecord{}
	}
	return LightDocument{Data: light}
}
