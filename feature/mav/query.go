package mav

import (
	"fmt"
	"strings"
)

// vehicleQuery renders the vehiclePositions query for the configured box.
func vehicleQuery(cfg Config) string {
	modes := cfg.Modes
	if len(modes) == 0 {
		modes = []string{"RAIL"}
	}
	return fmt.Sprintf(`{
  vehiclePositions(swLat: %g, swLon: %g, neLat: %g, neLon: %g, modes: [%s]) {
    vehicleId
    lat
    lon
    heading
    speed
    lastUpdated
    nextStop { arrivalDelay }
    trip {
      arrivalStoptime { scheduledArrival arrivalDelay stop { name } }
      alerts(types: [ROUTE, TRIP]) { alertDescriptionText }
      tripShortName
      route { shortName }
      stoptimes {
        stop { name platformCode }
        scheduledArrival
        arrivalDelay
        scheduledDeparture
        departureDelay
      }
      tripGeometry { points }
    }
  }
}`, cfg.SwLat, cfg.SwLon, cfg.NeLat, cfg.NeLon, strings.Join(modes, ", "))
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type response struct {
	Data *struct {
		VehiclePositions []vehicle `json:"vehiclePositions"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type vehicle struct {
	VehicleID   string   `json:"vehicleId"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
	Heading     *float64 `json:"heading"`
	Speed       *float64 `json:"speed"`
	LastUpdated int64    `json:"lastUpdated"`
	NextStop    *struct {
		ArrivalDelay *int `json:"arrivalDelay"`
	} `json:"nextStop"`
	Trip *trip `json:"trip"`
}

type stop struct {
	Name         string  `json:"name"`
	PlatformCode *string `json:"platformCode"`
}

type trip struct {
	ArrivalStoptime *struct {
		ScheduledArrival *int `json:"scheduledArrival"`
		ArrivalDelay     *int `json:"arrivalDelay"`
		Stop             *stop `json:"stop"`
	} `json:"arrivalStoptime"`
	Alerts []struct {
		AlertDescriptionText string `json:"alertDescriptionText"`
	} `json:"alerts"`
	TripShortName string `json:"tripShortName"`
	Route         *struct {
		ShortName string `json:"shortName"`
	} `json:"route"`
	Stoptimes []struct {
		Stop               *stop `json:"stop"`
		ScheduledArrival   *int  `json:"scheduledArrival"`
		ArrivalDelay       *int  `json:"arrivalDelay"`
		ScheduledDeparture *int  `json:"scheduledDeparture"`
		DepartureDelay     *int  `json:"departureDelay"`
	} `json:"stoptimes"`
	TripGeometry *struct {
		Points string `json:"points"`
	} `json:"tripGeometry"`
}
