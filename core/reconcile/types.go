package reconcile

import "time"

// VehiclePosition is one source's live location sample for one vehicle.
type VehiclePosition struct {
	// Source names the feed that produced the sample (e.g., "mav", "oebb").
	Source string

	// VehicleID is the provider's vehicle identifier. It is not unique for
	// every provider and is never used as a merge key.
	VehicleID string

	// Lat and Lon are WGS84 coordinates in degrees.
	Lat float64
	Lon float64

	// Heading in degrees clockwise from north. Nil when unknown.
	Heading *float64

	// Speed in km/h. Nil when unknown.
	Speed *float64

	// ObservedAt is the sample time in epoch seconds.
	ObservedAt int64
}

// StopTime is one stop of a trip's schedule. All times are seconds since
// local midnight of the service day and may exceed 86400 for trips that run
// past midnight.
type StopTime struct {
	// Name is the station name.
	Name string

	// Platform is the platform code, if the provider reports one.
	Platform *string

	// ScheduledArrival at this stop. Equals ScheduledDeparture at the origin.
	ScheduledArrival int

	// ArrivalDelay in seconds. Nil when unknown.
	ArrivalDelay *int

	// ScheduledDeparture from this stop. Equals ScheduledArrival at the terminus.
	ScheduledDeparture int

	// DepartureDelay in seconds. Nil when unknown.
	DepartureDelay *int
}

// TripRecord is the canonical merged state of one trip.
type TripRecord struct {
	// Key is the trip short name, e.g. "63 railjet xpress".
	Key string

	// Position is the latest accepted vehicle sample.
	Position VehiclePosition

	// Schedule in travel order. Empty when enrichment failed or never ran.
	Schedule []StopTime

	// FinalArrival is the last stop's scheduled arrival plus its delay.
	// Nil when no schedule information is available.
	FinalArrival *int

	// ObservedAt is the newest observation time of any contributing sample.
	ObservedAt int64

	// Status is a short free-text annotation, such as which source's
	// enrichment narrative applies.
	Status string

	// RouteShortName is the route label shown on the map.
	RouteShortName string

	// Headsign is the destination reported by the provider. Used when the
	// schedule is empty.
	Headsign string

	// NextStopDelay is the arrival delay at the next stop in seconds.
	NextStopDelay *int

	// Alerts are provider alert texts attached to the trip.
	Alerts []string

	// Geometry is the encoded polyline of the trip path, if known.
	Geometry string
}

// Destination returns the final stop name, falling back to the headsign.
func (r *TripRecord) Destination() string {
	if n := len(r.Schedule); n > 0 && r.Schedule[n-1].Name != "" {
		return r.Schedule[n-1].Name
	}
	return r.Headsign
}

// NextStop carries the delay towards the next stop.
type NextStop struct {
	ArrivalDelay *int `json:"arrivalDelay"`
}

// LightRecord is the flattened projection served to the live map.
type LightRecord struct {
	VehicleID      string    `json:"vehicleId"`
	Lat            float64   `json:"lat"`
	Lon            float64   `json:"lon"`
	Heading        *float64  `json:"heading"`
	Speed          *float64  `json:"speed"`
	LastUpdated    int64     `json:"lastUpdated"`
	NextStop       *NextStop `json:"nextStop"`
	TripShortName  string    `json:"tripShortName"`
	TripHeadsign   string    `json:"tripHeadsign"`
	RouteShortName string    `json:"routeShortName"`
}

// Light projects r onto a LightRecord.
func (r *TripRecord) Light() LightRecord {
	lr := LightRecord{
		VehicleID:      r.Position.VehicleID,
		Lat:            r.Position.Lat,
		Lon:            r.Position.Lon,
		Heading:        r.Position.Heading,
		Speed:          r.Position.Speed,
		LastUpdated:    r.ObservedAt,
		TripShortName:  r.Key,
		TripHeadsign:   r.Destination(),
		RouteShortName: r.RouteShortName,
	}
	if r.NextStopDelay != nil {
		d := *r.NextStopDelay
		lr.NextStop = &NextStop{ArrivalDelay: &d}
	}
	return lr
}

// Batch is one adapter poll result handed to the engine.
type Batch struct {
	// Source is the adapter name.
	Source string

	// Authoritative makes every candidate replace an existing record under
	// the same key without the precedence check.
	Authoritative bool

	// Candidates are the normalized records of this poll.
	Candidates []TripRecord
}

// Outcome is the result of merging one candidate.
type Outcome string

const (
	// OutcomeInserted means no record existed for the key.
	OutcomeInserted Outcome = "inserted"
	// OutcomeReplaced means the candidate won the precedence check.
	OutcomeReplaced Outcome = "replaced"
	// OutcomeOverridden means an authoritative source replaced the record.
	OutcomeOverridden Outcome = "overridden"
	// OutcomeRejected means the candidate refers to an already arrived run
	// while the stored trip is still in progress.
	OutcomeRejected Outcome = "rejected"
	// OutcomeKept means the candidate was neither newer nor further along.
	OutcomeKept Outcome = "kept"
	// OutcomeSkipped means the candidate had no key.
	OutcomeSkipped Outcome = "skipped"
)

// MergeStats counts merge outcomes for one batch.
type MergeStats map[Outcome]int

// EvictionReason explains why the sweeper removed a record.
type EvictionReason string

const (
	// EvictStale is used when no sample arrived within the inactivity cutoff.
	EvictStale EvictionReason = "stale"
	// EvictArrived is used when the final arrival plus grace has passed.
	EvictArrived EvictionReason = "arrived"
)

// Eviction is a record removed by the sweeper.
type Eviction struct {
	Record TripRecord
	Reason EvictionReason
	At     time.Time
}

// Cycle describes one completed merge, sweep and publish pass.
type Cycle struct {
	// Source is the adapter whose batch triggered the cycle.
	Source string
	// Snapshot is the snapshot published by this cycle.
	Snapshot *Snapshot
	// Stats are the merge outcomes.
	Stats MergeStats
	// Evicted lists the records removed by the sweeper.
	Evicted []Eviction
	// Duration of merge, sweep and publish.
	Duration time.Duration
}
