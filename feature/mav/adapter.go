package mav

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vonatinfo/core/geo"
	"vonatinfo/core/reconcile"
	"vonatinfo/feature/feeds"

	"go.uber.org/zap"
)

// Name is the source name of this feed.
const Name = "mav"

// ErrGraphQL is returned when the endpoint answers with GraphQL errors and no data.
var ErrGraphQL = errors.New("graphql error")

// Adapter implements reconcile.Adapter for the MÁV OTP feed.
type Adapter struct {
	cfg     Config
	http    *http.Client
	query   string
	tracker *geo.Tracker
	logger  *zap.Logger
	now     func() time.Time
}

// NewAdapter creates an Adapter.
func NewAdapter(cfg Config, logger *zap.Logger) *Adapter {
	return &Adapter{
		cfg:     cfg,
		http:    feeds.NewHTTPClient(cfg.Timeout),
		query:   vehicleQuery(cfg),
		tracker: geo.NewTracker(),
		logger:  logger.With(zap.String("feed", Name)),
		now:     time.Now,
	}
}

// Name implements reconcile.Adapter.
func (a *Adapter) Name() string { return Name }

// Authoritative implements reconcile.Adapter.
func (a *Adapter) Authoritative() bool { return false }

// Poll implements reconcile.Adapter.
func (a *Adapter) Poll(ctx context.Context) ([]reconcile.TripRecord, error) {
	var resp response
	headers := map[string]string{"User-Agent": a.cfg.UserAgent}
	body := graphQLRequest{Query: a.query, Variables: map[string]any{}}
	if err := feeds.PostJSON(ctx, a.http, a.cfg.URL, headers, body, &resp); err != nil {
		return nil, fmt.Errorf("mav poll: %w", err)
	}
	if resp.Data == nil {
		if len(resp.Errors) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrGraphQL, resp.Errors[0].Message)
		}
		return nil, fmt.Errorf("mav poll: %w: no data", feeds.ErrMalformedPayload)
	}

	out := make([]reconcile.TripRecord, 0, len(resp.Data.VehiclePositions))
	seen := make(map[string]struct{}, len(resp.Data.VehiclePositions))
	dropped := 0
	for _, v := range resp.Data.VehiclePositions {
		rec, ok := a.normalize(v)
		if !ok {
			dropped++
			continue
		}
		seen[rec.Key] = struct{}{}
		out = append(out, rec)
	}
	a.tracker.Forget(seen)

	if dropped > 0 {
		a.logger.Debug("Dropped unusable vehicles", zap.Int("count", dropped))
	}
	return out, nil
}

func (a *Adapter) normalize(v vehicle) (reconcile.TripRecord, bool) {
	if v.Trip == nil || v.Trip.TripShortName == "" || v.Lat == nil || v.Lon == nil {
		return reconcile.TripRecord{}, false
	}
	t := v.Trip

	observed := v.LastUpdated
	if observed <= 0 {
		observed = a.now().Unix()
	}

	rec := reconcile.TripRecord{
		Key: t.TripShortName,
		Position: reconcile.VehiclePosition{
			Source:     Name,
			VehicleID:  v.VehicleID,
			Lat:        *v.Lat,
			Lon:        *v.Lon,
			Heading:    v.Heading,
			Speed:      v.Speed,
			ObservedAt: observed,
		},
		ObservedAt: observed,
	}

	motion := a.tracker.Observe(rec.Key, geo.Fix{Lat: *v.Lat, Lon: *v.Lon, Unix: observed})
	if rec.Position.Heading == nil {
		rec.Position.Heading = motion.Heading
	}
	if rec.Position.Speed == nil {
		speed := motion.Speed
		rec.Position.Speed = &speed
	}

	if v.NextStop != nil {
		rec.NextStopDelay = v.NextStop.ArrivalDelay
	}
	if t.Route != nil {
		rec.RouteShortName = t.Route.ShortName
	}
	if t.TripGeometry != nil {
		rec.Geometry = t.TripGeometry.Points
	}
	for _, al := range t.Alerts {
		if txt := strings.TrimSpace(al.AlertDescriptionText); txt != "" {
			rec.Alerts = append(rec.Alerts, txt)
		}
	}
	if len(rec.Alerts) > 0 {
		rec.Status = rec.Alerts[0]
	}

	for _, st := range t.Stoptimes {
		if st.ScheduledArrival == nil && st.ScheduledDeparture == nil {
			continue
		}
		arr, dep := st.ScheduledArrival, st.ScheduledDeparture
		if arr == nil {
			arr = dep
		}
		if dep == nil {
			dep = arr
		}
		s := reconcile.StopTime{
			ScheduledArrival:   *arr,
			ArrivalDelay:       st.ArrivalDelay,
			ScheduledDeparture: *dep,
			DepartureDelay:     st.DepartureDelay,
		}
		if st.Stop != nil {
			s.Name = st.Stop.Name
			s.Platform = st.Stop.PlatformCode
		}
		rec.Schedule = append(rec.Schedule, s)
	}

	var fallback *int
	if as := t.ArrivalStoptime; as != nil {
		if as.Stop != nil {
			rec.Headsign = as.Stop.Name
		}
		if as.ScheduledArrival != nil {
			fa := *as.ScheduledArrival
			if as.ArrivalDelay != nil {
				fa += *as.ArrivalDelay
			}
			fallback = &fa
		}
	}
	rec.Finalize(fallback)
	return rec, true
}
