package oebb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vonatinfo/core/geo"
	"vonatinfo/core/reconcile"
	"vonatinfo/core/utils"
	"vonatinfo/feature/feeds"
	"vonatinfo/feature/timetable"

	"go.uber.org/zap"
)

const (
	// Name is the source name of this feed.
	Name = "oebb"
	// VehicleID is reported for every railjet; HAFAS exposes no vehicle ids.
	VehicleID = "railjet"
	// Annotation marks records positioned from ÖBB data.
	Annotation = "Vonatpozíció az ÖBB adatai alapján"
	// RouteLabel renders the railjet pictogram on the map.
	RouteLabel = `<span class="MNR2007">&#481;</span>`
)

// ErrGate is returned when HAFAS reports a request-level error.
var ErrGate = errors.New("hafas gate error")

// Enricher resolves schedules by train number.
type Enricher interface {
	Enrich(ctx context.Context, trainNumbers []string) map[string]timetable.Result
}

// Adapter implements reconcile.Adapter for the ÖBB HAFAS feed.
type Adapter struct {
	cfg      Config
	http     *http.Client
	enricher Enricher
	tracker  *geo.Tracker
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewAdapter creates an Adapter. enricher may be nil, in which case records
// carry no schedule.
func NewAdapter(cfg Config, enricher Enricher, loc *time.Location, logger *zap.Logger) *Adapter {
	return &Adapter{
		cfg:      cfg,
		http:     feeds.NewHTTPClient(cfg.Timeout),
		enricher: enricher,
		tracker:  geo.NewTracker(),
		loc:      loc,
		logger:   logger.With(zap.String("feed", Name)),
		now:      time.Now,
	}
}

// Name implements reconcile.Adapter.
func (a *Adapter) Name() string { return Name }

// Authoritative implements reconcile.Adapter.
func (a *Adapter) Authoritative() bool { return true }

// Poll implements reconcile.Adapter.
func (a *Adapter) Poll(ctx context.Context) ([]reconcile.TripRecord, error) {
	now := a.now()
	req := newGateRequest(a.cfg, now.In(a.loc).Format("20060102"))

	var resp gateResponse
	if err := feeds.PostJSON(ctx, a.http, a.cfg.URL, nil, req, &resp); err != nil {
		return nil, fmt.Errorf("oebb poll: %w", err)
	}
	if resp.Err != "" && resp.Err != "OK" {
		return nil, fmt.Errorf("%w: %s", ErrGate, resp.Err)
	}
	if len(resp.SvcResL) == 0 {
		return nil, fmt.Errorf("oebb poll: %w: no service result", feeds.ErrMalformedPayload)
	}
	svc := resp.SvcResL[0]
	if svc.Err != "" && svc.Err != "OK" {
		return nil, fmt.Errorf("%w: %s", ErrGate, svc.Err)
	}

	records, numbers := a.normalize(svc.Res.JnyL, svc.Res.Common.ProdL, now.Unix())
	a.enrich(ctx, records, numbers)
	return records, nil
}

func (a *Adapter) normalize(journeys []journey, products []product, observed int64) ([]reconcile.TripRecord, []string) {
	records := make([]reconcile.TripRecord, 0, len(journeys))
	numbers := make([]string, 0, len(journeys))
	seen := make(map[string]struct{}, len(journeys))
	category := strings.ToLower(a.cfg.Category)

	for _, j := range journeys {
		if j.Pos == nil || j.ProdX == nil || *j.ProdX < 0 || *j.ProdX >= len(products) {
			continue
		}
		prod := products[*j.ProdX]
		cat := prod.ProdCtx.CatOutL
		if category != "" && !strings.Contains(strings.ToLower(cat), category) {
			continue
		}
		nr := utils.LeadingNumber(prod.Name)
		if nr == "" {
			continue
		}
		key := nr + " " + cat
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		lat := float64(j.Pos.Y) / 1e6
		lon := float64(j.Pos.X) / 1e6
		rec := reconcile.TripRecord{
			Key: key,
			Position: reconcile.VehiclePosition{
				Source:     Name,
				VehicleID:  VehicleID,
				Lat:        lat,
				Lon:        lon,
				ObservedAt: observed,
			},
			ObservedAt:     observed,
			Status:         Annotation,
			Alerts:         []string{Annotation},
			RouteShortName: RouteLabel,
			Headsign:       j.DirTxt,
		}

		// The gate reports neither heading nor speed. A train seen for the
		// first time or standing still gets zero speed and no heading.
		motion := a.tracker.Observe(key, geo.Fix{Lat: lat, Lon: lon, Unix: observed})
		speed := motion.Speed
		rec.Position.Heading = motion.Heading
		rec.Position.Speed = &speed

		// stopL[2] is the next stop ahead of the train.
		if len(j.StopL) > 2 {
			next := j.StopL[2]
			rec.NextStopDelay = utils.Delay(utils.OptionalHHMMSS(next.ATimeS), utils.OptionalHHMMSS(next.ATimeR))
		}

		records = append(records, rec)
		numbers = append(numbers, nr)
	}
	a.tracker.Forget(seen)
	return records, numbers
}

// enrich attaches schedules. A failed lookup leaves that record with an
// empty schedule and no final arrival; its headsign stays the direction text.
func (a *Adapter) enrich(ctx context.Context, records []reconcile.TripRecord, numbers []string) {
	var results map[string]timetable.Result
	if a.enricher != nil && len(numbers) > 0 {
		results = a.enricher.Enrich(ctx, numbers)
	}

	failed := 0
	for i := range records {
		res, ok := results[numbers[i]]
		if ok && res.Err == nil && len(res.Stops) > 0 {
			records[i].Schedule = append([]reconcile.StopTime(nil), res.Stops...)
		} else if a.enricher != nil {
			failed++
		}
		records[i].Finalize(nil)
	}
	if failed > 0 {
		a.logger.Warn("Railjets without schedule", zap.Int("count", failed), zap.Int("total", len(records)))
	}
}
