package timetable

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"vonatinfo/core/reconcile"
	"vonatinfo/core/utils"
	"vonatinfo/feature/feeds"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// ErrNoSchedule is returned when the upstream knows no schedule for a train.
var ErrNoSchedule = errors.New("no schedule for train")

type request struct {
	Type        string `json:"type"`
	TravelDate  string `json:"travelDate"`
	MinCount    string `json:"minCount"`
	MaxCount    string `json:"maxCount"`
	TrainNumber string `json:"trainNumber"`
}

type station struct {
	Name string `json:"name"`
}

type schedulerEntry struct {
	Station                 station `json:"station"`
	EndTrack                *string `json:"endTrack"`
	Arrive                  *string `json:"arrive"`
	ActualOrEstimatedArrive *string `json:"actualOrEstimatedArrive"`
	Start                   *string `json:"start"`
	ActualOrEstimatedStart  *string `json:"actualOrEstimatedStart"`
}

type response struct {
	TrainSchedulerDetails []struct {
		Scheduler []schedulerEntry `json:"scheduler"`
	} `json:"trainSchedulerDetails"`
}

// Result is the enrichment outcome for one train number.
type Result struct {
	Stops []reconcile.StopTime
	Err   error
}

// Client looks up stop-by-stop schedules by bare train number.
type Client struct {
	cfg    Config
	http   *http.Client
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
	cache  *scheduleCache
}

// NewClient creates a Client. loc is the zone schedule times are expressed in.
func NewClient(cfg Config, loc *time.Location, logger *zap.Logger) *Client {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	c := &Client{
		cfg:    cfg,
		http:   feeds.NewHTTPClient(cfg.Timeout),
		loc:    loc,
		logger: logger.With(zap.String("component", "timetable")),
		now:    time.Now,
	}
	c.cache = newScheduleCache(cfg.CacheTTL, func() time.Time { return c.now() })
	return c
}

// Lookup returns the schedule of trainNumber, served from cache when fresh.
func (c *Client) Lookup(ctx context.Context, trainNumber string) ([]reconcile.StopTime, error) {
	return c.cache.getOrLoad(trainNumber, func() ([]reconcile.StopTime, error) {
		return c.fetch(ctx, trainNumber)
	})
}

// Enrich looks up every train number concurrently. One failed lookup never
// affects the others; its Result carries the error.
func (c *Client) Enrich(ctx context.Context, trainNumbers []string) map[string]Result {
	type keyed struct {
		nr  string
		res Result
	}

	p := pool.NewWithResults[keyed]().WithMaxGoroutines(c.cfg.Concurrency)
	seen := make(map[string]struct{}, len(trainNumbers))
	for _, nr := range trainNumbers {
		if _, dup := seen[nr]; dup || nr == "" {
			continue
		}
		seen[nr] = struct{}{}
		nr := nr
		p.Go(func() keyed {
			stops, err := c.Lookup(ctx, nr)
			if err != nil {
				c.logger.Warn("Timetable lookup failed", zap.String("train", nr), zap.Error(err))
			}
			return keyed{nr: nr, res: Result{Stops: stops, Err: err}}
		})
	}

	out := make(map[string]Result, len(seen))
	for _, k := range p.Wait() {
		out[k.nr] = k.res
	}
	c.cache.prune()
	return out
}

func (c *Client) fetch(ctx context.Context, trainNumber string) ([]reconcile.StopTime, error) {
	// The service day is addressed by the previous day's 23:00 UTC.
	travelDate := c.now().UTC().Add(-24*time.Hour).Format("2006-01-02") + "T23:00:00.000Z"
	req := request{
		Type:        "TrainInfo",
		TravelDate:  travelDate,
		MinCount:    "0",
		MaxCount:    "9999999",
		TrainNumber: trainNumber,
	}

	var resp response
	headers := map[string]string{"usersessionid": c.cfg.SessionID}
	if err := feeds.PostJSON(ctx, c.http, c.cfg.URL, headers, req, &resp); err != nil {
		return nil, fmt.Errorf("timetable %s: %w", trainNumber, err)
	}
	if len(resp.TrainSchedulerDetails) == 0 || len(resp.TrainSchedulerDetails[0].Scheduler) == 0 {
		return nil, fmt.Errorf("%w %s", ErrNoSchedule, trainNumber)
	}

	return c.normalize(resp.TrainSchedulerDetails[0].Scheduler), nil
}

// normalize converts scheduler entries into stop times. The origin has no
// arrival and the terminus no departure; each borrows the other time.
// Entries with neither time are dropped.
func (c *Client) normalize(entries []schedulerEntry) []reconcile.StopTime {
	stops := make([]reconcile.StopTime, 0, len(entries))
	for _, e := range entries {
		arr := utils.OptionalISO(e.Arrive, c.loc)
		dep := utils.OptionalISO(e.Start, c.loc)
		if arr == nil && dep == nil {
			continue
		}
		if arr == nil {
			arr = dep
		}
		if dep == nil {
			dep = arr
		}

		st := reconcile.StopTime{
			Name:               e.Station.Name,
			ScheduledArrival:   *arr,
			ArrivalDelay:       utils.Delay(utils.OptionalISO(e.Arrive, c.loc), utils.OptionalISO(e.ActualOrEstimatedArrive, c.loc)),
			ScheduledDeparture: *dep,
			DepartureDelay:     utils.Delay(utils.OptionalISO(e.Start, c.loc), utils.OptionalISO(e.ActualOrEstimatedStart, c.loc)),
		}
		if e.EndTrack != nil && *e.EndTrack != "" {
			track := *e.EndTrack
			st.Platform = &track
		}
		stops = append(stops, st)
	}
	return reconcile.UnwrapSchedule(stops)
}
