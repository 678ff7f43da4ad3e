package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"vonatinfo/core/reconcile"

	"github.com/cenkalti/backoff/v4"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Conn is the subset of *nats.Conn the sink needs.
type Conn interface {
	Publish(subject string, data []byte) error
}

// Metrics receives publish outcomes. May be nil.
type Metrics interface {
	EventPublished(err error)
	EventsConnectedSet(connected bool)
}

// Connect dials NATS, retrying with exponential backoff for up to
// cfg.ConnectWait.
func Connect(ctx context.Context, cfg Config, logger *zap.Logger, m Metrics) (*nats.Conn, error) {
	setConnected := func(v bool) {
		if m != nil {
			m.EventsConnectedSet(v)
		}
	}

	opts := []nats.Option{
		nats.Name("vonatinfo"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			setConnected(false)
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			setConnected(true)
			logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			setConnected(false)
			logger.Info("NATS connection closed")
		}),
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = cfg.ConnectWait

	var nc *nats.Conn
	op := func() error {
		var err error
		nc, err = nats.Connect(cfg.URL, opts...)
		if err != nil {
			logger.Debug("NATS connect attempt failed", zap.Error(err))
		}
		return err
	}
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return nil, fmt.Errorf("connect to nats %s: %w", cfg.URL, err)
	}
	setConnected(true)
	return nc, nil
}

// LightMessage is published on "<prefix>.light".
type LightMessage struct {
	Seq         uint64                  `json:"seq"`
	Source      string                  `json:"source"`
	PublishedAt time.Time               `json:"publishedAt"`
	Data        []reconcile.LightRecord `json:"data"`
}

// EvictionMessage is published on "<prefix>.evicted.<trip>".
type EvictionMessage struct {
	TripShortName string                   `json:"tripShortName"`
	Source        string                   `json:"source"`
	Reason        reconcile.EvictionReason `json:"reason"`
	EvictedAt     time.Time                `json:"evictedAt"`
	Last          reconcile.LightRecord    `json:"last"`
}

// Sink publishes cycles to NATS.
type Sink struct {
	conn    Conn
	prefix  string
	logger  *zap.Logger
	metrics Metrics
}

// NewSink creates a Sink on conn.
func NewSink(conn Conn, prefix string, logger *zap.Logger, m Metrics) *Sink {
	return &Sink{
		conn:    conn,
		prefix:  strings.TrimSuffix(prefix, "."),
		logger:  logger.With(zap.String("component", "events")),
		metrics: m,
	}
}

// Name implements reconcile.Sink.
func (s *Sink) Name() string { return "events" }

// OnCycle implements reconcile.Sink.
func (s *Sink) OnCycle(_ context.Context, c reconcile.Cycle) error {
	var errs []error

	if c.Snapshot != nil {
		msg := LightMessage{
			Seq:         c.Snapshot.Seq(),
			Source:      c.Source,
			PublishedAt: c.Snapshot.PublishedAt(),
			Data:        c.Snapshot.LightRoster(),
		}
		if err := s.publish(s.prefix+".light", msg); err != nil {
			errs = append(errs, err)
		}
	}

	for _, ev := range c.Evicted {
		msg := EvictionMessage{
			TripShortName: ev.Record.Key,
			Source:        ev.Record.Position.Source,
			Reason:        ev.Reason,
			EvictedAt:     ev.At,
			Last:          ev.Record.Light(),
		}
		if err := s.publish(s.prefix+".evicted."+SubjectToken(ev.Record.Key), msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Sink) publish(subject string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", subject, err)
	}
	err = s.conn.Publish(subject, b)
	if s.metrics != nil {
		s.metrics.EventPublished(err)
	}
	if err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

var subjectReplacer = strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")

// SubjectToken turns s into a single NATS subject token.
func SubjectToken(s string) string {
	s = subjectReplacer.Replace(strings.TrimSpace(s))
	if s == "" {
		return "_"
	}
	return s
}
