// Copyright © 2018 One Concern

package storage

import (
	"context"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Operation outcomes reported by instrumented stores
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeExists   = "exists"
	OutcomeError    = "error"
)

// Metrics collects the calls made to instrumented stores
type Metrics struct {
	Calls    *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics creates and registers the storage metrics. When reg is nil, metrics are not registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dirmanifest",
			Subsystem: "storage",
			Name:      "calls_total",
			Help:      "Number of calls to a storage backend, by operation and outcome.",
		}, []string{"store", "op", "outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dirmanifest",
			Subsystem: "storage",
			Name:      "call_duration_seconds",
			Help:      "Latency of calls to a storage backend, by operation.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"store", "op"}),
	}
	if reg != nil {
		reg.MustRegister(m.Calls, m.Duration)
	}
	return m
}

// InstrumentOption configures an instrumented store
type InstrumentOption func(*instrumentedStore)

// WithLogger sets the logger for an instrumented store
func WithLogger(l *zap.Logger) InstrumentOption {
	return func(i *instrumentedStore) {
		if l != nil {
			i.l = l
		}
	}
}

// WithMetrics sets the metrics collected by an instrumented store
func WithMetrics(m *Metrics) InstrumentOption {
	return func(i *instrumentedStore) {
		i.m = m
	}
}

// WithName overrides the store label used in logs and metrics
func WithName(name string) InstrumentOption {
	return func(i *instrumentedStore) {
		i.name = name
	}
}

// Instrument decorates a store with logs and metrics
func Instrument(store Store, opts ...InstrumentOption) Store {
	i := &instrumentedStore{
		store: store,
		name:  store.String(),
		l:     zap.NewNop(),
	}
	for _, apply := range opts {
		apply(i)
	}
	i.l = i.l.With(zap.String("store", i.name))
	return i
}

type instrumentedStore struct {
	store Store
	name  string
	l     *zap.Logger
	m     *Metrics
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case IsNotExists(err):
		return OutcomeNotFound
	case isExists(err):
		return OutcomeExists
	default:
		return OutcomeError
	}
}

func (i *instrumentedStore) observe(op string, start time.Time, err error, fields ...zap.Field) {
	elapsed := time.Since(start)
	oc := outcome(err)
	if i.m != nil {
		i.m.Calls.WithLabelValues(i.name, op, oc).Inc()
		i.m.Duration.WithLabelValues(i.name, op).Observe(elapsed.Seconds())
	}

	fields = append(fields, zap.String("outcome", oc), zap.Duration("elapsed", elapsed))
	if oc == OutcomeError {
		i.l.Warn("storage "+op, append(fields, zap.Error(err))...)
		return
	}
	i.l.Debug("storage "+op, fields...)
}

func (i *instrumentedStore) Has(ctx context.Context, key string) (bool, error) {
	start := time.Now()
	has, err := i.store.Has(ctx, key)
	i.observe("has", start, err, zap.String("key", key))
	return has, err
}

func (i *instrumentedStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	start := time.Now()
	rdr, err := i.store.Get(ctx, key)
	i.observe("get", start, err, zap.String("key", key))
	return rdr, err
}

func (i *instrumentedStore) Put(ctx context.Context, key string, rdr io.Reader, exclusive bool) error {
	start := time.Now()
	err := i.store.Put(ctx, key, rdr, exclusive)
	i.observe("put", start, err, zap.String("key", key), zap.Bool("exclusive", exclusive))
	return err
}

func (i *instrumentedStore) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := i.store.Delete(ctx, key)
	i.observe("delete", start, err, zap.String("key", key))
	return err
}

func (i *instrumentedStore) Keys(ctx context.Context) ([]string, error) {
	start := time.Now()
	keys, err := i.store.Keys(ctx)
	i.observe("keys", start, err, zap.Int("count", len(keys)))
	return keys, err
}

func (i *instrumentedStore) Clear(ctx context.Context) error {
	start := time.Now()
	err := i.store.Clear(ctx)
	i.observe("clear", start, err)
	return err
}

func (i *instrumentedStore) String() string {
	return i.store.String()
}

