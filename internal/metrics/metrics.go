// Package metrics exposes lexicon activity as Prometheus metrics.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Iron-Ham/vizlex/internal/errors"
	"github.com/Iron-Ham/vizlex/internal/lexicon"
	"github.com/Iron-Ham/vizlex/internal/property"
	"github.com/Iron-Ham/vizlex/internal/schema"
)

const namespace = "vizlex"

// Insert outcome label values.
const (
	OutcomeInserted          = "inserted"
	OutcomeAlreadyRegistered = "already_registered"
	OutcomeUnknownProperty   = "unknown_property"
	OutcomeNullArgument      = "null_argument"
	OutcomeOther             = "other"
)

// Collector counts insert outcomes and schema loads. It implements
// lexicon.Observer.
type Collector struct {
	registry *prometheus.Registry

	inserts     *prometheus.CounterVec
	schemaLoads *prometheus.CounterVec
	properties  prometheus.GaugeFunc
}

var _ lexicon.Observer = (*Collector)(nil)

// New creates a collector whose property gauge reads lex.Len. Register it
// with the lexicon through Registry.Observe or lexicon.WithObserver.
func New(lex lexicon.Reader) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		inserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lexicon",
			Name:      "inserts_total",
			Help:      "Insert calls by outcome.",
		}, []string{"outcome"}),
		schemaLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "schema",
			Name:      "loads_total",
			Help:      "Schema file loads by outcome.",
		}, []string{"outcome"}),
		properties: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "lexicon",
			Name:      "properties",
			Help:      "Registered visual properties, root included.",
		}, func() float64 { return float64(lex.Len()) }),
	}

	c.registry.MustRegister(
		c.inserts,
		c.schemaLoads,
		c.properties,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Inserted implements lexicon.Observer.
func (c *Collector) Inserted(_, _ *property.Descriptor) {
	c.inserts.WithLabelValues(OutcomeInserted).Inc()
}

// Rejected implements lexicon.Observer.
func (c *Collector) Rejected(_ *property.Descriptor, err error) {
	c.inserts.WithLabelValues(outcomeFor(err)).Inc()
}

// SchemaApplied records a schema load; it matches schema.ApplyFunc. Files
// that conflict with the registered tree count as "conflict", unreadable or
// malformed ones as "failed".
func (c *Collector) SchemaApplied(_ string, _ *schema.Result, err error) {
	outcome := "applied"
	switch {
	case errors.IsLexiconError(err):
		outcome = "conflict"
	case err != nil:
		outcome = "failed"
	}
	c.schemaLoads.WithLabelValues(outcome).Inc()
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, errors.ErrAlreadyRegistered):
		return OutcomeAlreadyRegistered
	case errors.Is(err, errors.ErrUnknownProperty):
		return OutcomeUnknownProperty
	case errors.Is(err, errors.ErrNullArgument):
		return OutcomeNullArgument
	default:
		return OutcomeOther
	}
}

// Handler serves the collector's metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Serve exposes /metrics and /health on addr until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrapf(err, "metrics server on %s", addr)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
