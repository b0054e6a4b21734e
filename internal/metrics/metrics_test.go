package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Iron-Ham/vizlex/internal/errors"
	"github.com/Iron-Ham/vizlex/internal/lexicon"
	"github.com/Iron-Ham/vizlex/internal/property"
)

func newObserved(t *testing.T) (*lexicon.Registry, *Collector, *property.Descriptor) {
	t.Helper()

	root := property.MustNew("ROOT", "", property.TargetNetwork, property.TypeNull)
	reg, err := lexicon.NewRegistry(root)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	c := New(reg)
	reg.Observe(c)
	return reg, c, root
}

func TestInsertOutcomes(t *testing.T) {
	reg, c, root := newObserved(t)

	a := property.MustNew("A", "", property.TargetNode, property.TypeVisualizable)
	missing := property.MustNew("MISSING", "", property.TargetNode, property.TypeVisualizable)

	_ = reg.Insert(a, root)
	_ = reg.Insert(a, root)
	_ = reg.Insert(property.MustNew("B", "", property.TargetNode, property.TypeVisualizable), missing)
	_ = reg.Insert(property.MustNew("C", "", property.TargetNode, property.TypeVisualizable), nil)

	tests := map[string]float64{
		OutcomeInserted:          1,
		OutcomeAlreadyRegistered: 1,
		OutcomeUnknownProperty:   1,
		OutcomeNullArgument:      1,
		OutcomeOther:             0,
	}
	for outcome, want := range tests {
		if got := testutil.ToFloat64(c.inserts.WithLabelValues(outcome)); got != want {
			t.Errorf("inserts{outcome=%s} = %v, want %v", outcome, got, want)
		}
	}

	if got := testutil.ToFloat64(c.properties); got != 2 {
		t.Errorf("properties = %v, want 2", got)
	}
}

func TestSchemaApplied(t *testing.T) {
	_, c, _ := newObserved(t)

	c.SchemaApplied("a.yaml", nil, nil)
	c.SchemaApplied("b.yaml", nil, errors.ErrInvalidSchema)
	c.SchemaApplied("c.yaml", nil, errors.ErrInvalidSchema)
	c.SchemaApplied("d.yaml", nil, errors.NewSchemaError("parent is neither registered nor declared",
		errors.NewUnknownPropertyError("NODE_GLOW")))

	if got := testutil.ToFloat64(c.schemaLoads.WithLabelValues("applied")); got != 1 {
		t.Errorf("loads{applied} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.schemaLoads.WithLabelValues("failed")); got != 2 {
		t.Errorf("loads{failed} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.schemaLoads.WithLabelValues("conflict")); got != 1 {
		t.Errorf("loads{conflict} = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	reg, c, root := newObserved(t)
	_ = reg.Insert(property.MustNew("A", "", property.TargetNode, property.TypeVisualizable), root)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	for _, want := range []string{
		`vizlex_lexicon_inserts_total{outcome="inserted"} 1`,
		"vizlex_lexicon_properties 2",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
