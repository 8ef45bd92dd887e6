package metrics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/dshills/rtdcconfig/internal/config"
)

func TestDiagnosticHandler(t *testing.T) {
	m := New()
	var forwarded int
	handle := m.DiagnosticHandler(func(config.Diagnostic) { forwarded++ })

	handle(config.Diagnostic{Code: config.CodeUnknownKey})
	handle(config.Diagnostic{Code: config.CodeUnknownKey})
	handle(config.Diagnostic{Code: config.CodeBadValue})

	if got := testutil.ToFloat64(m.diagnostics.WithLabelValues("unknown_key")); got != 2 {
		t.Errorf("unknown_key = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.diagnostics.WithLabelValues("bad_value")); got != 1 {
		t.Errorf("bad_value = %v, want 1", got)
	}
	if forwarded != 3 {
		t.Errorf("forwarded = %d, want 3", forwarded)
	}

	// nil next is allowed
	m.DiagnosticHandler(nil)(config.Diagnostic{Code: config.CodeEmptyValue})
}

func TestSourceLoadedAndWriteText(t *testing.T) {
	m := New()
	m.SourceLoaded("text")
	m.SourceLoaded("text")
	m.SourceLoaded("env")

	expected := `
# HELP rtdcconfig_sources_loaded_total Number of configuration sources loaded by format.
# TYPE rtdcconfig_sources_loaded_total counter
rtdcconfig_sources_loaded_total{format="env"} 1
rtdcconfig_sources_loaded_total{format="text"} 2
`
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "rtdcconfig_sources_loaded_total"); err != nil {
		t.Error(err)
	}

	var buf bytes.Buffer
	if err := m.WriteText(&buf); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	if !strings.Contains(buf.String(), `rtdcconfig_sources_loaded_total{format="text"} 2`) {
		t.Errorf("exposition missing counter:\n%s", buf.String())
	}
}
