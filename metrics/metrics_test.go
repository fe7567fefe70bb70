package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/m-lab/weechat-relay/metrics"
)

// TestCountersIncrement is a smoke test that every collector is registered
// and usable; it does not assert on exact values, since other tests in this
// binary may share the same global collectors.
func TestCountersIncrement(t *testing.T) {
	before := readCounter(t, metrics.FramesParsedTotal)
	metrics.FramesParsedTotal.Inc()
	after := readCounter(t, metrics.FramesParsedTotal)
	if after != before+1 {
		t.Errorf("FramesParsedTotal did not increment: before=%v after=%v", before, after)
	}

	metrics.ParseErrorsTotal.WithLabelValues("truncated").Inc()
	metrics.DecompressedBytesHistogram.Observe(128)
	metrics.EncodeCallsTotal.WithLabelValues("ping").Inc()
}

func readCounter(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("could not read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}
