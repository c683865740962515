package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservability_ExportsToRegistry(t *testing.T) {
	reg := promclient.NewRegistry()
	obs := NewWithRegisterer("funnel-test", reg)
	defer obs.Shutdown()

	ctx := context.Background()
	obs.RecordSweep(ctx, 1500*time.Millisecond, "ok")
	obs.RecordSubmission(ctx, "qualified")

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "reminder_sweeps_total")
	assert.Contains(t, names, "intake_attempts_total")
	assert.True(t, hasPrefix(names, "reminder_sweep_duration"), "got %v", names)
	for _, name := range names {
		assert.NotContains(t, name, ".", "metric names scrape without dots")
	}
}

func TestObservability_NilSafe(t *testing.T) {
	var obs *Observability
	assert.NotPanics(t, func() {
		obs.RecordSweep(context.Background(), time.Second, "ok")
		obs.RecordSubmission(context.Background(), "waitlist")
		obs.Shutdown()
	})
}

func hasPrefix(names []string, prefix string) bool {
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			return true
		}
	}
	return false
}
