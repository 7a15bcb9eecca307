package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNilRecorder_IsNoOp(t *testing.T) {
	var r *Recorder
	require.NotPanics(t, func() {
		r.ObserveBuildDuration(time.Second)
		r.ObserveStageDuration("render", time.Millisecond)
		r.IncBuildOutcome(ResultSuccess)
		r.IncDocuments("built", 3)
	})
}

func TestRecorder_RegistersAndCounts(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewRecorder(reg)

	r.ObserveBuildDuration(2 * time.Second)
	r.ObserveStageDuration("render", 100*time.Millisecond)
	r.IncBuildOutcome(ResultSuccess)
	r.IncBuildOutcome(ResultFailure)
	r.IncDocuments("built", 5)
	r.IncDocuments("skipped", 2)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	require.True(t, names["docs_build_duration_seconds"])
	require.True(t, names["docs_stage_duration_seconds"])
	require.True(t, names["docs_build_outcomes_total"])
	require.True(t, names["docs_documents_total"])
}
