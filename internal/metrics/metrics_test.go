package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarijnSt/soccermatics-project-1/internal/model"
)

func sampleResult() *model.MatchResult {
	return &model.MatchResult{
		Summary: model.MatchSummary{MatchID: 1, EventCount: 3400},
		Dribbles: []model.DribbleRecord{
			{PlayerID: 1, Outcome: model.OutcomeComplete, IsDanger: true},
			{PlayerID: 1, Outcome: model.OutcomeComplete},
			{PlayerID: 2, Outcome: model.OutcomeIncomplete},
		},
		Anomalies: []model.Anomaly{
			{PlayerID: 3, Kind: model.AnomalySubOffAndDismissal},
			{PlayerID: 3, Kind: model.AnomalyClamped},
			{PlayerID: 4, Kind: model.AnomalyClamped},
		},
	}
}

func TestManager_ObserveMatch(t *testing.T) {
	m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))
	m.ObserveMatch(sampleResult(), 20*time.Millisecond)
	m.ObserveMatch(nil, 0)
	m.MatchSkipped()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.matchesProcessed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.matchesSkipped))
	assert.Equal(t, 3400.0, testutil.ToFloat64(m.eventsRead))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.dribbles))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dangerDribbles))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.anomalies.WithLabelValues(string(model.AnomalyClamped))))
	assert.Equal(t, 1, testutil.CollectAndCount(m.aggregationDuration))
}

func TestManager_SeparateRegistries(t *testing.T) {
	// Two managers must not collide on registration.
	a := NewManager()
	b := NewManager(WithNamespace("other"))
	assert.NotSame(t, a.Registry(), b.Registry())
}

func TestManager_WriteTextfile(t *testing.T) {
	m := NewManager()
	m.ObserveMatch(sampleResult(), time.Millisecond)

	path := filepath.Join(t.TempDir(), "ingest.prom")
	require.NoError(t, m.WriteTextfile(path))

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "soccermetrics_matches_processed_total 1")
	assert.Contains(t, string(body), `soccermetrics_playing_time_anomalies_total{kind="clamped"} 2`)
}
