//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2026 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package journal

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weaviate/sproutfs/usecases/monitoring"
)

func TestTruncatedReadsCounter(t *testing.T) {
	j := newTestJournal(t, WithMemoryLimit(1))

	t.Run("registered at zero on construction", func(t *testing.T) {
		assert.Zero(t, testutil.ToFloat64(j.metrics.truncatedReads))
	})

	j.RecordChanged("a")
	j.RecordChanged("b") // evicts seq 1

	t.Run("not counted for windows inside retained history", func(t *testing.T) {
		require.NotNil(t, j.AccumulateRange(2))
		assert.Zero(t, testutil.ToFloat64(j.metrics.truncatedReads))
	})

	t.Run("counted once per truncated summary", func(t *testing.T) {
		require.NotNil(t, j.AccumulateRange(1))
		assert.Equal(t, float64(1), testutil.ToFloat64(j.metrics.truncatedReads))

		require.NotNil(t, j.AccumulateRange(1))
		assert.Equal(t, float64(2), testutil.ToFloat64(j.metrics.truncatedReads))
	})

	t.Run("a nil summary is not a truncated read", func(t *testing.T) {
		assert.Nil(t, j.AccumulateRange(99))
		assert.Equal(t, float64(2), testutil.ToFloat64(j.metrics.truncatedReads))
	})
}

func TestMetricsDisabled(t *testing.T) {
	logger, _ := test.NewNullLogger()

	j, err := New(nil, logger, WithMemoryLimit(1))
	require.NoError(t, err)

	j.RecordChanged("a")
	j.RecordChanged("b")

	// must not panic with monitoring disabled
	require.NotNil(t, j.AccumulateRange(1))
}

func TestNilRegistererFallsBackToNoop(t *testing.T) {
	logger, _ := test.NewNullLogger()

	prom := &monitoring.PrometheusMetrics{}
	j, err := New(prom, logger, WithMemoryLimit(1))
	require.NoError(t, err)
	assert.Equal(t, monitoring.NoopRegisterer, prom.Registerer)

	j.RecordChanged("a")
	j.RecordChanged("b") // evicts seq 1

	// the counter is live, it just isn't published anywhere
	require.NotNil(t, j.AccumulateRange(1))
	assert.Equal(t, float64(1), testutil.ToFloat64(j.metrics.truncatedReads))
}

func TestNewMetricsTwiceSharesTheCounter(t *testing.T) {
	prom := monitoring.NewPrometheusMetrics()

	m1, err := NewMetrics(prom)
	require.NoError(t, err)
	m2, err := NewMetrics(prom)
	require.NoError(t, err)

	m1.TruncatedRead()
	m2.TruncatedRead()
	assert.Equal(t, float64(2), testutil.ToFloat64(m2.truncatedReads))
}
