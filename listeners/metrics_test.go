/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package listeners

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/dynamorepo/datastore/testmodels"
	"github.com/suparena/dynamorepo/events"
)

func TestMetricsCountsByEntityAndEvent(t *testing.T) {
	reg := prometheus.NewRegistry()
	systems, err := NewMetrics[testmodels.RatingSystem](reg)
	require.NoError(t, err)
	ratings, err := NewMetrics[testmodels.PlayerRating](reg)
	require.NoError(t, err, "a second entity type reuses the registered counter")
	assert.Same(t, systems.events, ratings.events)

	d := events.NewDispatcher(systems.Listener(), ratings.Listener())
	ctx := context.Background()
	require.NoError(t, d.Dispatch(ctx, events.NewAfterSave(&testmodels.RatingSystem{})))
	require.NoError(t, d.Dispatch(ctx, events.NewAfterScan(events.Values(
		&testmodels.PlayerRating{}, &testmodels.PlayerRating{}, &testmodels.RatingSystem{},
	))))

	assert.Equal(t, 1.0, testutil.ToFloat64(systems.events.WithLabelValues("RatingSystem", "AfterSave")))
	assert.Equal(t, 1.0, testutil.ToFloat64(systems.events.WithLabelValues("RatingSystem", "AfterScan")))
	assert.Equal(t, 2.0, testutil.ToFloat64(ratings.events.WithLabelValues("PlayerRating", "AfterScan")))
	assert.Equal(t, 3, testutil.CollectAndCount(systems.events))
}

func TestMetricsRegistrationConflict(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dynamorepo_lifecycle_events_total",
		Help: "not a counter",
	}))
	_, err := NewMetrics[testmodels.RatingSystem](reg)
	assert.ErrorContains(t, err, "register lifecycle metrics")
}
