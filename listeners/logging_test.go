/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package listeners

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/suparena/dynamorepo/datastore/testmodels"
	"github.com/suparena/dynamorepo/events"
)

func TestLoggingOneEntryPerCallback(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLogging[testmodels.RatingSystem](zap.New(core), zapcore.InfoLevel)
	d := events.NewDispatcher(l.Listener())
	ctx := context.Background()

	require.NoError(t, d.Dispatch(ctx, events.NewBeforeSave(&testmodels.RatingSystem{})))
	require.NoError(t, d.Dispatch(ctx, events.NewAfterQuery(events.Values(
		&testmodels.RatingSystem{}, &testmodels.RatingSystem{}, &testmodels.PlayerRating{},
	))))

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "lifecycle", entries[0].LoggerName)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "BeforeSave", entries[0].ContextMap()["event"])
	assert.Equal(t, "RatingSystem", entries[0].ContextMap()["entity"])
	assert.Equal(t, 2, logs.FilterField(zap.String("event", "AfterQuery")).Len())
}

func TestLoggingRespectsLevel(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	l := NewLogging[testmodels.RatingSystem](zap.New(core), zapcore.DebugLevel)
	require.NoError(t, l.OnAfterLoad(context.Background(), &testmodels.RatingSystem{}))
	assert.Zero(t, logs.Len())

	assert.NotPanics(t, func() {
		_ = NewLogging[testmodels.RatingSystem](nil, zapcore.InfoLevel).OnAfterSave(context.Background(), nil)
	})
}
