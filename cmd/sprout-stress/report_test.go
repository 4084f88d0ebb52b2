package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/plus3/sprout/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsFinalize(t *testing.T) {
	s := Stats{Samples: []time.Duration{3 * time.Millisecond, time.Millisecond, 5 * time.Millisecond}}
	s.Finalize()

	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 5*time.Millisecond, s.Max)
	assert.Equal(t, 3*time.Millisecond, s.Avg)

	empty := Stats{}
	empty.Finalize()
	assert.Zero(t, empty.Avg)
}

func TestReportGenerate(t *testing.T) {
	a := arena{width: 200, height: 100}
	collection := engine.NewEntityCollection(a, nil)
	for range 10 {
		collection.Add(newBall(a))
	}
	collection.Add(newWall(a))
	collection.AddSpawner(newHatchery(a, time.Millisecond, 3, 2))

	for frame := range int64(5) {
		require.NoError(t, collection.Update(frame*int64(time.Millisecond)))
	}

	report := &Report{
		Duration:       time.Second,
		Balls:          10,
		Walls:          1,
		GCPauseMetrics: true,
		TotalUpdates:   5,
		Frames:         collection.FrameStats(),
		Final:          collection.Statistics(),
	}

	var buf bytes.Buffer
	require.NoError(t, report.Generate(&buf))
	out := buf.String()

	assert.Contains(t, out, "**Total Updates:** 5")
	assert.Contains(t, out, "| draining | 5 |")
	assert.Contains(t, out, "| garbage-collecting | 5 |")
	assert.Contains(t, out, "GC Pause Durations")
	assert.Equal(t, int64(5), report.Frames.FrameCount)
}

func TestMayflyLifetime(t *testing.T) {
	a := arena{width: 200, height: 100}
	collection := engine.NewEntityCollection(a, nil)
	fly := newMayfly(a, 2)
	collection.Add(fly)

	require.NoError(t, collection.Update(0))
	assert.True(t, fly.born)
	assert.True(t, collection.Contains(fly))

	require.NoError(t, collection.Update(1))
	assert.False(t, collection.Contains(fly), "removed at the end of its last frame")
}
