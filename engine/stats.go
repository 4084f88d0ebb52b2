package engine

import (
	"fmt"
	"time"
)

// Phase is the step of the frame an EntityCollection is currently executing.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseDraining
	PhaseActivating
	PhaseUpdating
	PhaseCollisionChecking
	PhaseGarbageCollecting
)

// framePhases lists the phases Update runs, in order.
var framePhases = [...]Phase{
	PhaseDraining,
	PhaseActivating,
	PhaseUpdating,
	PhaseCollisionChecking,
	PhaseGarbageCollecting,
}

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDraining:
		return "draining"
	case PhaseActivating:
		return "activating"
	case PhaseUpdating:
		return "updating"
	case PhaseCollisionChecking:
		return "collision-checking"
	case PhaseGarbageCollecting:
		return "garbage-collecting"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// Statistics is a snapshot of the partition sizes of an EntityCollection.
type Statistics struct {
	Suppliers    int
	Updatables   int
	KeyListeners int
	Garbage      int
	Statics      int
	Colliders    int
	Collideds    int
	Entities     int
}

// FrameStats provides timing statistics for the frames an EntityCollection ran.
type FrameStats struct {
	FrameCount int64
	ErrorCount int64
	Phases     []PhaseStats
}

// PhaseStats provides execution statistics for a single phase.
type PhaseStats struct {
	Phase          Phase
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type phaseStatsInternal struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

type frameTimings struct {
	frames int64
	errors int64
	phases [len(framePhases)]phaseStatsInternal
}

func newFrameTimings() *frameTimings {
	t := &frameTimings{}
	t.reset()
	return t
}

func (t *frameTimings) reset() {
	t.frames = 0
	t.errors = 0
	for i := range t.phases {
		t.phases[i] = phaseStatsInternal{minDuration: time.Duration(1<<63 - 1)}
	}
}

func (t *frameTimings) record(i int, duration time.Duration) {
	stats := &t.phases[i]
	stats.executionCount++
	stats.lastDuration = duration
	stats.totalDuration += duration

	if duration < stats.minDuration {
		stats.minDuration = duration
	}
	if duration > stats.maxDuration {
		stats.maxDuration = duration
	}
}

func (t *frameTimings) snapshot() FrameStats {
	stats := FrameStats{
		FrameCount: t.frames,
		ErrorCount: t.errors,
		Phases:     make([]PhaseStats, len(framePhases)),
	}

	for i, internal := range t.phases {
		avgDuration := time.Duration(0)
		minDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
			minDuration = internal.minDuration
		}

		stats.Phases[i] = PhaseStats{
			Phase:          framePhases[i],
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
	}
	return stats
}
