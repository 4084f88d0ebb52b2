// Command sprout-stress fills an entity collection with bouncing balls, walls
// and short-lived mayflies, runs frames for a fixed duration and prints a
// timing report.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/plus3/sprout/engine"
	"github.com/plus3/sprout/stage"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	ballCount := flag.Int("balls", 5000, "The number of bouncing balls to create.")
	wallCount := flag.Int("walls", 200, "The number of static walls to create.")
	mayflies := flag.Int("mayflies", 50, "Mayflies hatched on every hatchery tick.")
	lifetime := flag.Int("lifetime", 30, "Frames a mayfly lives before removing itself.")
	hatchery := flag.Duration("hatchery", 50*time.Millisecond, "Interval between hatches.")
	width := flag.Float64("width", 1920, "Arena width.")
	height := flag.Float64("height", 1080, "Arena height.")
	logLevel := flag.String("log-level", "info", "Log level.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	logger, err := stage.NewLogger(stage.LoggingConfig{Level: *logLevel, Format: "console"})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting stress test")

	a := arena{width: *width, height: *height}
	collection := engine.NewEntityCollection(a, nil)
	collection.SetLogger(logger.Named("entities"))

	logger.Info("populating collection", zap.Int("balls", *ballCount), zap.Int("walls", *wallCount))
	balls := make([]*ball, 0, *ballCount)
	for range *ballCount {
		b := newBall(a)
		balls = append(balls, b)
		collection.Add(b)
	}
	for range *wallCount {
		collection.Add(newWall(a))
	}
	collection.AddSpawner(newHatchery(a, *hatchery, *mayflies, *lifetime))

	report := &Report{
		Duration:       *duration,
		Balls:          *ballCount,
		Walls:          *wallCount,
		Mayflies:       *mayflies,
		Hatchery:       *hatchery,
		ArenaSize:      fmt.Sprintf("%.0fx%.0f", *width, *height),
		GCPauseMetrics: *gcPauseMetrics,
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info("running simulation", zap.Duration("duration", *duration))
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			updateStart := time.Now()
			if err := collection.Update(int64(time.Since(startTime))); err != nil {
				logger.Warn("frame errors", zap.Int("count", len(multierr.Errors(err))), zap.Error(err))
			}
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Finalize()
	report.Frames = collection.FrameStats()
	report.Final = collection.Statistics()
	for _, b := range balls {
		report.Collisions += b.hits
	}
	runtime.ReadMemStats(&report.MemStatsEnd)

	logger.Info("simulation finished", zap.Int64("frames", totalUpdates))

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal("failed to generate report", zap.Error(err))
	}
	fmt.Println("--- End of Report ---")
}
