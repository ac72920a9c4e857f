package usecase

import (
	"context"
	"log/slog"
	"time"
)

// Sweepable is a screen whose idle sessions can be dropped.
type Sweepable interface {
	Name() string
	Sweep() int
}

// RunSessionSweeper sweeps every screen each interval until ctx is done.
func RunSessionSweeper(ctx context.Context, interval time.Duration, screens ...Sweepable) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			SweepAll(screens...)
		}
	}
}

// SweepAll runs one sweep and returns how many sessions were dropped in total.
func SweepAll(screens ...Sweepable) int {
	total := 0
	for _, screen := range screens {
		if dropped := screen.Sweep(); dropped > 0 {
			slog.Info("idle view sessions dropped", slog.String("screen", screen.Name()), slog.Int("sessions", dropped))
			total += dropped
		}
	}
	return total
}
