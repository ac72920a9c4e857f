package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acornAdmin/internal/shared/clock"
)

func TestSweepAllDropsIdleSessions(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	screen := Screen[member, registration]{Name: "members", List: memberConfig(&fakeSource{records: members(2)}, 15)}
	svc := NewScreenService(screen, time.Minute, clk, NewBroadcastUseCase(nil))

	_, _, err := svc.Mount(context.Background(), "")
	require.NoError(t, err)
	_, _, err = svc.Mount(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 0, SweepAll(svc))
	clk.Advance(2 * time.Minute)
	assert.Equal(t, 2, SweepAll(svc))
	assert.Equal(t, 0, svc.Sessions())
}

func TestRunSessionSweeperStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunSessionSweeper(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
