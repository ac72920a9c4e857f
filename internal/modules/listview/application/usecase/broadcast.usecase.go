package usecase

import (
	"context"
	"time"

	"acornAdmin/internal/modules/listview/application/port"
	"acornAdmin/internal/modules/listview/domain"
)

type BroadcastUseCase struct {
	broadcaster port.Broadcaster
	now         func() time.Time
}

func NewBroadcastUseCase(b port.Broadcaster) *BroadcastUseCase {
	return &BroadcastUseCase{broadcaster: b, now: time.Now}
}

func (uc *BroadcastUseCase) Execute(ctx context.Context, msg *domain.Message) {
	if uc == nil || uc.broadcaster == nil || msg == nil {
		return
	}
	uc.broadcaster.Broadcast(ctx, msg)
}

// Invalidated pushes "<screen>.invalidated" so open browser tabs reload their list.
func (uc *BroadcastUseCase) Invalidated(ctx context.Context, screen, cause, resourceID string) {
	if uc == nil {
		return
	}
	uc.Execute(ctx, domain.NewInvalidatedMessage(screen, cause, resourceID, uc.now()))
}
