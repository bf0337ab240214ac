package service

import (
	"context"
	"time"
)

const DefaultFrameInterval = 16 * time.Millisecond

// Run ticks the service every interval until ctx is done. It is the frame
// loop: peer commands only take effect here.
func (s *GameService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", interval).Msg("frame loop started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("frame loop stopped")
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}
