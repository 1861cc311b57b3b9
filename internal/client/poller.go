package client

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/abrown5421/game-lynq/internal/session"
)

// Poller reads a session on a fixed interval and hands each snapshot to a
// callback. Transient fetch failures are swallowed and retried on the next
// tick; the document itself is the only error signal clients get.
type Poller struct {
	Client    *Client
	SessionID string
	Interval  time.Duration
}

// Run polls until ctx is cancelled. onUpdate fires only when the session
// version moved, so unchanged polls are free for the caller.
func (p *Poller) Run(ctx context.Context, onUpdate func(*session.Session)) {
	interval := p.Interval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastVersion int64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s, err := p.Client.GetSession(ctx, p.SessionID)
			if err != nil {
				log.Debug().Err(err).Str("session", p.SessionID).Msg("poll failed, retrying next tick")
				continue
			}
			if s.Version == lastVersion {
				continue
			}
			lastVersion = s.Version
			onUpdate(s)
		}
	}
}
