package client

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/abrown5421/game-lynq/internal/games/fishbowl"
	"github.com/abrown5421/game-lynq/internal/games/ipodwar"
	"github.com/abrown5421/game-lynq/internal/session"
)

// The host drivers below run the autonomous half of each game's state
// machine: transitions triggered by a timer hitting zero or by everyone
// having submitted. Player-initiated transitions (bids, guesses, buttons)
// go straight through Client.Mutate from the UI layer.

// FishbowlHost ends turns when the clock runs out or the word pool
// empties, and starts play after the round intro.
type FishbowlHost struct {
	Client    *Client
	SessionID string
	Interval  time.Duration

	guard     *Guard
	now       func() time.Time
	introSeen map[string]time.Time
}

func NewFishbowlHost(c *Client, sessionID string, interval time.Duration) *FishbowlHost {
	return &FishbowlHost{
		Client:    c,
		SessionID: sessionID,
		Interval:  interval,
		guard:     NewGuard(),
		now:       time.Now,
		introSeen: make(map[string]time.Time),
	}
}

func (h *FishbowlHost) Run(ctx context.Context) {
	runTicks(ctx, h.Client, h.SessionID, h.Interval, h.tick)
}

func (h *FishbowlHost) tick(ctx context.Context, s *session.Session) {
	if s.GameState == nil {
		return
	}
	d, err := fishbowl.Decode(s.GameState.Data)
	if err != nil {
		log.Warn().Err(err).Msg("undecodable fishbowl state")
		return
	}
	now := h.now()

	switch d.Phase {
	case fishbowl.PhaseRoundIntro:
		key := fmt.Sprintf("intro:%d", d.CurrentRound)
		seen, ok := h.introSeen[key]
		if !ok {
			h.introSeen[key] = now
			return
		}
		if now.Sub(seen) < fishbowl.RoundIntroDelay || !h.guard.Once("begin:"+key) {
			return
		}
		h.mutate(ctx, func(fresh *fishbowl.Data) map[string]any {
			if fresh.Phase != fishbowl.PhaseRoundIntro {
				return nil
			}
			return fishbowl.BeginTurn(fresh, h.now())
		})

	case fishbowl.PhasePlaying:
		if d.TurnStartTime == nil {
			return
		}
		expired := fishbowl.TurnExpired(d, now) || len(d.RemainingWords) == 0
		key := fmt.Sprintf("turnend:%d", *d.TurnStartTime)
		if !expired || !h.guard.Once(key) {
			return
		}
		h.mutate(ctx, func(fresh *fishbowl.Data) map[string]any {
			if fresh.Phase != fishbowl.PhasePlaying {
				return nil
			}
			return fishbowl.EndTurn()
		})
	}
}

func (h *FishbowlHost) mutate(ctx context.Context, compute func(*fishbowl.Data) map[string]any) {
	_, err := h.Client.Mutate(ctx, h.SessionID, func(fresh *session.Session) (*Mutation, error) {
		if fresh.GameState == nil {
			return nil, nil
		}
		d, err := fishbowl.Decode(fresh.GameState.Data)
		if err != nil {
			return nil, err
		}
		data := compute(d)
		if data == nil {
			return nil, nil
		}
		return &Mutation{Action: session.ActionUpdateData, Data: data}, nil
	})
	if err != nil {
		log.Warn().Err(err).Msg("fishbowl host transition failed")
	}
}

// IpodWarHost closes a round once every player answered or the round
// timer expires, scoring the submissions as it goes.
type IpodWarHost struct {
	Client    *Client
	SessionID string
	Interval  time.Duration

	guard *Guard
	now   func() time.Time
}

func NewIpodWarHost(c *Client, sessionID string, interval time.Duration) *IpodWarHost {
	return &IpodWarHost{
		Client:    c,
		SessionID: sessionID,
		Interval:  interval,
		guard:     NewGuard(),
		now:       time.Now,
	}
}

func (h *IpodWarHost) Run(ctx context.Context) {
	runTicks(ctx, h.Client, h.SessionID, h.Interval, h.tick)
}

func (h *IpodWarHost) tick(ctx context.Context, s *session.Session) {
	if s.GameState == nil {
		return
	}
	d, err := ipodwar.Decode(s.GameState.Data)
	if err != nil {
		log.Warn().Err(err).Msg("undecodable ipod-war state")
		return
	}
	if d.Phase != ipodwar.PhasePlaying {
		return
	}
	done := ipodwar.AllSubmitted(d, len(s.Players)) || ipodwar.RoundExpired(d, h.now())
	key := fmt.Sprintf("roundend:%d", d.Round)
	if !done || !h.guard.Once(key) {
		return
	}
	_, err = h.Client.Mutate(ctx, h.SessionID, func(fresh *session.Session) (*Mutation, error) {
		if fresh.GameState == nil {
			return nil, nil
		}
		fd, err := ipodwar.Decode(fresh.GameState.Data)
		if err != nil {
			return nil, err
		}
		if fd.Phase != ipodwar.PhasePlaying || fd.Round != d.Round {
			return nil, nil
		}
		data, scores := ipodwar.EndRound(fd, fresh.GameState.Scores)
		if data == nil {
			return nil, nil
		}
		return &Mutation{Action: session.ActionUpdateData, Data: data, Scores: scores}, nil
	})
	if err != nil {
		log.Warn().Err(err).Msg("ipod-war round end failed")
	}
}

// runTicks fetches the session on every tick, even when unchanged: timer
// expiry depends on the wall clock, not on new writes.
func runTicks(ctx context.Context, c *Client, sessionID string, interval time.Duration, tick func(context.Context, *session.Session)) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s, err := c.GetSession(ctx, sessionID)
			if err != nil {
				log.Debug().Err(err).Msg("host poll failed, retrying next tick")
				continue
			}
			tick(ctx, s)
		}
	}
}
