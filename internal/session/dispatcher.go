package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Action is one of the four mutation verbs the dispatcher understands.
// Everything a game ever does to its state goes through these.
type Action string

const (
	ActionUpdatePhase    Action = "updatePhase"
	ActionUpdateScore    Action = "updateScore"
	ActionIncrementRound Action = "incrementRound"
	ActionUpdateData     Action = "updateData"
)

// ActionRequest is the wire shape of a game action. BaseVersion, when set,
// is the session version the payload was computed against; the dispatcher
// rejects the write if the session has moved on since.
type ActionRequest struct {
	Action      Action          `json:"action"`
	Payload     json.RawMessage `json:"payload"`
	ActorID     string          `json:"actorId"`
	BaseVersion *int64          `json:"baseVersion,omitempty"`
}

type phasePayload struct {
	Phase string `json:"phase"`
}

type scorePayload struct {
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
}

type dataPayload struct {
	Data   map[string]any `json:"data"`
	Scores map[string]int `json:"scores"`
}

// ApplyAction is the sole path by which game state changes after
// initialization. It interprets the small fixed action vocabulary against
// the embedded game state and persists the whole document atomically.
func (svc *Service) ApplyAction(ctx context.Context, sessionID string, req ActionRequest) (*Session, error) {
	cur, err := svc.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cur.GameState == nil {
		return nil, ErrGameNotStarted
	}
	if req.BaseVersion != nil && *req.BaseVersion != cur.Version {
		return nil, fmt.Errorf("%w: have %d, session at %d", ErrStaleWrite, *req.BaseVersion, cur.Version)
	}
	if err := authorize(cur, req); err != nil {
		return nil, err
	}

	next := cur.Clone()
	if err := apply(next.GameState, req); err != nil {
		return nil, err
	}
	next.Version = cur.Version + 1
	next.UpdatedAt = time.Now().UTC()
	if err := svc.store.Update(ctx, next, cur.Version); err != nil {
		return nil, err
	}
	log.Debug().
		Str("session", sessionID).
		Str("action", string(req.Action)).
		Int64("version", next.Version).
		Msg("action applied")
	return next, nil
}

// Phase and round progression are host calls; score and data writes come
// from whichever member computed them.
func authorize(s *Session, req ActionRequest) error {
	switch req.Action {
	case ActionUpdatePhase, ActionIncrementRound:
		if req.ActorID != s.HostID {
			return ErrNotHost
		}
	case ActionUpdateScore, ActionUpdateData:
		if !s.IsMember(req.ActorID) {
			return ErrNotMember
		}
	}
	return nil
}

func apply(gs *GameState, req ActionRequest) error {
	switch req.Action {
	case ActionUpdatePhase:
		var p phasePayload
		if err := decode(req.Payload, &p); err != nil {
			return err
		}
		gs.Phase = p.Phase

	case ActionUpdateScore:
		var p scorePayload
		if err := decode(req.Payload, &p); err != nil {
			return err
		}
		if gs.Scores == nil {
			gs.Scores = map[string]int{}
		}
		gs.Scores[p.PlayerID] = p.Score

	case ActionIncrementRound:
		gs.Round++

	case ActionUpdateData:
		var p dataPayload
		if err := decode(req.Payload, &p); err != nil {
			return err
		}
		if gs.Data == nil {
			gs.Data = map[string]any{}
		}
		// Shallow merge: keys present in the payload replace wholesale,
		// keys absent are preserved.
		for k, v := range p.Data {
			gs.Data[k] = v
		}
		if p.Scores != nil {
			gs.Scores = p.Scores
		}

	default:
		return fmt.Errorf("%w: %q", ErrInvalidAction, req.Action)
	}
	return nil
}

func decode(raw json.RawMessage, into any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return nil
}
