// Package client is the device side of the engine: a polling reader plus
// the refetch-before-mutate write path every game UI drives its state
// machine through.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/abrown5421/game-lynq/internal/session"
)

// ErrConflict mirrors a server-side stale-write rejection.
var ErrConflict = errors.New("write rejected: session changed underneath us")

// Mutation is one game action to submit. Exactly one of the payload shapes
// is used depending on Action.
type Mutation struct {
	Action   session.Action
	Phase    string
	PlayerID string
	Score    int
	Data     map[string]any
	Scores   map[string]int
}

type Client struct {
	BaseURL string
	ActorID string
	http    *http.Client
}

func New(baseURL, actorID string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		ActorID: actorID,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) GetSession(ctx context.Context, id string) (*session.Session, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/api/sessions/"+id, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, session.ErrSessionNotFound
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("get session: status %d", resp.StatusCode)
	}
	var s session.Session
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SubmitAction posts one action computed against baseVersion.
func (c *Client) SubmitAction(ctx context.Context, sessionID string, m Mutation, baseVersion int64) (*session.Session, error) {
	payload, err := encodePayload(m)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(session.ActionRequest{
		Action:      m.Action,
		Payload:     payload,
		ActorID:     c.ActorID,
		BaseVersion: &baseVersion,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, "POST",
		c.BaseURL+"/api/sessions/"+sessionID+"/game-action", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusConflict:
		return nil, ErrConflict
	case resp.StatusCode == http.StatusNotFound:
		return nil, session.ErrSessionNotFound
	case resp.StatusCode/100 != 2:
		return nil, fmt.Errorf("game action: status %d", resp.StatusCode)
	}
	var s session.Session
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

const mutateRetries = 3

// Mutate is refetch-before-mutate with the version token closing the
// race: fetch a fresh snapshot, let compute derive a delta from it, submit
// against that snapshot's version, and recompute from scratch if the
// server says we lost a race. compute returning nil means nothing to do.
func (c *Client) Mutate(ctx context.Context, sessionID string, compute func(*session.Session) (*Mutation, error)) (*session.Session, error) {
	for i := 0; i < mutateRetries; i++ {
		fresh, err := c.GetSession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		m, err := compute(fresh)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return fresh, nil
		}
		updated, err := c.SubmitAction(ctx, sessionID, *m, fresh.Version)
		if errors.Is(err, ErrConflict) {
			continue
		}
		return updated, err
	}
	return nil, ErrConflict
}

func encodePayload(m Mutation) (json.RawMessage, error) {
	switch m.Action {
	case session.ActionUpdatePhase:
		return json.Marshal(map[string]any{"phase": m.Phase})
	case session.ActionUpdateScore:
		return json.Marshal(map[string]any{"playerId": m.PlayerID, "score": m.Score})
	case session.ActionIncrementRound:
		return json.Marshal(map[string]any{})
	case session.ActionUpdateData:
		body := map[string]any{}
		if m.Data != nil {
			body["data"] = m.Data
		}
		if m.Scores != nil {
			body["scores"] = m.Scores
		}
		return json.Marshal(body)
	default:
		return nil, fmt.Errorf("unknown action %q", m.Action)
	}
}
