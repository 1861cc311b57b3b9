package session

import (
	"time"
)

// Status is the coarse session lifecycle, independent of the in-game phase
// stored inside GameState.
type Status string

const (
	StatusLobby      Status = "lobby"
	StatusSelectGame Status = "selectGame"
	StatusSettings   Status = "settings"
	StatusPlaying    Status = "playing"
	StatusEnded      Status = "ended"
)

// Player is one seat in a session. Identity is a union: UserID for
// authenticated users, UnID for pseudonymous players. UnID doubles as the
// rejoin secret after a disconnect.
type Player struct {
	UserID    string    `json:"userId,omitempty"`
	UnID      string    `json:"unId,omitempty"`
	Name      string    `json:"name"`
	Connected bool      `json:"connected"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// ID returns whichever half of the identity union is set.
func (p Player) ID() string {
	if p.UserID != "" {
		return p.UserID
	}
	return p.UnID
}

// GameState is the embedded per-game state. Data is opaque to everything
// outside the game package that owns Type.
type GameState struct {
	Type   string         `json:"type"`
	Data   map[string]any `json:"data"`
	Round  int            `json:"round"`
	Scores map[string]int `json:"scores"`
	Phase  string         `json:"phase,omitempty"`
}

// Session is the root aggregate shared by all polling clients. Version is
// the optimistic-concurrency token: it increments on every successful
// mutation and game actions may carry the version they were computed
// against.
type Session struct {
	ID             string     `json:"id"`
	Code           string     `json:"code"`
	HostID         string     `json:"hostId"`
	Status         Status     `json:"status"`
	Players        []Player   `json:"players"`
	SelectedGameID string     `json:"selectedGameId,omitempty"`
	GameState      *GameState `json:"gameState,omitempty"`
	Version        int64      `json:"version"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// PlayerByID finds a player by either identity.
func (s *Session) PlayerByID(id string) *Player {
	for i := range s.Players {
		if s.Players[i].UserID == id || s.Players[i].UnID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// IsMember reports whether id is the host or one of the joined players.
func (s *Session) IsMember(id string) bool {
	if id == s.HostID {
		return true
	}
	return s.PlayerByID(id) != nil
}

// PlayerIDs returns player identities in join order. Join order matters,
// it drives turn rotation.
func (s *Session) PlayerIDs() []string {
	ids := make([]string, 0, len(s.Players))
	for _, p := range s.Players {
		ids = append(ids, p.ID())
	}
	return ids
}

// Clone deep-copies the session so callers can mutate snapshots freely.
func (s *Session) Clone() *Session {
	out := *s
	out.Players = make([]Player, len(s.Players))
	copy(out.Players, s.Players)
	if s.GameState != nil {
		gs := *s.GameState
		gs.Data = cloneMap(s.GameState.Data)
		gs.Scores = make(map[string]int, len(s.GameState.Scores))
		for k, v := range s.GameState.Scores {
			gs.Scores[k] = v
		}
		out.GameState = &gs
	}
	return &out
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		switch vv := v.(type) {
		case map[string]any:
			out[k] = cloneMap(vv)
		case []any:
			arr := make([]any, len(vv))
			for i, e := range vv {
				if m, ok := e.(map[string]any); ok {
					arr[i] = cloneMap(m)
				} else {
					arr[i] = e
				}
			}
			out[k] = arr
		default:
			out[k] = v
		}
	}
	return out
}
