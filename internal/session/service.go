package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Catalog answers the one question the lifecycle layer has about games:
// how many players a game supports.
type Catalog interface {
	PlayerBounds(gameID string) (min, max int, ok bool)
}

// Service implements the session lifecycle: create, join, leave, rename,
// game selection and start/end. All mutations go through a load-mutate-CAS
// loop so concurrent writers never partially apply.
type Service struct {
	store   Store
	catalog Catalog
}

func NewService(store Store, catalog Catalog) *Service {
	return &Service{store: store, catalog: catalog}
}

const codeRetries = 100

// Create opens a new session in the lobby with a fresh join code.
func (svc *Service) Create(ctx context.Context, hostID string) (*Session, error) {
	if hostID == "" {
		return nil, errors.New("hostId is required")
	}
	now := time.Now().UTC()
	s := &Session{
		ID:        uuid.NewString(),
		HostID:    hostID,
		Status:    StatusLobby,
		Players:   []Player{},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	// Best-effort uniqueness in the original; here we actually retry until
	// the code is free.
	for i := 0; i < codeRetries; i++ {
		code := randomCode(codeLength)
		if _, err := svc.store.GetByCode(ctx, code); errors.Is(err, ErrSessionNotFound) {
			s.Code = code
			break
		}
	}
	if s.Code == "" {
		return nil, errors.New("could not allocate a unique join code")
	}
	if err := svc.store.Create(ctx, s); err != nil {
		return nil, err
	}
	log.Info().Str("session", s.ID).Str("code", s.Code).Msg("session created")
	return s, nil
}

func (svc *Service) Get(ctx context.Context, id string) (*Session, error) {
	return svc.store.Get(ctx, id)
}

func (svc *Service) GetByCode(ctx context.Context, code string) (*Session, error) {
	return svc.store.GetByCode(ctx, normalizeCode(code))
}

// Join adds a player to the session identified by code. If the joining
// identity already occupies a seat this is a rejoin: the seat is updated in
// place instead of duplicated, even under a new display name.
func (svc *Service) Join(ctx context.Context, code, name, userID, unID string) (*Session, error) {
	s, err := svc.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	identity := userID
	if identity == "" {
		identity = unID
	}
	return svc.mutate(ctx, s.ID, func(s *Session) error {
		if s.Status == StatusEnded {
			return ErrSessionEnded
		}
		if identity != "" {
			if p := s.PlayerByID(identity); p != nil {
				p.Name = name
				p.Connected = true
				return nil
			}
		}
		for _, p := range s.Players {
			if strings.EqualFold(p.Name, name) {
				return ErrNameTaken
			}
		}
		s.Players = append(s.Players, Player{
			UserID:    userID,
			UnID:      unID,
			Name:      name,
			Connected: true,
			JoinedAt:  time.Now().UTC(),
		})
		return nil
	})
}

// Leave removes a player by name. Matching by display name mirrors the
// original behavior; colliding names were already rejected at join time.
func (svc *Service) Leave(ctx context.Context, id, playerName string) (*Session, error) {
	return svc.mutate(ctx, id, func(s *Session) error {
		s.Players = removeByName(s.Players, playerName)
		return nil
	})
}

// RemovePlayer is the host-initiated variant of Leave.
func (svc *Service) RemovePlayer(ctx context.Context, id, playerName, actorID string) (*Session, error) {
	return svc.mutate(ctx, id, func(s *Session) error {
		if actorID != s.HostID {
			return ErrNotHost
		}
		s.Players = removeByName(s.Players, playerName)
		return nil
	})
}

// RenamePlayer changes a player's display name, rejecting collisions with
// any other player (case-insensitive).
func (svc *Service) RenamePlayer(ctx context.Context, id, oldName, newName string) (*Session, error) {
	return svc.mutate(ctx, id, func(s *Session) error {
		for _, p := range s.Players {
			if strings.EqualFold(p.Name, newName) && p.Name != oldName {
				return ErrNameTaken
			}
		}
		for i := range s.Players {
			if s.Players[i].Name == oldName {
				s.Players[i].Name = newName
				return nil
			}
		}
		return ErrPlayerNotFound
	})
}

// SelectGame picks the game the session will play and initializes an empty
// game state for it. Only after this do game actions become legal.
func (svc *Service) SelectGame(ctx context.Context, id, gameID, actorID string) (*Session, error) {
	return svc.mutate(ctx, id, func(s *Session) error {
		if actorID != s.HostID {
			return ErrNotHost
		}
		min, max, ok := svc.catalog.PlayerBounds(gameID)
		if !ok {
			return fmt.Errorf("unknown game %q", gameID)
		}
		if n := len(s.Players); n < min || n > max {
			return fmt.Errorf("%w: %s needs %d-%d players, have %d", ErrPlayerCount, gameID, min, max, n)
		}
		s.SelectedGameID = gameID
		s.GameState = &GameState{
			Type:   gameID,
			Data:   map[string]any{},
			Round:  0,
			Scores: map[string]int{},
		}
		s.Status = StatusSettings
		return nil
	})
}

// Start flips the session to playing. Valid only once a game is selected.
func (svc *Service) Start(ctx context.Context, id, actorID string) (*Session, error) {
	return svc.mutate(ctx, id, func(s *Session) error {
		if actorID != s.HostID {
			return ErrNotHost
		}
		if s.SelectedGameID == "" {
			return ErrNoGameSelected
		}
		s.Status = StatusPlaying
		return nil
	})
}

// End marks the session ended. The document sticks around for final
// scoreboards until the host deletes it.
func (svc *Service) End(ctx context.Context, id, actorID string) (*Session, error) {
	return svc.mutate(ctx, id, func(s *Session) error {
		if actorID != s.HostID {
			return ErrNotHost
		}
		s.Status = StatusEnded
		return nil
	})
}

// Delete removes the session entirely.
func (svc *Service) Delete(ctx context.Context, id, actorID string) error {
	s, err := svc.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if actorID != s.HostID {
		return ErrNotHost
	}
	return svc.store.Delete(ctx, id)
}

const mutateRetries = 3

// mutate runs fn against a fresh snapshot and writes it back with a CAS on
// the loaded version. Lifecycle writes carry no client base version, so a
// lost race is retried here instead of surfacing to the caller.
func (svc *Service) mutate(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	for i := 0; i < mutateRetries; i++ {
		cur, err := svc.store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		next := cur.Clone()
		if err := fn(next); err != nil {
			return nil, err
		}
		next.Version = cur.Version + 1
		next.UpdatedAt = time.Now().UTC()
		err = svc.store.Update(ctx, next, cur.Version)
		if errors.Is(err, ErrStaleWrite) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return next, nil
	}
	return nil, ErrStaleWrite
}

func removeByName(players []Player, name string) []Player {
	out := players[:0]
	for _, p := range players {
		if p.Name != name {
			out = append(out, p)
		}
	}
	return out
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
