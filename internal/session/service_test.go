package session_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrown5421/game-lynq/internal/games"
	"github.com/abrown5421/game-lynq/internal/session"
	"github.com/abrown5421/game-lynq/internal/store"
)

func newService(t *testing.T) *session.Service {
	t.Helper()
	return session.NewService(store.NewMemory(), games.NewRegistry())
}

func createWithPlayers(t *testing.T, svc *session.Service, names ...string) *session.Session {
	t.Helper()
	ctx := context.Background()
	s, err := svc.Create(ctx, "host-1")
	require.NoError(t, err)
	for i, name := range names {
		s, err = svc.Join(ctx, s.Code, name, "", "un-"+name)
		require.NoError(t, err, "join %d", i)
	}
	return s
}

func TestCreateSession(t *testing.T) {
	svc := newService(t)
	s, err := svc.Create(context.Background(), "host-1")
	require.NoError(t, err)

	assert.NotEmpty(t, s.ID)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{4}$`), s.Code)
	assert.Equal(t, session.StatusLobby, s.Status)
	assert.Empty(t, s.Players)
	assert.Nil(t, s.GameState)
	assert.EqualValues(t, 1, s.Version)
}

func TestCreateRequiresHost(t *testing.T) {
	svc := newService(t)
	_, err := svc.Create(context.Background(), "")
	assert.Error(t, err)
}

func TestJoinByCodeCaseInsensitive(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	s, err := svc.Create(ctx, "host-1")
	require.NoError(t, err)

	// Codes are stored uppercase; players type them however.
	lower := []rune(s.Code)
	for i, r := range lower {
		if r >= 'A' && r <= 'Z' {
			lower[i] = r + 32
		}
	}
	joined, err := svc.Join(ctx, string(lower), "Alex", "", "un-alex")
	require.NoError(t, err)
	require.Len(t, joined.Players, 1)
	assert.Equal(t, "Alex", joined.Players[0].Name)
	assert.True(t, joined.Players[0].Connected)
}

func TestJoinRejectsDuplicateNameAnyCase(t *testing.T) {
	svc := newService(t)
	s := createWithPlayers(t, svc, "Alex")

	_, err := svc.Join(context.Background(), s.Code, "alex", "", "un-other")
	assert.ErrorIs(t, err, session.ErrNameTaken)
}

func TestRejoinUpdatesSeatInPlace(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	s := createWithPlayers(t, svc, "Alex", "Brook")

	_, err := svc.Leave(ctx, s.ID, "Alex")
	require.NoError(t, err)

	// Same pseudonymous identity comes back under a new display name.
	rejoined, err := svc.Join(ctx, s.Code, "Alexandra", "", "un-Brook")
	require.NoError(t, err)
	require.Len(t, rejoined.Players, 1)
	assert.Equal(t, "Alexandra", rejoined.Players[0].Name)

	// Rejoin with an occupied seat never grows the list.
	again, err := svc.Join(ctx, s.Code, "Brook", "", "un-Brook")
	require.NoError(t, err)
	assert.Len(t, again.Players, 1)
}

func TestRenameRejectsCollision(t *testing.T) {
	svc := newService(t)
	s := createWithPlayers(t, svc, "Alex", "Brook")

	_, err := svc.RenamePlayer(context.Background(), s.ID, "Brook", "ALEX")
	assert.ErrorIs(t, err, session.ErrNameTaken)

	renamed, err := svc.RenamePlayer(context.Background(), s.ID, "Brook", "Charlie")
	require.NoError(t, err)
	assert.Equal(t, "Charlie", renamed.Players[1].Name)
}

func TestRemovePlayerRequiresHost(t *testing.T) {
	svc := newService(t)
	s := createWithPlayers(t, svc, "Alex", "Brook")

	_, err := svc.RemovePlayer(context.Background(), s.ID, "Alex", "un-Brook")
	assert.ErrorIs(t, err, session.ErrNotHost)

	removed, err := svc.RemovePlayer(context.Background(), s.ID, "Alex", "host-1")
	require.NoError(t, err)
	assert.Len(t, removed.Players, 1)
}

func TestSelectGameInitializesState(t *testing.T) {
	svc := newService(t)
	s := createWithPlayers(t, svc, "Alex", "Brook")

	selected, err := svc.SelectGame(context.Background(), s.ID, games.IpodWarID, "host-1")
	require.NoError(t, err)
	assert.Equal(t, games.IpodWarID, selected.SelectedGameID)
	require.NotNil(t, selected.GameState)
	assert.Equal(t, games.IpodWarID, selected.GameState.Type)
	assert.Empty(t, selected.GameState.Data)
	assert.Equal(t, 0, selected.GameState.Round)
	assert.Equal(t, session.StatusSettings, selected.Status)
}

func TestSelectGameChecksPlayerBounds(t *testing.T) {
	svc := newService(t)
	s := createWithPlayers(t, svc, "Alex", "Brook")

	// Fishbowl needs four players.
	_, err := svc.SelectGame(context.Background(), s.ID, games.FishbowlID, "host-1")
	assert.ErrorIs(t, err, session.ErrPlayerCount)

	_, err = svc.SelectGame(context.Background(), s.ID, "checkers", "host-1")
	assert.Error(t, err)
}

func TestStartRequiresSelectedGame(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	s := createWithPlayers(t, svc, "Alex", "Brook")

	_, err := svc.Start(ctx, s.ID, "host-1")
	assert.ErrorIs(t, err, session.ErrNoGameSelected)

	_, err = svc.SelectGame(ctx, s.ID, games.IpodWarID, "host-1")
	require.NoError(t, err)

	started, err := svc.Start(ctx, s.ID, "host-1")
	require.NoError(t, err)
	assert.Equal(t, session.StatusPlaying, started.Status)
}

func TestEndAndDelete(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	s := createWithPlayers(t, svc, "Alex")

	ended, err := svc.End(ctx, s.ID, "host-1")
	require.NoError(t, err)
	assert.Equal(t, session.StatusEnded, ended.Status)

	require.ErrorIs(t, svc.Delete(ctx, s.ID, "un-Alex"), session.ErrNotHost)
	require.NoError(t, svc.Delete(ctx, s.ID, "host-1"))

	_, err = svc.Get(ctx, s.ID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestJoinEndedSessionRejected(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	s := createWithPlayers(t, svc, "Alex")

	_, err := svc.End(ctx, s.ID, "host-1")
	require.NoError(t, err)

	_, err = svc.Join(ctx, s.Code, "Brook", "", "un-Brook")
	assert.ErrorIs(t, err, session.ErrSessionEnded)
}
