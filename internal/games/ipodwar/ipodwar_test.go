package ipodwar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrown5421/game-lynq/internal/games"
	"github.com/abrown5421/game-lynq/internal/scoring"
)

var testTracks = []Track{
	{Name: "Blinding Lights", Artist: "The Weeknd", PreviewURL: "https://example.com/1.m4a"},
	{Name: "Levitating", Artist: "Dua Lipa", PreviewURL: "https://example.com/2.m4a"},
}

func applyPayload(t *testing.T, d *Data, payload map[string]any) *Data {
	t.Helper()
	raw, err := games.EncodeData(d)
	require.NoError(t, err)
	patch, err := games.EncodeData(payload)
	require.NoError(t, err)
	for k, v := range patch {
		raw[k] = v
	}
	next, err := Decode(raw)
	require.NoError(t, err)
	return next
}

func startedRound(t *testing.T, now time.Time) *Data {
	t.Helper()
	raw, err := games.EncodeData(InitialData(testTracks, Settings{
		SearchTerm:    "pop",
		TrackCount:    2,
		RoundDuration: 30,
		GuessArtist:   true,
	}, now))
	require.NoError(t, err)
	d, err := Decode(raw)
	require.NoError(t, err)
	return d
}

func TestInitialData(t *testing.T) {
	now := time.Unix(1700000000, 0)
	d := startedRound(t, now)

	assert.Equal(t, PhasePlaying, d.Phase)
	assert.Equal(t, 0, d.Round)
	require.NotNil(t, d.CurrentTrack)
	assert.Equal(t, "Blinding Lights", d.CurrentTrack.Name)
	require.NotNil(t, d.RoundStartTime)
	assert.Equal(t, now.UnixMilli(), *d.RoundStartTime)
	assert.Empty(t, d.Submissions)
}

func TestSubmitGuessReplacesEarlier(t *testing.T) {
	now := time.Unix(1700000000, 0)
	d := startedRound(t, now)

	d = applyPayload(t, d, SubmitGuess(d, scoring.Submission{
		PlayerID: "p1", TrackGuess: "Starboy", SubmittedAt: 100,
	}))
	d = applyPayload(t, d, SubmitGuess(d, scoring.Submission{
		PlayerID: "p2", TrackGuess: "Blinding Lights", SubmittedAt: 150,
	}))
	d = applyPayload(t, d, SubmitGuess(d, scoring.Submission{
		PlayerID: "p1", TrackGuess: "Blinding Lights", SubmittedAt: 200,
	}))

	require.Len(t, d.Submissions, 2)
	assert.Equal(t, "p2", d.Submissions[0].PlayerID)
	assert.Equal(t, "p1", d.Submissions[1].PlayerID)
	assert.Equal(t, "Blinding Lights", d.Submissions[1].TrackGuess)
}

func TestAllSubmitted(t *testing.T) {
	now := time.Unix(1700000000, 0)
	d := startedRound(t, now)

	assert.False(t, AllSubmitted(d, 2))
	assert.False(t, AllSubmitted(d, 0))

	d = applyPayload(t, d, SubmitGuess(d, scoring.Submission{PlayerID: "p1"}))
	d = applyPayload(t, d, SubmitGuess(d, scoring.Submission{PlayerID: "p2"}))
	assert.True(t, AllSubmitted(d, 2))
}

func TestRoundExpired(t *testing.T) {
	start := time.Unix(1700000000, 0)
	d := startedRound(t, start)

	assert.False(t, RoundExpired(d, start.Add(15*time.Second)))
	assert.True(t, RoundExpired(d, start.Add(30*time.Second)))

	d.Phase = PhaseRevealing
	assert.False(t, RoundExpired(d, start.Add(time.Minute)))
}

func TestEndRoundScoresAndReveals(t *testing.T) {
	now := time.Unix(1700000000, 0)
	d := startedRound(t, now)
	d = applyPayload(t, d, SubmitGuess(d, scoring.Submission{
		PlayerID: "p1", TrackGuess: "Blinding Lights", ArtistGuess: "The Weeknd", SubmittedAt: 100,
	}))
	d = applyPayload(t, d, SubmitGuess(d, scoring.Submission{
		PlayerID: "p2", TrackGuess: "Starboy", ArtistGuess: "Daft Punk", SubmittedAt: 120,
	}))

	data, scores := EndRound(d, map[string]int{"p1": 200, "p2": 200})
	require.NotNil(t, data)

	// Running totals plus this round's points.
	assert.Equal(t, 200+1000+500, scores["p1"])
	assert.Equal(t, 200, scores["p2"])

	d = applyPayload(t, d, data)
	assert.Equal(t, PhaseRevealing, d.Phase)
	assert.Nil(t, d.RoundStartTime)
	require.NotNil(t, d.RevealedAnswer)
	assert.Equal(t, "Blinding Lights", d.RevealedAnswer.Track.Name)
	require.Len(t, d.RevealedAnswer.Submissions, 2)
	assert.True(t, d.RevealedAnswer.Submissions[0].TrackCorrect)
	assert.False(t, d.RevealedAnswer.Submissions[1].TrackCorrect)
}

func TestEndRoundWithoutTrack(t *testing.T) {
	d := &Data{}
	data, scores := EndRound(d, nil)
	assert.Nil(t, data)
	assert.Nil(t, scores)
}

func TestNextRoundAdvancesThenFinishes(t *testing.T) {
	now := time.Unix(1700000000, 0)
	d := startedRound(t, now)
	data, _ := EndRound(d, nil)
	d = applyPayload(t, d, data)

	later := now.Add(45 * time.Second)
	payload, done := NextRound(d, later)
	require.False(t, done)
	d = applyPayload(t, d, payload)

	assert.Equal(t, PhasePlaying, d.Phase)
	assert.Equal(t, 1, d.Round)
	assert.Equal(t, "Levitating", d.CurrentTrack.Name)
	assert.Nil(t, d.RevealedAnswer)
	assert.Empty(t, d.Submissions)
	assert.Equal(t, later.UnixMilli(), *d.RoundStartTime)

	payload, done = NextRound(d, later)
	require.True(t, done)
	d = applyPayload(t, d, payload)
	assert.Equal(t, PhaseFinished, d.Phase)
}
