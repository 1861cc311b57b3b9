// Package ipodwar is the music-guessing game: a preview plays on the host
// device, players race to name the track (and optionally the artist), and
// the scoring engine ranks correct answers by speed.
package ipodwar

import (
	"time"

	"github.com/abrown5421/game-lynq/internal/games"
	"github.com/abrown5421/game-lynq/internal/scoring"
)

const (
	PhasePlaying   = "playing"
	PhaseRevealing = "revealing"
	PhaseFinished  = "finished"
)

type Track struct {
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	PreviewURL string `json:"previewUrl"`
	Artwork    string `json:"artwork"`
}

type Settings struct {
	SearchTerm    string `json:"searchTerm"`
	TrackCount    int    `json:"trackCount"`
	RoundDuration int    `json:"roundDuration"` // seconds
	GuessArtist   bool   `json:"guessArtist"`
}

type RevealedAnswer struct {
	Track       Track                `json:"track"`
	Submissions []scoring.Submission `json:"submissions"`
}

type Data struct {
	Phase          string               `json:"phase"`
	Round          int                  `json:"round"`
	Tracks         []Track              `json:"tracks"`
	CurrentTrack   *Track               `json:"currentTrack"`
	RoundStartTime *int64               `json:"roundStartTime"`
	Submissions    []scoring.Submission `json:"submissions"`
	RevealedAnswer *RevealedAnswer      `json:"revealedAnswer"`
	Settings       Settings             `json:"settings"`
}

func Decode(raw map[string]any) (*Data, error) {
	var d Data
	if err := games.DecodeData(raw, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// InitialData starts round zero on the first track.
func InitialData(tracks []Track, settings Settings, now time.Time) map[string]any {
	var current any
	if len(tracks) > 0 {
		current = tracks[0]
	}
	return map[string]any{
		"phase":          PhasePlaying,
		"round":          0,
		"tracks":         tracks,
		"currentTrack":   current,
		"roundStartTime": now.UnixMilli(),
		"submissions":    []scoring.Submission{},
		"revealedAnswer": nil,
		"settings":       settings,
	}
}

// SubmitGuess records a player's guess, replacing any earlier one from the
// same player.
func SubmitGuess(d *Data, sub scoring.Submission) map[string]any {
	subs := make([]scoring.Submission, 0, len(d.Submissions)+1)
	for _, s := range d.Submissions {
		if s.PlayerID != sub.PlayerID {
			subs = append(subs, s)
		}
	}
	subs = append(subs, sub)
	return map[string]any{"submissions": subs}
}

// AllSubmitted reports whether every active player has answered.
func AllSubmitted(d *Data, playerCount int) bool {
	return playerCount > 0 && len(d.Submissions) >= playerCount
}

// RoundExpired reports whether the round timer has hit zero.
func RoundExpired(d *Data, now time.Time) bool {
	if d.Phase != PhasePlaying || d.RoundStartTime == nil {
		return false
	}
	elapsed := now.UnixMilli() - *d.RoundStartTime
	return elapsed >= int64(d.Settings.RoundDuration)*1000
}

// EndRound scores whatever came in and reveals the answer. The returned
// scores map fully replaces gameState.scores: it is the running totals plus
// this round's points.
func EndRound(d *Data, runningScores map[string]int) (data map[string]any, scores map[string]int) {
	if d.CurrentTrack == nil {
		return nil, nil
	}
	processed := scoring.ProcessSubmissions(
		d.Submissions, d.CurrentTrack.Name, d.CurrentTrack.Artist, d.Settings.GuessArtist)

	scores = make(map[string]int, len(runningScores))
	for k, v := range runningScores {
		scores[k] = v
	}
	for _, sub := range processed {
		scores[sub.PlayerID] += sub.Points
	}

	data = map[string]any{
		"phase": PhaseRevealing,
		"revealedAnswer": RevealedAnswer{
			Track:       *d.CurrentTrack,
			Submissions: processed,
		},
		"roundStartTime": nil,
	}
	return data, scores
}

// NextRound moves on to the next track, or reports done once the track
// list is exhausted.
func NextRound(d *Data, now time.Time) (data map[string]any, done bool) {
	next := d.Round + 1
	if next >= len(d.Tracks) {
		return map[string]any{"phase": PhaseFinished}, true
	}
	return map[string]any{
		"phase":          PhasePlaying,
		"round":          next,
		"currentTrack":   d.Tracks[next],
		"revealedAnswer": nil,
		"submissions":    []scoring.Submission{},
		"roundStartTime": now.UnixMilli(),
	}, false
}
