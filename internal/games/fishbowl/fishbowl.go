// Package fishbowl is the word-submission party game: every player feeds
// words into a shared bowl, two teams then take timed turns guessing them
// over three rounds with shrinking clues.
//
// All functions here are pure: they read a decoded state snapshot and
// return the updateData payload (changed keys only) that advances it. The
// polling clients decide when to call them.
package fishbowl

import (
	"time"

	"github.com/abrown5421/game-lynq/internal/games"
	"github.com/abrown5421/game-lynq/internal/rotation"
)

const (
	PhaseWordSubmission = "word-submission"
	PhaseTeamAssignment = "team-assignment"
	PhaseRoundIntro     = "round-intro"
	PhasePlaying        = "playing"
	PhaseTurnEnd        = "turn-end"
	PhaseRoundEnd       = "round-end"
	PhaseFinished       = "finished"
)

// TotalRounds is fixed: describe it, act it out, one word.
const TotalRounds = 3

// RoundIntroDelay is how long the round-intro screen shows before the
// first turn begins.
const RoundIntroDelay = 5 * time.Second

type Word struct {
	Text        string `json:"text"`
	SubmittedBy string `json:"submittedBy"`
}

type Team struct {
	Name    string   `json:"name"`
	Players []string `json:"players"`
}

type Teams struct {
	Team1 Team `json:"team1"`
	Team2 Team `json:"team2"`
}

type TeamScores struct {
	Team1 int `json:"team1"`
	Team2 int `json:"team2"`
}

type Settings struct {
	WordsPerPlayer int  `json:"wordsPerPlayer"`
	TurnDuration   int  `json:"turnDuration"` // seconds
	AllowSkips     bool `json:"allowSkips"`
}

type RoundSummary struct {
	Round        int `json:"round"`
	Team1Score   int `json:"team1Score"`
	Team2Score   int `json:"team2Score"`
	WordsGuessed int `json:"wordsGuessed"`
}

// Data is the full fishbowl sub-document inside gameState.data.
type Data struct {
	Phase                string            `json:"phase"`
	Teams                Teams             `json:"teams"`
	Fishbowl             []Word            `json:"fishbowl"`
	RemainingWords       []Word            `json:"remainingWords"`
	CurrentWord          *Word             `json:"currentWord"`
	CurrentTeam          string            `json:"currentTeam"`
	CurrentPlayer        string            `json:"currentPlayer"`
	LastPlayers          map[string]string `json:"lastPlayers"`
	TurnStartTime        *int64            `json:"turnStartTime"`
	Scores               TeamScores        `json:"scores"`
	WordsGuessedThisTurn []Word            `json:"wordsGuessedThisTurn"`
	WordsSkippedThisTurn []Word            `json:"wordsSkippedThisTurn"`
	WordsSubmitted       map[string][]Word `json:"wordsSubmitted"`
	CurrentRound         int               `json:"currentRound"`
	RoundHistory         []RoundSummary    `json:"roundHistory"`
	Settings             Settings          `json:"settings"`
}

func Decode(raw map[string]any) (*Data, error) {
	var d Data
	if err := games.DecodeData(raw, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

var roundNames = [TotalRounds]string{"Describe It", "Act It Out", "One Word"}

var roundDescriptions = [TotalRounds]string{
	"Use words to describe the term without saying it",
	"Act out the term without speaking or making sounds",
	"Give only ONE word as a clue for the term",
}

func RoundName(round int) string {
	if round < 0 || round >= TotalRounds {
		return "Unknown Round"
	}
	return roundNames[round]
}

func RoundDescription(round int) string {
	if round < 0 || round >= TotalRounds {
		return ""
	}
	return roundDescriptions[round]
}

// InitialData is the first updateData payload, issued by the host when
// confirming settings.
func InitialData(settings Settings) map[string]any {
	return map[string]any{
		"phase":                PhaseWordSubmission,
		"teams":                Teams{Team1: Team{Name: "Team 1"}, Team2: Team{Name: "Team 2"}},
		"fishbowl":             []Word{},
		"remainingWords":       []Word{},
		"currentWord":          nil,
		"currentTeam":          "team1",
		"currentPlayer":        nil,
		"lastPlayers":          map[string]string{},
		"turnStartTime":        nil,
		"scores":               TeamScores{},
		"wordsGuessedThisTurn": []Word{},
		"wordsSkippedThisTurn": []Word{},
		"wordsSubmitted":       map[string][]Word{},
		"currentRound":         0,
		"roundHistory":         []RoundSummary{},
		"settings":             settings,
	}
}

// SubmitWords records a player's words into the shared bowl.
func SubmitWords(d *Data, playerID string, words []string) map[string]any {
	submitted := make(map[string][]Word, len(d.WordsSubmitted)+1)
	for k, v := range d.WordsSubmitted {
		submitted[k] = v
	}
	entries := append([]Word{}, submitted[playerID]...)
	bowl := append([]Word{}, d.Fishbowl...)
	for _, w := range words {
		word := Word{Text: w, SubmittedBy: playerID}
		entries = append(entries, word)
		bowl = append(bowl, word)
	}
	submitted[playerID] = entries
	return map[string]any{
		"wordsSubmitted": submitted,
		"fishbowl":       bowl,
	}
}

// AllWordsSubmitted reports whether the whole quota is in the bowl.
func AllWordsSubmitted(d *Data, playerCount int) bool {
	total := 0
	for _, words := range d.WordsSubmitted {
		total += len(words)
	}
	return total >= playerCount*d.Settings.WordsPerPlayer
}

// AssignTeams shuffles players into two teams and moves to the
// team-assignment phase. Host-driven.
func AssignTeams(playerIDs []string) map[string]any {
	team1, team2 := rotation.AssignTeams(playerIDs)
	return map[string]any{
		"phase": PhaseTeamAssignment,
		"teams": Teams{
			Team1: Team{Name: "Team 1", Players: team1},
			Team2: Team{Name: "Team 2", Players: team2},
		},
	}
}

// StartRound shows the round intro and lines up the first turn. Team 1
// always opens a round; its clue-giver rotation continues across rounds.
func StartRound(d *Data) map[string]any {
	player := rotation.NextPlayer(d.Teams.Team1.Players, d.LastPlayers["team1"])
	return map[string]any{
		"phase":          PhaseRoundIntro,
		"remainingWords": d.Fishbowl,
		"currentTeam":    "team1",
		"currentPlayer":  player,
		"lastPlayers":    withLastPlayer(d.LastPlayers, "team1", player),
	}
}

// BeginTurn starts the clock on the pending turn.
func BeginTurn(d *Data, now time.Time) map[string]any {
	var current any
	if len(d.RemainingWords) > 0 {
		current = d.RemainingWords[0]
	}
	return map[string]any{
		"phase":         PhasePlaying,
		"turnStartTime": now.UnixMilli(),
		"currentWord":   current,
	}
}

// MarkCorrect removes the current word from play, credits the guessing
// team and advances to the next word.
func MarkCorrect(d *Data) map[string]any {
	if d.CurrentWord == nil {
		return nil
	}
	remaining := withoutWord(d.RemainingWords, d.CurrentWord.Text)
	guessed := append(append([]Word{}, d.WordsGuessedThisTurn...), *d.CurrentWord)
	scores := d.Scores
	if d.CurrentTeam == "team2" {
		scores.Team2++
	} else {
		scores.Team1++
	}
	return map[string]any{
		"remainingWords":       remaining,
		"currentWord":          firstWord(remaining),
		"wordsGuessedThisTurn": guessed,
		"scores":               scores,
	}
}

// Skip sends the current word to the back of the pool instead of removing
// it. Only legal when skips are enabled.
func Skip(d *Data) map[string]any {
	if d.CurrentWord == nil || !d.Settings.AllowSkips {
		return nil
	}
	remaining := append(withoutWord(d.RemainingWords, d.CurrentWord.Text), *d.CurrentWord)
	skipped := append(append([]Word{}, d.WordsSkippedThisTurn...), *d.CurrentWord)
	return map[string]any{
		"remainingWords":       remaining,
		"currentWord":          firstWord(remaining),
		"wordsSkippedThisTurn": skipped,
	}
}

// TurnExpired reports whether the running turn's timer has hit zero.
func TurnExpired(d *Data, now time.Time) bool {
	if d.Phase != PhasePlaying || d.TurnStartTime == nil {
		return false
	}
	elapsed := now.UnixMilli() - *d.TurnStartTime
	return elapsed >= int64(d.Settings.TurnDuration)*1000
}

// EndTurn freezes the board between turns.
func EndTurn() map[string]any {
	return map[string]any{
		"phase":         PhaseTurnEnd,
		"turnStartTime": nil,
	}
}

// NextTurn hands play to the other team, or closes the round when the pool
// is empty. After the third round the game is finished.
func NextTurn(d *Data, now time.Time) map[string]any {
	if len(d.RemainingWords) == 0 {
		nextRound := d.CurrentRound + 1
		history := append(append([]RoundSummary{}, d.RoundHistory...), RoundSummary{
			Round:        d.CurrentRound,
			Team1Score:   d.Scores.Team1,
			Team2Score:   d.Scores.Team2,
			WordsGuessed: len(d.Fishbowl),
		})
		if nextRound >= TotalRounds {
			return map[string]any{
				"phase":        PhaseFinished,
				"roundHistory": history,
			}
		}
		return map[string]any{
			"phase":        PhaseRoundEnd,
			"currentRound": nextRound,
			"roundHistory": history,
		}
	}

	nextTeam := rotation.NextTeam(d.CurrentTeam)
	var players []string
	if nextTeam == "team1" {
		players = d.Teams.Team1.Players
	} else {
		players = d.Teams.Team2.Players
	}
	// Each team rotates clue-givers independently, so the handoff looks at
	// that team's last player rather than the one who just finished.
	player := rotation.NextPlayer(players, d.LastPlayers[nextTeam])
	return map[string]any{
		"phase":                PhasePlaying,
		"currentTeam":          nextTeam,
		"currentPlayer":        player,
		"lastPlayers":          withLastPlayer(d.LastPlayers, nextTeam, player),
		"turnStartTime":        now.UnixMilli(),
		"wordsGuessedThisTurn": []Word{},
		"wordsSkippedThisTurn": []Word{},
		"currentWord":          firstWord(d.RemainingWords),
	}
}

func withLastPlayer(last map[string]string, team, player string) map[string]string {
	out := make(map[string]string, len(last)+1)
	for k, v := range last {
		out[k] = v
	}
	out[team] = player
	return out
}

func withoutWord(words []Word, text string) []Word {
	out := make([]Word, 0, len(words))
	for _, w := range words {
		if w.Text != text {
			out = append(out, w)
		}
	}
	return out
}

func firstWord(words []Word) any {
	if len(words) == 0 {
		return nil
	}
	return words[0]
}
