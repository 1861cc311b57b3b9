// Package scoring is the fuzzy answer-matching and point-award engine for
// the music game. Everything here is deterministic given its inputs.
package scoring

import (
	"regexp"
	"sort"
	"strings"
)

const (
	pointsBothCorrect   = 1000
	pointsOneCorrect    = 500
	speedBonusBase      = 500
	speedBonusStep      = 100
	speedBonusCutoff    = 5 // correct ranks beyond this earn nothing
	editDistanceDivisor = 3
)

// Submission is one player's guess for a track, stamped with when it
// arrived.
type Submission struct {
	PlayerID      string `json:"playerId"`
	PlayerName    string `json:"playerName"`
	TrackGuess    string `json:"trackGuess"`
	ArtistGuess   string `json:"artistGuess"`
	SubmittedAt   int64  `json:"submittedAt"`
	TrackCorrect  bool   `json:"trackCorrect"`
	ArtistCorrect bool   `json:"artistCorrect"`
	Points        int    `json:"points"`
}

var (
	bracketedRe = regexp.MustCompile(`\s*[(\[][^)\]]*[)\]]`)
	dashedRe    = regexp.MustCompile(`(?i)\s+-\s+.*\b(remaster(?:ed)?|version|edit|mix|remix|mono|stereo|live|deluxe|feat\.?|featuring)\b.*$`)
	punctRe     = regexp.MustCompile(`[^a-z0-9\s]`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

// Normalize strips bracketed and dashed qualifier annotations (remasters,
// versions, featured artists and the like), lowercases, removes
// punctuation and collapses whitespace.
func Normalize(s string) string {
	s = bracketedRe.ReplaceAllString(s, "")
	s = dashedRe.ReplaceAllString(s, "")
	s = strings.ToLower(s)
	s = punctRe.ReplaceAllString(s, "")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CheckAnswer reports whether guess matches answer: exact after
// normalization, containment either way, or within a third of the
// normalized answer's length in edit distance. Blank guesses never match.
func CheckAnswer(guess, answer string) bool {
	g := Normalize(guess)
	a := Normalize(answer)
	if g == "" || a == "" {
		return false
	}
	if g == a || strings.Contains(g, a) || strings.Contains(a, g) {
		return true
	}
	return levenshtein(g, a) <= len([]rune(a))/editDistanceDivisor
}

// levenshtein is the classic dynamic-programming edit distance over runes.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minOf(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func minOf(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// ProcessSubmissions scores every submission against the correct track and
// artist. Base points reward field matches; the speed bonus rewards how
// early a correct submission arrived relative to the other correct ones.
func ProcessSubmissions(subs []Submission, correctTrack, correctArtist string, guessArtist bool) []Submission {
	out := make([]Submission, len(subs))
	copy(out, subs)

	for i := range out {
		out[i].TrackCorrect = CheckAnswer(out[i].TrackGuess, correctTrack)
		if guessArtist {
			out[i].ArtistCorrect = CheckAnswer(out[i].ArtistGuess, correctArtist)
		} else {
			out[i].ArtistCorrect = false
		}
		out[i].Points = basePoints(out[i], guessArtist)
	}

	// Rank only the correct submissions by arrival time for the bonus.
	correct := make([]int, 0, len(out))
	for i := range out {
		if out[i].Points > 0 {
			correct = append(correct, i)
		}
	}
	sort.SliceStable(correct, func(x, y int) bool {
		return out[correct[x]].SubmittedAt < out[correct[y]].SubmittedAt
	})
	for rank, i := range correct {
		if rank >= speedBonusCutoff {
			break
		}
		out[i].Points += speedBonusBase - rank*speedBonusStep
	}
	return out
}

func basePoints(sub Submission, guessArtist bool) int {
	if !guessArtist {
		if sub.TrackCorrect {
			return pointsBothCorrect
		}
		return 0
	}
	switch {
	case sub.TrackCorrect && sub.ArtistCorrect:
		return pointsBothCorrect
	case sub.TrackCorrect || sub.ArtistCorrect:
		return pointsOneCorrect
	default:
		return 0
	}
}
