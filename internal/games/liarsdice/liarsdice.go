// Package liarsdice is the bluffing-dice game: players bid on how many
// dice of a face exist across all hidden hands until someone calls the
// bluff. Ones can count as wild.
package liarsdice

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/abrown5421/game-lynq/internal/games"
	"github.com/abrown5421/game-lynq/internal/rotation"
)

const (
	PhasePlaying   = "playing"
	PhaseRevealing = "revealing"
	PhaseGameOver  = "gameOver"
)

var (
	ErrNoBid     = errors.New("no bid to challenge")
	ErrLowBid    = errors.New("bid must strictly increase")
	ErrNotOnTurn = errors.New("not this player's turn")
)

type Die struct {
	Value int    `json:"value"` // 1-6
	ID    string `json:"id"`
}

type PlayerDice struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Dice       []Die  `json:"dice"`
	DiceCount  int    `json:"diceCount"`
}

type Bid struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Quantity   int    `json:"quantity"`
	FaceValue  int    `json:"faceValue"` // 1-6
	Timestamp  int64  `json:"timestamp"`
}

type RoundResult struct {
	Challenger     string       `json:"challenger"`
	ChallengerName string       `json:"challengerName"`
	Bidder         string       `json:"bidder"`
	BidderName     string       `json:"bidderName"`
	Bid            Bid          `json:"bid"`
	ActualCount    int          `json:"actualCount"`
	WasCorrect     bool         `json:"wasCorrect"`
	Loser          string       `json:"loser"`
	LoserName      string       `json:"loserName"`
	AllPlayerDice  []PlayerDice `json:"allPlayerDice"`
}

type Winner struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

type Settings struct {
	StartingDice int  `json:"startingDice"`
	OnesAreWild  bool `json:"onesAreWild"`
}

type Data struct {
	Phase               string       `json:"phase"`
	Round               int          `json:"round"`
	PlayerDice          []PlayerDice `json:"playerDice"`
	CurrentBid          *Bid         `json:"currentBid"`
	CurrentTurnPlayerID string       `json:"currentTurnPlayerId"`
	BiddingHistory      []Bid        `json:"biddingHistory"`
	RoundResult         *RoundResult `json:"roundResult"`
	EliminatedPlayers   []string     `json:"eliminatedPlayers"`
	Winner              *Winner      `json:"winner"`
	Settings            Settings     `json:"settings"`
}

func Decode(raw map[string]any) (*Data, error) {
	var d Data
	if err := games.DecodeData(raw, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Seat identifies one player when dealing the opening hands.
type Seat struct {
	ID   string
	Name string
}

// InitialData deals everyone their starting dice. The first player in join
// order opens the bidding.
func InitialData(seats []Seat, settings Settings) map[string]any {
	hands := make([]PlayerDice, 0, len(seats))
	for _, seat := range seats {
		hands = append(hands, PlayerDice{
			PlayerID:   seat.ID,
			PlayerName: seat.Name,
			Dice:       roll(seat.ID, settings.StartingDice),
			DiceCount:  settings.StartingDice,
		})
	}
	first := ""
	if len(seats) > 0 {
		first = seats[0].ID
	}
	return map[string]any{
		"phase":               PhasePlaying,
		"round":               1,
		"playerDice":          hands,
		"currentBid":          nil,
		"currentTurnPlayerId": first,
		"biddingHistory":      []Bid{},
		"roundResult":         nil,
		"eliminatedPlayers":   []string{},
		"winner":              nil,
		"settings":            settings,
	}
}

// ActivePlayerIDs lists players still holding dice, in seating order.
func ActivePlayerIDs(d *Data) []string {
	out := make([]string, 0, len(d.PlayerDice))
	for _, pd := range d.PlayerDice {
		if !contains(d.EliminatedPlayers, pd.PlayerID) {
			out = append(out, pd.PlayerID)
		}
	}
	return out
}

// CanBid reports whether a quantity/face pair outbids the current bid:
// higher quantity, or equal quantity with a higher face.
func CanBid(current *Bid, quantity, faceValue int) bool {
	if current == nil {
		return true
	}
	if quantity > current.Quantity {
		return true
	}
	return quantity == current.Quantity && faceValue > current.FaceValue
}

// MakeBid places a bid and passes the turn to the next active player.
func MakeBid(d *Data, playerID, playerName string, quantity, faceValue int, now time.Time) (map[string]any, error) {
	if d.CurrentTurnPlayerID != "" && d.CurrentTurnPlayerID != playerID {
		return nil, ErrNotOnTurn
	}
	if !CanBid(d.CurrentBid, quantity, faceValue) {
		return nil, ErrLowBid
	}
	bid := Bid{
		PlayerID:   playerID,
		PlayerName: playerName,
		Quantity:   quantity,
		FaceValue:  faceValue,
		Timestamp:  now.UnixMilli(),
	}
	history := append(append([]Bid{}, d.BiddingHistory...), bid)
	return map[string]any{
		"currentBid":          bid,
		"currentTurnPlayerId": rotation.NextTurnPlayer(ActivePlayerIDs(d), playerID),
		"biddingHistory":      history,
	}, nil
}

// CountMatching tallies dice matching the face across all active players,
// honoring the wild-ones rule.
func CountMatching(d *Data, faceValue int) int {
	count := 0
	for _, pd := range d.PlayerDice {
		if contains(d.EliminatedPlayers, pd.PlayerID) {
			continue
		}
		for _, die := range pd.Dice {
			if die.Value == faceValue {
				count++
			} else if d.Settings.OnesAreWild && die.Value == 1 && faceValue != 1 {
				count++
			}
		}
	}
	return count
}

// Challenge resolves a called bluff: if the bid holds up the challenger
// loses a die, otherwise the bidder does.
func Challenge(d *Data, challengerID, challengerName string) (map[string]any, error) {
	if d.CurrentBid == nil {
		return nil, ErrNoBid
	}
	actual := CountMatching(d, d.CurrentBid.FaceValue)
	wasCorrect := actual >= d.CurrentBid.Quantity

	loser, loserName := challengerID, challengerName
	if !wasCorrect {
		loser, loserName = d.CurrentBid.PlayerID, d.CurrentBid.PlayerName
	}
	result := RoundResult{
		Challenger:     challengerID,
		ChallengerName: challengerName,
		Bidder:         d.CurrentBid.PlayerID,
		BidderName:     d.CurrentBid.PlayerName,
		Bid:            *d.CurrentBid,
		ActualCount:    actual,
		WasCorrect:     wasCorrect,
		Loser:          loser,
		LoserName:      loserName,
		AllPlayerDice:  d.PlayerDice,
	}
	return map[string]any{
		"phase":       PhaseRevealing,
		"roundResult": result,
	}, nil
}

// NextRound applies the reveal's outcome: the loser drops a die, everyone
// re-rolls, empty hands are eliminated, and either the loser opens the next
// round or the last player standing wins.
func NextRound(d *Data) (map[string]any, error) {
	if d.RoundResult == nil {
		return nil, errors.New("no round result to advance from")
	}
	loser := d.RoundResult.Loser

	hands := make([]PlayerDice, len(d.PlayerDice))
	for i, pd := range d.PlayerDice {
		n := pd.DiceCount
		if pd.PlayerID == loser && n > 0 {
			n--
		}
		hands[i] = PlayerDice{
			PlayerID:   pd.PlayerID,
			PlayerName: pd.PlayerName,
			Dice:       roll(pd.PlayerID, n),
			DiceCount:  n,
		}
	}

	eliminated := append([]string{}, d.EliminatedPlayers...)
	for _, pd := range hands {
		if pd.DiceCount == 0 && !contains(eliminated, pd.PlayerID) {
			eliminated = append(eliminated, pd.PlayerID)
		}
	}

	var standing []PlayerDice
	for _, pd := range hands {
		if pd.DiceCount > 0 {
			standing = append(standing, pd)
		}
	}
	if len(standing) == 1 {
		return map[string]any{
			"phase":             PhaseGameOver,
			"playerDice":        hands,
			"eliminatedPlayers": eliminated,
			"winner":            Winner{PlayerID: standing[0].PlayerID, PlayerName: standing[0].PlayerName},
		}, nil
	}

	next := loser
	if contains(eliminated, loser) {
		// The loser just lost their last die; the seat after them opens.
		seats := make([]string, 0, len(hands))
		for _, pd := range hands {
			seats = append(seats, pd.PlayerID)
		}
		next = rotation.NextTurnPlayer(seats, loser)
		for contains(eliminated, next) {
			next = rotation.NextTurnPlayer(seats, next)
		}
	}
	return map[string]any{
		"phase":               PhasePlaying,
		"round":               d.Round + 1,
		"playerDice":          hands,
		"currentBid":          nil,
		"currentTurnPlayerId": next,
		"biddingHistory":      []Bid{},
		"roundResult":         nil,
		"eliminatedPlayers":   eliminated,
	}, nil
}

func roll(playerID string, n int) []Die {
	dice := make([]Die, n)
	for i := range dice {
		dice[i] = Die{
			Value: rand.Intn(6) + 1,
			ID:    fmt.Sprintf("%s-%d", playerID, i),
		}
	}
	return dice
}

func contains(list []string, v string) bool {
	for _, e := range list {
		if e == v {
			return true
		}
	}
	return false
}
