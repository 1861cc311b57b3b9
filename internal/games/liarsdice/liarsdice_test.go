package liarsdice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrown5421/game-lynq/internal/games"
)

var fourSeats = []Seat{
	{ID: "p1", Name: "Alex"},
	{ID: "p2", Name: "Brook"},
	{ID: "p3", Name: "Charlie"},
	{ID: "p4", Name: "Devon"},
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

func initialState(t *testing.T, seats []Seat, settings Settings) *Data {
	t.Helper()
	raw, err := games.EncodeData(InitialData(seats, settings))
	require.NoError(t, err)
	d, err := Decode(raw)
	require.NoError(t, err)
	return d
}

// dice builds a hand from face values with deterministic ids.
func dice(playerID string, values ...int) []Die {
	out := make([]Die, len(values))
	for i, v := range values {
		out[i] = Die{Value: v, ID: playerID + "-" + string(rune('0'+i))}
	}
	return out
}

func TestInitialDataDealsHands(t *testing.T) {
	d := initialState(t, fourSeats, Settings{StartingDice: 5, OnesAreWild: true})

	assert.Equal(t, PhasePlaying, d.Phase)
	assert.Equal(t, 1, d.Round)
	assert.Equal(t, "p1", d.CurrentTurnPlayerID)
	require.Len(t, d.PlayerDice, 4)
	for _, pd := range d.PlayerDice {
		assert.Equal(t, 5, pd.DiceCount)
		require.Len(t, pd.Dice, 5)
		for _, die := range pd.Dice {
			assert.GreaterOrEqual(t, die.Value, 1)
			assert.LessOrEqual(t, die.Value, 6)
		}
	}
	assert.Nil(t, d.CurrentBid)
	assert.Empty(t, d.EliminatedPlayers)
}

func TestCanBid(t *testing.T) {
	assert.True(t, CanBid(nil, 1, 2))

	current := &Bid{Quantity: 3, FaceValue: 4}
	assert.True(t, CanBid(current, 4, 2))  // higher quantity, any face
	assert.True(t, CanBid(current, 3, 5))  // same quantity, higher face
	assert.False(t, CanBid(current, 3, 4)) // identical
	assert.False(t, CanBid(current, 3, 3))
	assert.False(t, CanBid(current, 2, 6))
}

func TestMakeBidAdvancesTurn(t *testing.T) {
	d := initialState(t, fourSeats, Settings{StartingDice: 5})
	now := time.Unix(1700000000, 0)

	payload, err := MakeBid(d, "p1", "Alex", 2, 3, now)
	require.NoError(t, err)
	d = applyPayload(t, d, payload)

	require.NotNil(t, d.CurrentBid)
	assert.Equal(t, 2, d.CurrentBid.Quantity)
	assert.Equal(t, 3, d.CurrentBid.FaceValue)
	assert.Equal(t, "p2", d.CurrentTurnPlayerID)
	assert.Len(t, d.BiddingHistory, 1)

	_, err = MakeBid(d, "p1", "Alex", 3, 3, now)
	assert.ErrorIs(t, err, ErrNotOnTurn)

	_, err = MakeBid(d, "p2", "Brook", 2, 2, now)
	assert.ErrorIs(t, err, ErrLowBid)

	payload, err = MakeBid(d, "p2", "Brook", 2, 6, now)
	require.NoError(t, err)
	d = applyPayload(t, d, payload)
	assert.Equal(t, "p3", d.CurrentTurnPlayerID)
	assert.Len(t, d.BiddingHistory, 2)
}

func TestCountMatchingWithWildOnes(t *testing.T) {
	d := &Data{
		Settings: Settings{OnesAreWild: true},
		PlayerDice: []PlayerDice{
			{PlayerID: "p1", Dice: dice("p1", 4, 4, 1, 2, 6), DiceCount: 5},
			{PlayerID: "p2", Dice: dice("p2", 4, 1, 3, 3, 5), DiceCount: 5},
			{PlayerID: "p3", Dice: dice("p3", 2, 2, 5, 6, 4), DiceCount: 5},
		},
	}

	// Three natural fours plus two wild ones.
	assert.Equal(t, 5, CountMatching(d, 4))

	// Ones are not wild for a bid on ones themselves.
	assert.Equal(t, 2, CountMatching(d, 1))

	d.Settings.OnesAreWild = false
	assert.Equal(t, 4, CountMatching(d, 4))

	// Eliminated hands never count.
	d.Settings.OnesAreWild = true
	d.EliminatedPlayers = []string{"p2"}
	assert.Equal(t, 3, CountMatching(d, 4))
}

// bidHolds is the reveal where the table really did have the bid quantity:
// the challenger loses a die.
func TestChallengeBidHolds(t *testing.T) {
	d := initialState(t, fourSeats, Settings{StartingDice: 5, OnesAreWild: true})
	d.PlayerDice = []PlayerDice{
		{PlayerID: "p1", PlayerName: "Alex", Dice: dice("p1", 4, 4, 1, 2, 6), DiceCount: 5},
		{PlayerID: "p2", PlayerName: "Brook", Dice: dice("p2", 4, 1, 3, 3, 5), DiceCount: 5},
		{PlayerID: "p3", PlayerName: "Charlie", Dice: dice("p3", 4, 2, 5, 6, 3), DiceCount: 5},
		{PlayerID: "p4", PlayerName: "Devon", Dice: dice("p4", 2, 2, 5, 6, 3), DiceCount: 5},
	}
	d.CurrentBid = &Bid{PlayerID: "p2", PlayerName: "Brook", Quantity: 6, FaceValue: 4}

	// Four natural fours plus two wilds: the bid of six fours holds.
	payload, err := Challenge(d, "p3", "Charlie")
	require.NoError(t, err)
	d = applyPayload(t, d, payload)

	assert.Equal(t, PhaseRevealing, d.Phase)
	require.NotNil(t, d.RoundResult)
	assert.Equal(t, 6, d.RoundResult.ActualCount)
	assert.True(t, d.RoundResult.WasCorrect)
	assert.Equal(t, "p3", d.RoundResult.Loser)
	assert.Len(t, d.RoundResult.AllPlayerDice, 4)

	next, err := NextRound(d)
	require.NoError(t, err)
	d = applyPayload(t, d, next)

	assert.Equal(t, PhasePlaying, d.Phase)
	assert.Equal(t, 2, d.Round)
	assert.Equal(t, 4, d.PlayerDice[2].DiceCount)
	assert.Equal(t, 5, d.PlayerDice[0].DiceCount)
	// The loser opens the next round.
	assert.Equal(t, "p3", d.CurrentTurnPlayerID)
	assert.Nil(t, d.CurrentBid)
	assert.Empty(t, d.BiddingHistory)
}

func TestChallengeBidFails(t *testing.T) {
	d := initialState(t, fourSeats, Settings{StartingDice: 5})
	d.PlayerDice = []PlayerDice{
		{PlayerID: "p1", PlayerName: "Alex", Dice: dice("p1", 2, 3, 5, 6, 6), DiceCount: 5},
		{PlayerID: "p2", PlayerName: "Brook", Dice: dice("p2", 4, 2, 3, 3, 5), DiceCount: 5},
		{PlayerID: "p3", PlayerName: "Charlie", Dice: dice("p3", 2, 2, 5, 6, 3), DiceCount: 5},
		{PlayerID: "p4", PlayerName: "Devon", Dice: dice("p4", 5, 2, 5, 6, 3), DiceCount: 5},
	}
	d.CurrentBid = &Bid{PlayerID: "p2", PlayerName: "Brook", Quantity: 3, FaceValue: 4}

	payload, err := Challenge(d, "p4", "Devon")
	require.NoError(t, err)
	d = applyPayload(t, d, payload)

	assert.Equal(t, 1, d.RoundResult.ActualCount)
	assert.False(t, d.RoundResult.WasCorrect)
	assert.Equal(t, "p2", d.RoundResult.Loser)
	assert.Equal(t, "Brook", d.RoundResult.LoserName)
}

func TestChallengeWithoutBid(t *testing.T) {
	d := initialState(t, fourSeats, Settings{StartingDice: 5})
	_, err := Challenge(d, "p2", "Brook")
	assert.ErrorIs(t, err, ErrNoBid)
}

func TestNextRoundEliminatesAndPassesTurn(t *testing.T) {
	d := initialState(t, fourSeats[:3], Settings{StartingDice: 5})
	d.PlayerDice = []PlayerDice{
		{PlayerID: "p1", PlayerName: "Alex", Dice: dice("p1", 2, 3), DiceCount: 2},
		{PlayerID: "p2", PlayerName: "Brook", Dice: dice("p2", 4), DiceCount: 1},
		{PlayerID: "p3", PlayerName: "Charlie", Dice: dice("p3", 2, 2, 5), DiceCount: 3},
	}
	d.RoundResult = &RoundResult{Loser: "p2", LoserName: "Brook"}

	next, err := NextRound(d)
	require.NoError(t, err)
	d = applyPayload(t, d, next)

	assert.Contains(t, d.EliminatedPlayers, "p2")
	assert.Equal(t, 0, d.PlayerDice[1].DiceCount)
	// The eliminated loser's next active neighbor opens.
	assert.Equal(t, "p3", d.CurrentTurnPlayerID)
}

func TestNextRoundDeclaresWinner(t *testing.T) {
	d := initialState(t, fourSeats[:2], Settings{StartingDice: 5})
	d.PlayerDice = []PlayerDice{
		{PlayerID: "p1", PlayerName: "Alex", Dice: dice("p1", 2, 3), DiceCount: 2},
		{PlayerID: "p2", PlayerName: "Brook", Dice: dice("p2", 4), DiceCount: 1},
	}
	d.RoundResult = &RoundResult{Loser: "p2", LoserName: "Brook"}

	next, err := NextRound(d)
	require.NoError(t, err)
	d = applyPayload(t, d, next)

	assert.Equal(t, PhaseGameOver, d.Phase)
	require.NotNil(t, d.Winner)
	assert.Equal(t, "p1", d.Winner.PlayerID)
	assert.Equal(t, "Alex", d.Winner.PlayerName)
}

func TestNextRoundRequiresResult(t *testing.T) {
	d := initialState(t, fourSeats, Settings{StartingDice: 5})
	_, err := NextRound(d)
	assert.Error(t, err)
}
