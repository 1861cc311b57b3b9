// Package rotation holds the pure shuffle, team-split and turn-order
// helpers shared by the games.
package rotation

import "math/rand"

// Shuffle returns a Fisher-Yates shuffled copy of ids.
func Shuffle(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	for i := len(out) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// AssignTeams shuffles the player ids and splits at the ceiling of half.
// Membership is random per call, the split point is not.
func AssignTeams(playerIDs []string) (team1, team2 []string) {
	shuffled := Shuffle(playerIDs)
	mid := (len(shuffled) + 1) / 2
	return shuffled[:mid], shuffled[mid:]
}

// NextPlayer returns the team member after current, wrapping around. An
// empty current yields the first member.
func NextPlayer(team []string, current string) string {
	if len(team) == 0 {
		return ""
	}
	idx := -1
	for i, id := range team {
		if id == current {
			idx = i
			break
		}
	}
	return team[(idx+1)%len(team)]
}

// NextTeam toggles between the two fixed team identifiers.
func NextTeam(current string) string {
	if current == "team1" {
		return "team2"
	}
	return "team1"
}

// NextTurnPlayer rotates through the active (non-eliminated) player list
// only. Eliminated players are skipped because they were excluded from the
// list, not because this function knows about elimination.
func NextTurnPlayer(activeIDs []string, current string) string {
	return NextPlayer(activeIDs, current)
}
