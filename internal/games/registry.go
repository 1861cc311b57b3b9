// Package games is the registry of playable games. The session layer only
// ever asks it for player bounds; everything else about a game lives in
// that game's own package.
package games

import "sort"

const (
	FishbowlID  = "fishbowl"
	IpodWarID   = "ipod-war"
	LiarsDiceID = "liars-dice"
)

// Game describes one playable game for listings and player-count checks.
type Game struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MinPlayers  int    `json:"minPlayers"`
	MaxPlayers  int    `json:"maxPlayers"`
}

// Registry is a fixed lookup table built at startup.
type Registry struct {
	games map[string]Game
}

func NewRegistry() *Registry {
	r := &Registry{games: make(map[string]Game)}
	for _, g := range []Game{
		{
			ID:          FishbowlID,
			Name:        "Fishbowl",
			Description: "Teams guess pooled words over three rounds: describe it, act it out, one word.",
			MinPlayers:  4,
			MaxPlayers:  12,
		},
		{
			ID:          IpodWarID,
			Name:        "iPod War",
			Description: "Guess the track (and artist) from a short preview before anyone else.",
			MinPlayers:  2,
			MaxPlayers:  10,
		},
		{
			ID:          LiarsDiceID,
			Name:        "Liar's Dice",
			Description: "Bid on everyone's hidden dice, call the bluff, last player with dice wins.",
			MinPlayers:  2,
			MaxPlayers:  8,
		},
	} {
		r.games[g.ID] = g
	}
	return r
}

func (r *Registry) Lookup(id string) (Game, bool) {
	g, ok := r.games[id]
	return g, ok
}

// PlayerBounds implements session.Catalog.
func (r *Registry) PlayerBounds(id string) (min, max int, ok bool) {
	g, ok := r.games[id]
	if !ok {
		return 0, 0, false
	}
	return g.MinPlayers, g.MaxPlayers, true
}

// All returns the registered games sorted by id.
func (r *Registry) All() []Game {
	out := make([]Game, 0, len(r.games))
	for _, g := range r.games {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
