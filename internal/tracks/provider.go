package tracks

import (
	"context"

	"github.com/abrown5421/game-lynq/internal/games/ipodwar"
)

// Provider is the external music catalog. The game treats it as a black
// box that turns a search term into playable preview tracks.
type Provider interface {
	Search(ctx context.Context, term string, limit int) ([]ipodwar.Track, error)
}
