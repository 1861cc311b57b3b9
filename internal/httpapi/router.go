// Package httpapi exposes the session engine over HTTP. Clients poll the
// session read endpoint and submit every mutation through the small set of
// POST routes below; there is no push channel.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/abrown5421/game-lynq/internal/games"
	"github.com/abrown5421/game-lynq/internal/session"
	"github.com/abrown5421/game-lynq/internal/tracks"
)

type Server struct {
	sessions *session.Service
	registry *games.Registry
	catalog  tracks.Provider
	baseURL  string
}

func NewServer(sessions *session.Service, registry *games.Registry, catalog tracks.Provider, baseURL string) *Server {
	return &Server{sessions: sessions, registry: registry, catalog: catalog, baseURL: baseURL}
}

// Router builds the gin engine with logging, CORS and poll rate limiting.
func (s *Server) Router(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	api := r.Group("/api")
	{
		api.GET("/games", s.listGames)
		api.GET("/games/:id", s.getGame)

		api.GET("/tracks/search", s.searchTracks)

		sess := api.Group("/sessions")
		sess.POST("/create", s.createSession)
		sess.POST("/join", s.joinSession)
		sess.GET("/code/:code", s.getSessionByCode)

		// Polling reads happen every second per connected device; cap
		// each client rather than the route as a whole.
		sess.GET("/:id", rateLimit(), s.getSession)
		sess.GET("/:id/qr", s.sessionQR)

		sess.POST("/:id/leave", s.leaveSession)
		sess.POST("/:id/remove-player", s.removePlayer)
		sess.POST("/:id/update-player-name", s.renamePlayer)
		sess.POST("/:id/select-game", s.selectGame)
		sess.POST("/:id/start", s.startGame)
		sess.POST("/:id/end-game", s.endGame)
		sess.POST("/:id/game-action", s.gameAction)
		sess.DELETE("/:id", s.deleteSession)
	}

	return r
}
