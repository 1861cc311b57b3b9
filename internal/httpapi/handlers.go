package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/abrown5421/game-lynq/internal/session"
)

func (s *Server) listGames(c *gin.Context) {
	c.JSON(http.StatusOK, s.registry.All())
}

func (s *Server) getGame(c *gin.Context) {
	g, ok := s.registry.Lookup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	c.JSON(http.StatusOK, g)
}

func (s *Server) createSession(c *gin.Context) {
	var req struct {
		HostID string `json:"hostId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hostId is required"})
		return
	}
	sess, err := s.sessions.Create(c.Request.Context(), req.HostID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

func (s *Server) getSession(c *gin.Context) {
	sess, err := s.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (s *Server) getSessionByCode(c *gin.Context) {
	sess, err := s.sessions.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (s *Server) joinSession(c *gin.Context) {
	var req struct {
		Code   string `json:"code" binding:"required"`
		Name   string `json:"name" binding:"required"`
		UserID string `json:"userId"`
		UnID   string `json:"unId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code and name are required"})
		return
	}
	sess, err := s.sessions.Join(c.Request.Context(), req.Code, req.Name, req.UserID, req.UnID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (s *Server) leaveSession(c *gin.Context) {
	var req struct {
		PlayerName string `json:"playerName" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "playerName is required"})
		return
	}
	sess, err := s.sessions.Leave(c.Request.Context(), c.Param("id"), req.PlayerName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (s *Server) removePlayer(c *gin.Context) {
	var req struct {
		PlayerName string `json:"playerName" binding:"required"`
		HostID     string `json:"hostId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "playerName and hostId are required"})
		return
	}
	sess, err := s.sessions.RemovePlayer(c.Request.Context(), c.Param("id"), req.PlayerName, req.HostID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (s *Server) renamePlayer(c *gin.Context) {
	var req struct {
		OldName string `json:"oldName" binding:"required"`
		NewName string `json:"newName" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "oldName and newName are required"})
		return
	}
	sess, err := s.sessions.RenamePlayer(c.Request.Context(), c.Param("id"), req.OldName, req.NewName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (s *Server) selectGame(c *gin.Context) {
	var req struct {
		GameID string `json:"gameId" binding:"required"`
		HostID string `json:"hostId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "gameId and hostId are required"})
		return
	}
	sess, err := s.sessions.SelectGame(c.Request.Context(), c.Param("id"), req.GameID, req.HostID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (s *Server) startGame(c *gin.Context) {
	var req struct {
		HostID string `json:"hostId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hostId is required"})
		return
	}
	sess, err := s.sessions.Start(c.Request.Context(), c.Param("id"), req.HostID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (s *Server) endGame(c *gin.Context) {
	var req struct {
		HostID string `json:"hostId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hostId is required"})
		return
	}
	sess, err := s.sessions.End(c.Request.Context(), c.Param("id"), req.HostID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (s *Server) deleteSession(c *gin.Context) {
	var req struct {
		HostID string `json:"hostId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hostId is required"})
		return
	}
	if err := s.sessions.Delete(c.Request.Context(), c.Param("id"), req.HostID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) gameAction(c *gin.Context) {
	var req session.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid action body"})
		return
	}
	sess, err := s.sessions.ApplyAction(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// sessionQR renders the join URL for this session's code as a PNG, for
// scanning from the host screen.
func (s *Server) sessionQR(c *gin.Context) {
	sess, err := s.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	png, err := qrcode.Encode(s.baseURL+"/join?code="+sess.Code, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not render qr code"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (s *Server) searchTracks(c *gin.Context) {
	term := c.Query("term")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "term is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "60"))
	found, err := s.catalog.Search(c.Request.Context(), term, limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "track search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tracks": found})
}

// respondError maps the session error taxonomy onto HTTP statuses:
// not-found and game-not-started are 404, stale writes 409, authorization
// 403, everything else is a 400 validation rejection.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrGameNotStarted),
		errors.Is(err, session.ErrPlayerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrStaleWrite):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrNotHost), errors.Is(err, session.ErrNotMember):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
