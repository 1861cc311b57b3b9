package session

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrGameNotStarted  = errors.New("game not started")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrInvalidAction   = errors.New("unrecognized action")
	ErrInvalidPayload  = errors.New("invalid action payload")
	ErrNotHost         = errors.New("not host")
	ErrNotMember       = errors.New("not a session member")
	ErrNameTaken       = errors.New("name already taken in this session")
	ErrIdentityTaken   = errors.New("identity already in this session")
	ErrStaleWrite      = errors.New("stale write: base version does not match")
	ErrNoGameSelected  = errors.New("no game selected")
	ErrPlayerCount     = errors.New("player count outside game limits")
	ErrSessionEnded    = errors.New("session has ended")
)
