package session

import "context"

// Store persists session documents. Update is a compare-and-swap on the
// version the caller loaded: it fails with ErrStaleWrite when the stored
// version has moved on, which is what makes each mutation atomic without
// transactions spanning requests.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	GetByCode(ctx context.Context, code string) (*Session, error)
	Update(ctx context.Context, s *Session, expectedVersion int64) error
	Delete(ctx context.Context, id string) error
}
