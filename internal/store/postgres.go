package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abrown5421/game-lynq/internal/session"
)

// Postgres stores each session as a JSONB document keyed by id, with the
// join code and version broken out into columns. The version column backs
// the compare-and-swap in Update.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, connString string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}

func (p *Postgres) Create(ctx context.Context, s *session.Session) error {
	doc, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO sessions (id, code, version, doc) VALUES ($1, $2, $3, $4)`,
		s.ID, s.Code, s.Version, doc)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 is unique_violation: the join code is already taken.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("join code %s already in use: %w", s.Code, err)
		}
		return err
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, id string) (*session.Session, error) {
	return p.scanOne(p.pool.QueryRow(ctx, `SELECT doc FROM sessions WHERE id = $1`, id))
}

func (p *Postgres) GetByCode(ctx context.Context, code string) (*session.Session, error) {
	return p.scanOne(p.pool.QueryRow(ctx, `SELECT doc FROM sessions WHERE code = $1`, code))
}

func (p *Postgres) Update(ctx context.Context, s *session.Session, expectedVersion int64) error {
	doc, err := json.Marshal(s)
	if err != nil {
		return err
	}
	tag, err := p.pool.Exec(ctx,
		`UPDATE sessions SET version = $1, doc = $2 WHERE id = $3 AND version = $4`,
		s.Version, doc, s.ID, expectedVersion)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Either the row is gone or someone wrote in between.
		if _, err := p.Get(ctx, s.ID); err != nil {
			return err
		}
		return session.ErrStaleWrite
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return session.ErrSessionNotFound
	}
	return nil
}

func (p *Postgres) scanOne(row pgx.Row) (*session.Session, error) {
	var doc []byte
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
			return nil, session.ErrSessionNotFound
		}
		return nil, err
	}
	var s session.Session
	if err := json.Unmarshal(doc, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
