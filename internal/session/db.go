package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/edugamify/classroom-api/internal/domain"
	"github.com/edugamify/classroom-api/internal/repository/dao"
)

type SessionDAO interface {
	Insert(ctx context.Context, session dao.Session) (dao.Session, error)
	FindByTokenHash(ctx context.Context, tokenHash string) (dao.Session, error)
	Touch(ctx context.Context, tokenHash string, expiresAt time.Time) error
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// DBStore keeps sessions in the relational store.
type DBStore struct {
	dao SessionDAO
	ttl time.Duration
	now func() time.Time
}

func NewDBStore(dao SessionDAO, ttl time.Duration) *DBStore {
	return &DBStore{
		dao: dao,
		ttl: ttlOrDefault(ttl),
		now: time.Now,
	}
}

func (s *DBStore) Create(ctx context.Context, personID uint, role domain.Role) (string, Session, error) {
	token, err := NewToken()
	if err != nil {
		return "", Session{}, err
	}

	created, err := s.dao.Insert(ctx, dao.Session{
		TokenHash: HashToken(token),
		PersonID:  personID,
		Role:      string(role),
		ExpiresAt: s.now().UTC().Add(s.ttl),
	})
	if err != nil {
		return "", Session{}, fmt.Errorf("s.dao.Insert -> %w", err)
	}

	return token, sessionDaoToSession(created), nil
}

func (s *DBStore) Resolve(ctx context.Context, token string) (Session, error) {
	if strings.TrimSpace(token) == "" {
		return Session{}, ErrNotFound
	}
	hash := HashToken(token)

	found, err := s.dao.FindByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, dao.ErrRecordNotFound) {
			return Session{}, ErrNotFound
		}

		return Session{}, fmt.Errorf("s.dao.FindByTokenHash -> %w", err)
	}

	now := s.now().UTC()
	if !found.ExpiresAt.After(now) {
		_ = s.dao.DeleteByTokenHash(ctx, hash)
		return Session{}, ErrNotFound
	}

	found.ExpiresAt = now.Add(s.ttl)
	if err := s.dao.Touch(ctx, hash, found.ExpiresAt); err != nil {
		if errors.Is(err, dao.ErrRecordNotFound) {
			return Session{}, ErrNotFound
		}

		return Session{}, fmt.Errorf("s.dao.Touch -> %w", err)
	}

	return sessionDaoToSession(found), nil
}

func (s *DBStore) Revoke(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	if err := s.dao.DeleteByTokenHash(ctx, HashToken(token)); err != nil {
		return fmt.Errorf("s.dao.DeleteByTokenHash -> %w", err)
	}

	return nil
}

// Purge drops every expired session row and returns how many were removed.
func (s *DBStore) Purge(ctx context.Context) (int64, error) {
	n, err := s.dao.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("s.dao.DeleteExpired -> %w", err)
	}

	return n, nil
}

func sessionDaoToSession(s dao.Session) Session {
	return Session{
		PersonID:  s.PersonID,
		Role:      domain.Role(s.Role),
		ExpiresAt: s.ExpiresAt,
	}
}
