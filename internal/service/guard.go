package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/edugamify/classroom-api/internal/domain"
	"github.com/edugamify/classroom-api/internal/session"
)

type tokenKey struct{}

// WithSessionToken stores the raw session token for the Guard to resolve.
func WithSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func SessionToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

type GuardPersonRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Person, error)
}

// Guard resolves the caller of a request. The person is reloaded on every
// check so a role change applies to sessions that are already open.
type Guard struct {
	sessions session.Store
	persons  GuardPersonRepository
}

func NewGuard(sessions session.Store, persons GuardPersonRepository) *Guard {
	return &Guard{
		sessions: sessions,
		persons:  persons,
	}
}

func (g *Guard) RequireSession(ctx context.Context) (domain.Person, error) {
	sess, err := g.sessions.Resolve(ctx, SessionToken(ctx))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return domain.Person{}, domain.ErrNoSession
		}

		return domain.Person{}, fmt.Errorf("g.sessions.Resolve -> %w", err)
	}

	person, err := g.persons.FindByID(ctx, sess.PersonID)
	if err != nil {
		if errors.Is(err, domain.ErrPersonNotFound) {
			return domain.Person{}, domain.ErrNoSession
		}

		return domain.Person{}, fmt.Errorf("g.persons.FindByID -> %w", err)
	}

	return person, nil
}

func (g *Guard) RequireRole(ctx context.Context, roles ...domain.Role) (domain.Person, error) {
	person, err := g.RequireSession(ctx)
	if err != nil {
		return domain.Person{}, err
	}
	if !person.Role.In(roles...) {
		return domain.Person{}, domain.WithDetail(domain.ErrRoleNotAllowed, "role", person.Role)
	}

	return person, nil
}
