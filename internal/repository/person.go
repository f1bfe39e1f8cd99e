package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/edugamify/classroom-api/internal/domain"
	"github.com/edugamify/classroom-api/internal/repository/dao"
)

type PersonDAO interface {
	Insert(ctx context.Context, person dao.Person) (dao.Person, error)
	FindByID(ctx context.Context, id uint) (dao.Person, error)
	FindByUsername(ctx context.Context, username string) (dao.Person, error)
	FindByEmail(ctx context.Context, email string) (dao.Person, error)
	List(ctx context.Context) ([]dao.Person, error)
	TopByRole(ctx context.Context, role string, limit int) ([]dao.Person, error)
	UpdateProfile(ctx context.Context, id uint, fields map[string]any) error
	UpdateRole(ctx context.Context, id uint, role string) error
	AddPoints(ctx context.Context, id uint, amount int) (dao.Person, error)
	Delete(ctx context.Context, id uint) error
}

type PersonRepository struct {
	dao PersonDAO
}

func NewPersonRepository(dao PersonDAO) *PersonRepository {
	return &PersonRepository{
		dao: dao,
	}
}

func (r *PersonRepository) Create(ctx context.Context, person domain.Person) (domain.Person, error) {
	created, err := r.dao.Insert(ctx, dao.Person{
		Username:  person.Username,
		Email:     person.Email,
		Password:  person.PasswordHash,
		Role:      string(person.Role),
		AvatarRef: person.AvatarRef,
	})
	if err != nil {
		return domain.Person{}, fmt.Errorf("r.dao.Insert -> %w", personConflict(err))
	}

	return personDaoToDomain(created), nil
}

func (r *PersonRepository) FindByID(ctx context.Context, id uint) (domain.Person, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Person{}, fmt.Errorf("r.dao.FindByID -> %w", notFound(err, domain.WithDetail(domain.ErrPersonNotFound, "id", id)))
	}

	return personDaoToDomain(found), nil
}

func (r *PersonRepository) FindByUsername(ctx context.Context, username string) (domain.Person, error) {
	found, err := r.dao.FindByUsername(ctx, username)
	if err != nil {
		return domain.Person{}, fmt.Errorf("r.dao.FindByUsername -> %w", notFound(err, domain.ErrPersonNotFound))
	}

	return personDaoToDomain(found), nil
}

func (r *PersonRepository) FindByEmail(ctx context.Context, email string) (domain.Person, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.Person{}, fmt.Errorf("r.dao.FindByEmail -> %w", notFound(err, domain.ErrPersonNotFound))
	}

	return personDaoToDomain(found), nil
}

func (r *PersonRepository) List(ctx context.Context) ([]domain.Person, error) {
	found, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	return personsDaoToDomain(found), nil
}

func (r *PersonRepository) TopStudents(ctx context.Context, limit int) ([]domain.Person, error) {
	found, err := r.dao.TopByRole(ctx, string(domain.RoleStudent), limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.TopByRole -> %w", err)
	}

	return personsDaoToDomain(found), nil
}

func (r *PersonRepository) UpdateProfile(ctx context.Context, id uint, update domain.ProfileUpdate) error {
	fields := map[string]any{}
	if update.Email != nil {
		fields["email"] = *update.Email
	}
	if update.Password != nil {
		fields["password"] = *update.Password
	}
	if update.AvatarRef != nil {
		fields["avatar_ref"] = *update.AvatarRef
	}

	if err := r.dao.UpdateProfile(ctx, id, fields); err != nil {
		err = notFound(err, domain.WithDetail(domain.ErrPersonNotFound, "id", id))
		return fmt.Errorf("r.dao.UpdateProfile -> %w", personConflict(err))
	}

	return nil
}

func (r *PersonRepository) UpdateRole(ctx context.Context, id uint, role domain.Role) error {
	if err := r.dao.UpdateRole(ctx, id, string(role)); err != nil {
		return fmt.Errorf("r.dao.UpdateRole -> %w", notFound(err, domain.WithDetail(domain.ErrPersonNotFound, "id", id)))
	}

	return nil
}

// AddPoints is reserved for the points ledger.
func (r *PersonRepository) AddPoints(ctx context.Context, id uint, amount int) (domain.Person, error) {
	updated, err := r.dao.AddPoints(ctx, id, amount)
	if err != nil {
		return domain.Person{}, fmt.Errorf("r.dao.AddPoints -> %w", notFound(err, domain.WithDetail(domain.ErrPersonNotFound, "id", id)))
	}

	return personDaoToDomain(updated), nil
}

func (r *PersonRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", notFound(err, domain.WithDetail(domain.ErrPersonNotFound, "id", id)))
	}

	return nil
}

func personConflict(err error) error {
	var ce *dao.ConstraintError
	if !errors.As(err, &ce) {
		return err
	}
	if ce.Mentions("email") {
		return domain.ErrEmailTaken
	}

	return domain.ErrUsernameTaken
}

func personDaoToDomain(p dao.Person) domain.Person {
	return domain.Person{
		ID:           p.ID,
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: p.Password,
		Role:         domain.Role(p.Role),
		Points:       p.Points,
		AvatarRef:    p.AvatarRef,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func personsDaoToDomain(persons []dao.Person) []domain.Person {
	result := make([]domain.Person, len(persons))
	for i, p := range persons {
		result[i] = personDaoToDomain(p)
	}

	return result
}
