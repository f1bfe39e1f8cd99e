package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
	"golang.org/x/crypto/bcrypt"

	"github.com/edugamify/classroom-api/internal/blob"
	"github.com/edugamify/classroom-api/internal/domain"
	"github.com/edugamify/classroom-api/internal/session"
)

const passwordRegexPattern = `^(?=.*[A-Za-z])(?=.*\d).{8,}$`

// maxPasswordBytes is the most bcrypt will hash.
const maxPasswordBytes = 72

var passwordExp = regexp2.MustCompile(passwordRegexPattern, regexp2.None)

type AuthPersonRepository interface {
	Create(ctx context.Context, person domain.Person) (domain.Person, error)
	FindByID(ctx context.Context, id uint) (domain.Person, error)
	FindByUsername(ctx context.Context, username string) (domain.Person, error)
	FindByEmail(ctx context.Context, email string) (domain.Person, error)
	UpdateProfile(ctx context.Context, id uint, update domain.ProfileUpdate) error
}

type Account struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

type ProfileInput struct {
	Email    *string
	Password *string
	Avatar   *Upload
}

type AuthService struct {
	repo     AuthPersonRepository
	sessions session.Store
	blobs    blob.Store
}

func NewAuthService(repo AuthPersonRepository, sessions session.Store, blobs blob.Store) *AuthService {
	return &AuthService{
		repo:     repo,
		sessions: sessions,
		blobs:    blobs,
	}
}

// Signup registers a student or a teacher. An empty role means student.
func (s *AuthService) Signup(ctx context.Context, account Account) (domain.Person, error) {
	if account.Role == "" {
		account.Role = domain.RoleStudent
	}
	if !account.Role.In(domain.RoleStudent, domain.RoleTeacher) {
		return domain.Person{}, domain.WithDetail(domain.ErrSignupRole, "role", account.Role)
	}

	return s.CreateAccount(ctx, account)
}

// CreateAccount registers a person with any role. Only operator tooling
// reaches it directly.
func (s *AuthService) CreateAccount(ctx context.Context, account Account) (domain.Person, error) {
	role, err := domain.ParseRole(string(account.Role))
	if err != nil {
		return domain.Person{}, domain.WithDetail(err, "role", account.Role)
	}
	if err := checkPassword(account.Password); err != nil {
		return domain.Person{}, err
	}
	if err := s.checkUsernameFree(ctx, account.Username); err != nil {
		return domain.Person{}, err
	}
	if err := s.checkEmailFree(ctx, account.Email, 0); err != nil {
		return domain.Person{}, err
	}

	hash, err := hashPassword(account.Password)
	if err != nil {
		return domain.Person{}, err
	}

	created, err := s.repo.Create(ctx, domain.Person{
		Username:     account.Username,
		Email:        strings.ToLower(account.Email),
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return domain.Person{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// SignIn accepts a username or an email as login and opens a session.
func (s *AuthService) SignIn(ctx context.Context, login, password string) (string, domain.Person, error) {
	person, err := s.findByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrPersonNotFound) {
			return "", domain.Person{}, domain.ErrWrongCredentials
		}

		return "", domain.Person{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(person.PasswordHash), []byte(password)); err != nil {
		return "", domain.Person{}, domain.ErrWrongCredentials
	}

	token, _, err := s.sessions.Create(ctx, person.ID, person.Role)
	if err != nil {
		return "", domain.Person{}, fmt.Errorf("s.sessions.Create -> %w", err)
	}

	return token, person, nil
}

func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return fmt.Errorf("s.sessions.Revoke -> %w", err)
	}

	return nil
}

// UpdateProfile changes the caller's own email, password or avatar. Points
// and role are never touched here.
func (s *AuthService) UpdateProfile(ctx context.Context, personID uint, input ProfileInput) (domain.Person, error) {
	var update domain.ProfileUpdate

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if err := s.checkEmailFree(ctx, email, personID); err != nil {
			return domain.Person{}, err
		}
		update.Email = &email
	}
	if input.Password != nil {
		if err := checkPassword(*input.Password); err != nil {
			return domain.Person{}, err
		}
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return domain.Person{}, err
		}
		update.Password = &hash
	}

	avatarRef, err := storeUpload(ctx, s.blobs, blob.CategoryProfile, input.Avatar)
	if err != nil {
		return domain.Person{}, err
	}
	update.AvatarRef = avatarRef

	if err := s.repo.UpdateProfile(ctx, personID, update); err != nil {
		discardUpload(ctx, s.blobs, avatarRef)
		return domain.Person{}, fmt.Errorf("s.repo.UpdateProfile -> %w", err)
	}

	person, err := s.repo.FindByID(ctx, personID)
	if err != nil {
		return domain.Person{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return person, nil
}

func (s *AuthService) findByLogin(ctx context.Context, login string) (domain.Person, error) {
	person, err := s.repo.FindByUsername(ctx, login)
	if err == nil || !errors.Is(err, domain.ErrPersonNotFound) || !strings.Contains(login, "@") {
		return person, err
	}

	return s.repo.FindByEmail(ctx, strings.ToLower(login))
}

func (s *AuthService) checkUsernameFree(ctx context.Context, username string) error {
	_, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		return domain.WithDetail(domain.ErrUsernameTaken, "username", username)
	}
	if !errors.Is(err, domain.ErrPersonNotFound) {
		return fmt.Errorf("s.repo.FindByUsername -> %w", err)
	}

	return nil
}

// checkEmailFree ignores a match on the person identified by self.
func (s *AuthService) checkEmailFree(ctx context.Context, email string, self uint) error {
	found, err := s.repo.FindByEmail(ctx, strings.ToLower(email))
	if err == nil && found.ID != self {
		return domain.WithDetail(domain.ErrEmailTaken, "email", email)
	}
	if err != nil && !errors.Is(err, domain.ErrPersonNotFound) {
		return fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	return nil
}

func checkPassword(password string) error {
	if len(password) > maxPasswordBytes {
		return domain.WithDetail(domain.ErrPasswordTooLong, "max_bytes", maxPasswordBytes)
	}
	ok, err := passwordExp.MatchString(password)
	if err != nil {
		return fmt.Errorf("passwordExp.MatchString -> %w", err)
	}
	if !ok {
		return domain.ErrWeakPassword
	}

	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	return string(hash), nil
}
