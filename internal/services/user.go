package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/accordmanpower/cmsapi/internal/apperr"
	"github.com/accordmanpower/cmsapi/internal/store"
	"github.com/accordmanpower/cmsapi/types"
	"golang.org/x/crypto/bcrypt"
)

const msgInvalidCredentials = "Invalid credentials"

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Update(ctx context.Context, user types.User) (types.User, error)
	Delete(ctx context.Context, id int) error
}

// UserService encapsulates user use-cases.
type UserService struct {
	repo     UserRepository
	hashCost int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo, hashCost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost used for new passwords.
func (s *UserService) WithHashCost(cost int) *UserService {
	s.hashCost = cost
	return s
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	return user, storeErr(err, "User not found", "")
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (types.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	return user, storeErr(err, "User not found", "")
}

// Register validates the payload, hashes the password and inserts the user.
func (s *UserService) Register(ctx context.Context, in types.RegisterInput) (types.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := Validate(in); err != nil {
		return types.User{}, err
	}

	role := in.Role
	if role == "" {
		role = types.DefaultRole
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return types.User{}, apperr.Internalf("failed to hash password", err)
	}

	user, err := s.repo.Create(ctx, types.User{
		Username:     in.Username,
		Email:        in.Email,
		Role:         role,
		PasswordHash: string(hashed),
	})
	if err != nil {
		return types.User{}, storeErr(err, "User not found", "Username or email already exists")
	}
	return user, nil
}

// Authenticate checks a username/password pair. Unknown users and wrong
// passwords both yield the same Unauthorized error, and both pay for one
// bcrypt comparison.
func (s *UserService) Authenticate(ctx context.Context, in types.LoginInput) (types.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return types.User{}, apperr.New(apperr.Unauthorized, msgInvalidCredentials)
	}

	user, err := s.repo.GetByUsername(ctx, in.Username)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return types.User{}, apperr.Internalf("failed to load user", err)
		}
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(in.Password))
		return types.User{}, apperr.New(apperr.Unauthorized, msgInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return types.User{}, apperr.New(apperr.Unauthorized, msgInvalidCredentials)
	}
	return user, nil
}

// EnsureAdmin creates an admin account unless the username is already
// taken. It reports whether a new account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, username, email, password string) (types.User, bool, error) {
	existing, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, false, apperr.Internalf("failed to load user", err)
	}

	user, err := s.Register(ctx, types.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
		Role:     types.RoleAdmin,
	})
	if err != nil {
		return types.User{}, false, err
	}
	return user, true, nil
}

func (s *UserService) dummy() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.hashCost)
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}
