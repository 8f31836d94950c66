package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid"

	"school_service/internal/auth"
	"school_service/internal/models"
	"school_service/internal/storage"
)

type UserRepository interface {
	GetUser(ctx context.Context, username string) (models.User, error)
	PutUser(ctx context.Context, user models.User) error
	DeleteUser(ctx context.Context, username string) error
	ListUsers(ctx context.Context) ([]models.User, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type TokenCodec interface {
	Issue(username string, role models.Role) (string, error)
	Parse(token string) (*auth.Claims, error)
}

type RevocationLedger interface {
	Revoke(ctx context.Context, token string) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type SessionVerifier interface {
	Verify(ctx context.Context, token string) (auth.Identity, error)
}

type RegisterInput struct {
	Username   string
	Password   string
	Role       models.Role
	Attributes models.RoleAttributes
}

// AuthService implements registration, login, logout and account removal.
// Each mutation is a read-modify-write of a single user key; concurrent
// logins or logouts for one user are last-writer-wins.
type AuthService struct {
	users    UserRepository
	hasher   PasswordHasher
	tokens   TokenCodec
	ledger   RevocationLedger
	verifier SessionVerifier
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users UserRepository, hasher PasswordHasher, tokens TokenCodec, ledger RevocationLedger, verifier SessionVerifier) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		ledger:   ledger,
		verifier: verifier,
		now:      time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	const op = "service.Register"

	username := in.Username
	if strings.TrimSpace(username) == "" {
		return models.User{}, validation(op, "username is required")
	}
	// usernames are store keys: a padded name would never match at login
	if strings.TrimSpace(username) != username {
		return models.User{}, validation(op, "username must not start or end with whitespace")
	}
	if in.Password == "" {
		return models.User{}, validation(op, "password is required")
	}
	if len(in.Password) > auth.MaxPasswordBytes {
		return models.User{}, validation(op, "password longer than %d bytes", auth.MaxPasswordBytes)
	}
	if !in.Role.Valid() {
		return models.User{}, validation(op, "invalid role %q", in.Role)
	}

	// check-then-set: two concurrent registrations of one name can both pass
	_, err := s.users.GetUser(ctx, username)
	switch {
	case err == nil:
		return models.User{}, fmt.Errorf("%s: %w: %s", op, ErrAlreadyExists, username)
	case !errors.Is(err, storage.ErrNotFound):
		return models.User{}, storeFailure(op, err)
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return models.User{}, internal(op, fmt.Errorf("hash password: %w", err))
	}

	id, err := uuid.NewV4()
	if err != nil {
		return models.User{}, internal(op, fmt.Errorf("user id: %w", err))
	}

	user, err := models.NewUser(id, username, passwordHash, in.Role, in.Attributes, s.now())
	if err != nil {
		return models.User{}, validation(op, "%s", err)
	}

	if err := s.users.PutUser(ctx, user); err != nil {
		return models.User{}, storeFailure(op, err)
	}

	return user, nil
}

// Login issues a new token and adds it to the user's active set. Earlier
// tokens stay valid.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	const op = "service.Login"

	if username == "" || password == "" {
		return "", validation(op, "username and password are required")
	}

	user, err := s.users.GetUser(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		// spend the same bcrypt time as a real check
		s.hasher.Verify(password, s.dummy())
		return "", fmt.Errorf("%s: %w: user %s", op, ErrNotFound, username)
	}
	if err != nil {
		return "", storeFailure(op, err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := s.tokens.Issue(user.Username, user.Role)
	if err != nil {
		return "", internal(op, err)
	}

	user.AddToken(token)
	if err := s.users.PutUser(ctx, user); err != nil {
		return "", storeFailure(op, err)
	}

	return token, nil
}

// dummy returns a hash made with the configured hasher, used to verify
// passwords for unknown users.
func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		// an empty hash fails verification just the same, only faster
		s.dummyHash, _ = s.hasher.Hash("school-service-unknown-user")
	})
	return s.dummyHash
}

// Logout removes token from its owner's active set and blacklists it.
// Logging out a token that is already blacklisted succeeds.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	const op = "service.Logout"

	if !auth.IsWellFormed(token) {
		return fmt.Errorf("%s: %w: malformed token", op, ErrUnauthorized)
	}

	revoked, err := s.ledger.IsRevoked(ctx, token)
	if err != nil {
		return storeFailure(op, err)
	}
	if revoked {
		return nil
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrUnauthorized, err)
	}

	user, err := s.users.GetUser(ctx, claims.Username)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		if err := s.ledger.Revoke(ctx, token); err != nil {
			return storeFailure(op, err)
		}
		return fmt.Errorf("%s: %w: user %s", op, ErrNotFound, claims.Username)
	case err != nil:
		return storeFailure(op, err)
	}

	if user.RemoveToken(token) {
		if err := s.users.PutUser(ctx, user); err != nil {
			return storeFailure(op, err)
		}
	}

	if err := s.ledger.Revoke(ctx, token); err != nil {
		return storeFailure(op, err)
	}

	return nil
}

// DeleteUser blacklists every active token of username, then removes the record.
func (s *AuthService) DeleteUser(ctx context.Context, username string) error {
	const op = "service.DeleteUser"

	user, err := s.users.GetUser(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s: %w: user %s", op, ErrNotFound, username)
	}
	if err != nil {
		return storeFailure(op, err)
	}

	for _, token := range user.Tokens {
		if err := s.ledger.Revoke(ctx, token); err != nil {
			return storeFailure(op, err)
		}
	}

	if err := s.users.DeleteUser(ctx, username); err != nil {
		return storeFailure(op, err)
	}

	return nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.UserView, error) {
	const op = "service.ListUsers"

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, storeFailure(op, err)
	}

	views := make([]models.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, u.View())
	}

	return views, nil
}

// Authenticate runs the session verifier. Rejections come back wrapped in
// ErrUnauthorized with the *auth.RejectedError still reachable via errors.As.
func (s *AuthService) Authenticate(ctx context.Context, token string) (auth.Identity, error) {
	const op = "service.Authenticate"

	id, err := s.verifier.Verify(ctx, token)
	if errors.Is(err, auth.ErrRejected) {
		return auth.Identity{}, fmt.Errorf("%s: %w: %w", op, ErrUnauthorized, err)
	}
	if err != nil {
		return auth.Identity{}, storeFailure(op, err)
	}

	return id, nil
}
