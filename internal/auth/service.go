package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/shoedler/tabletop-gather/internal/models"
)

// UserStore is the identity storage. Finders return nil, nil when the user
// does not exist.
type UserStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.User, error)
}

// Service registers users, exchanges credentials for bearer tokens and
// resolves tokens back to users.
type Service struct {
	users   UserStore
	issuer  *Issuer
	revoker Revoker
	admins  map[string]bool
}

type Option func(*Service)

// WithAdmins lets the users with these emails delete other accounts.
func WithAdmins(emails ...string) Option {
	return func(s *Service) {
		for _, email := range emails {
			if email = normalizeEmail(email); email != "" {
				s.admins[email] = true
			}
		}
	}
}

func NewService(users UserStore, issuer *Issuer, revoker Revoker, opts ...Option) *Service {
	s := &Service{users: users, issuer: issuer, revoker: revoker, admins: map[string]bool{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TokenTTL is the lifetime of tokens returned by Login.
func (s *Service) TokenTTL() time.Duration {
	return s.issuer.TTL()
}

// Register creates a user. Emails are compared case-insensitively.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.users.Create(ctx, &models.User{
		Email:        email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login checks the credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (Token, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return Token{}, fmt.Errorf("lookup email: %w", err)
	}
	if user == nil {
		return Token{}, ErrInvalidCredentials
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return Token{}, ErrInvalidCredentials
		}
		return Token{}, fmt.Errorf("verify password: %w", err)
	}
	return s.issuer.Issue(user.Email)
}

// Logout revokes the token until it would have expired.
func (s *Service) Logout(ctx context.Context, rawToken string) error {
	claims, err := s.issuer.Parse(rawToken)
	if err != nil {
		return err
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// Authenticate resolves a bearer token to its user.
func (s *Service) Authenticate(ctx context.Context, rawToken string) (*models.User, error) {
	claims, err := s.issuer.Parse(rawToken)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	user, err := s.users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("lookup token subject: %w", err)
	}
	if user == nil {
		// The account was deleted after the token was issued.
		return nil, fmt.Errorf("%w: unknown subject", ErrInvalidToken)
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Username = req.Username
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	return user, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return err
	}
	if err := VerifyPassword(user.PasswordHash, current); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		return fmt.Errorf("update password of %s: %w", id, err)
	}
	return nil
}

// DeleteAccount removes the user with their plans, participations and comments.
func (s *Service) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if _, err := s.loadUser(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	return nil
}

// ListUsers returns every registered user.
func (s *Service) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// IsAdmin reports whether the user may manage other accounts.
func (s *Service) IsAdmin(user *models.User) bool {
	return user != nil && s.admins[normalizeEmail(user.Email)]
}

// DeleteUser removes the account with the given id on behalf of actor.
// Users may always delete themselves; deleting anyone else takes an admin.
func (s *Service) DeleteUser(ctx context.Context, actor *models.User, id uuid.UUID) error {
	if actor == nil || (actor.ID != id && !s.IsAdmin(actor)) {
		return fmt.Errorf("delete user %s: %w", id, ErrForbidden)
	}
	return s.DeleteAccount(ctx, id)
}

func (s *Service) loadUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch user %s: %w", id, err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", id, ErrUserNotFound)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
