// Package service holds the authentication orchestration: signup, login
// and refresh.  It depends on narrow store interfaces rather than the
// concrete MySQL repositories so the session lifecycle can be exercised
// against in-memory fakes.
package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/avelios/catalog-api/internal/model"
	"github.com/avelios/catalog-api/internal/queue"
	"github.com/avelios/catalog-api/internal/repository"
	"github.com/avelios/catalog-api/internal/utils"
)

// UserStore is the slice of the credential store the service needs.
type UserStore interface {
	Create(ctx context.Context, username, passwordHash, role string) (uint64, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// RefreshTokenStore is the durable refresh-token store.  Create must
// rotate: it atomically replaces any live token for the user.
type RefreshTokenStore interface {
	Create(ctx context.Context, userID uint64) (model.RefreshToken, error)
	FindByValue(ctx context.Context, value string) (model.RefreshToken, error)
	VerifyNotExpired(ctx context.Context, tok model.RefreshToken) (model.RefreshToken, error)
	DeleteAllForUser(ctx context.Context, userID uint64) error
}

// Notifier publishes domain events.  Failures are the publisher's
// problem; the auth flows never propagate them.
type Notifier interface {
	PublishUserRegistered(ctx context.Context, ev queue.UserRegisteredEvent) error
}

// Signup and login failures.  ErrInvalidCredentials deliberately covers
// both the unknown-username and wrong-password cases so responses cannot
// be used to enumerate accounts.
var (
	ErrBlankCredentials   = errors.New("username and password are required")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// TokenPair is what login returns: a stateless access token, the opaque
// refresh token value, and the authenticated username.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	Username     string
}

// AuthService wires the credential store, the refresh-token store, the
// token signer configuration and the notifier together.
type AuthService struct {
	users        UserStore
	tokens       RefreshTokenStore
	notifier     Notifier
	jwtSecret    string
	accessTTLMin int
	bcryptCost   int
}

func NewAuthService(users UserStore, tokens RefreshTokenStore, notifier Notifier, jwtSecret string, accessTTLMin, bcryptCost int) *AuthService {
	return &AuthService{
		users:        users,
		tokens:       tokens,
		notifier:     notifier,
		jwtSecret:    jwtSecret,
		accessTTLMin: accessTTLMin,
		bcryptCost:   bcryptCost,
	}
}

// Signup creates an account with role USER.  The welcome notification is
// dispatched on its own goroutine with its own context: it neither
// blocks the response nor fails the signup when the broker is down.
func (s *AuthService) Signup(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrBlankCredentials
	}

	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	uid, err := s.users.Create(ctx, username, hash, model.RoleUser)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return ErrUsernameTaken
		}
		return err
	}

	ev := queue.UserRegisteredEvent{
		UserID:       uid,
		Username:     username,
		RegisteredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		// Detached from the request context so a client disconnect does
		// not cancel the publish mid-flight.
		pctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.PublishUserRegistered(pctx, ev); err != nil {
			log.Printf("auth: welcome notification for %q failed: %v", username, err)
		}
	}()
	return nil
}

// Login verifies the credentials and, on success, issues a new access
// token and rotates in a new refresh token.  Rotation and issuance ride
// on the store's transactional Create, so concurrent logins for one
// account settle on exactly one live refresh token.
func (s *AuthService) Login(ctx context.Context, username, password string) (TokenPair, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return TokenPair{}, ErrInvalidCredentials
	}

	access, err := utils.NewAccessToken(s.jwtSecret, u.Username, s.accessTTLMin)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.tokens.Create(ctx, u.ID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access.Token,
		RefreshToken: refresh.Token,
		Username:     u.Username,
	}, nil
}

// Refresh exchanges a live refresh token for a new access token.  The
// refresh token value comes back unchanged: rotation happens at login,
// not here.  An expired token is deleted by the store before the error
// surfaces, so a second attempt with the same value reports not-found.
func (s *AuthService) Refresh(ctx context.Context, value string) (TokenPair, error) {
	tok, err := s.tokens.FindByValue(ctx, value)
	if err != nil {
		return TokenPair{}, err
	}
	tok, err = s.tokens.VerifyNotExpired(ctx, tok)
	if err != nil {
		return TokenPair{}, err
	}
	u, err := s.users.GetByID(ctx, tok.UserID)
	if err != nil {
		return TokenPair{}, err
	}
	access, err := utils.NewAccessToken(s.jwtSecret, u.Username, s.accessTTLMin)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access.Token,
		RefreshToken: tok.Token,
		Username:     u.Username,
	}, nil
}

// Logout revokes every refresh token owned by the user.
func (s *AuthService) Logout(ctx context.Context, userID uint64) error {
	return s.tokens.DeleteAllForUser(ctx, userID)
}
