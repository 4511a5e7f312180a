package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"chatrelay/internal/model"
	"chatrelay/internal/pkg/jwtutil"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrPasswordUpdate    = errors.New("failed to update password")
)

// UserStore is the slice of the datastore the auth service needs.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetProfile(ctx context.Context, id string) (*model.Profile, error)
	SetHashedPassword(ctx context.Context, id, hashed string) error
}

type AuthService struct {
	users    UserStore
	secret   string
	algo     string
	tokenTTL time.Duration
}

type LoginResult struct {
	Token    string
	Username string
}

func NewAuthService(users UserStore, secret, algorithm string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		secret:   secret,
		algo:     algorithm,
		tokenTTL: tokenTTL,
	}
}

// Login verifies the credentials and issues a token whose subject is the
// user id. Rows written before hashing was introduced still hold plaintext
// passwords; the first successful login against such a row compares
// directly, then persists a bcrypt hash and flags the row as migrated, so
// every later login takes the hash-compare branch. This one-time upgrade
// must stay exactly that: a migrated row is never compared in plaintext
// again, and a wrong password never mutates the row.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if !user.IsPasswordHashed {
		if user.Password != password {
			return nil, ErrIncorrectPassword
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password failed: %w", err)
		}
		if err := s.users.SetHashedPassword(ctx, user.ID, string(hashed)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPasswordUpdate, err)
		}
	} else {
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
			return nil, ErrIncorrectPassword
		}
	}

	token, err := jwtutil.GenerateToken(s.secret, s.algo, s.tokenTTL, user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Username: user.Username}, nil
}

// CurrentUser returns the projected profile for the token subject.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrUserNotFound
	}
	return profile, nil
}
