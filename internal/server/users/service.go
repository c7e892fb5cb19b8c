package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/dmitrijs2005/flatcms/internal/common"
	"github.com/dmitrijs2005/flatcms/internal/logging"
	"github.com/dmitrijs2005/flatcms/internal/server/auth"
	"github.com/dmitrijs2005/flatcms/internal/server/config"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

func (c Credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Email, validation.Required),
		validation.Field(&c.Password, validation.Required),
	)
}

// Session is the result of a successful signup or login.
type Session struct {
	Token string
	User  User
}

type Service struct {
	repo          Repository
	hasher        auth.PasswordHasher
	jwtSecret     []byte
	tokenValidity time.Duration
	logger        logging.Logger
	now           func() time.Time
}

func NewService(repo Repository, hasher auth.PasswordHasher, cfg *config.Config, logger logging.Logger) *Service {
	return &Service{
		repo:          repo,
		hasher:        hasher,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		logger:        logger.With("module", "users"),
		now:           time.Now,
	}
}

func validationError(err error) error {
	return fmt.Errorf("%w: %v", common.ErrorValidation, err)
}

func (s *Service) issue(ctx context.Context, u User) (*Session, error) {
	token, err := auth.GenerateToken(u.Email, u.Role, s.jwtSecret, s.tokenValidity)
	if err != nil {
		s.logger.Error(ctx, "token generation failed", "error", err)
		return nil, common.ErrorInternal
	}
	return &Session{Token: token, User: u}, nil
}

// Signup registers a regular user and returns a session for it.
func (s *Service) Signup(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.CreateUser(ctx, email, password, RoleUser)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, u)
}

// CreateUser registers an account with the given role. A second account
// for the same normalized email is common.ErrorConflict.
func (s *Service) CreateUser(ctx context.Context, email, password, role string) (User, error) {
	creds := Credentials{Email: email, Password: password}
	if err := creds.Validate(); err != nil {
		return User{}, validationError(err)
	}
	if err := validation.Validate(password, validation.Length(0, MaxPasswordBytes)); err != nil {
		return User{}, validationError(fmt.Errorf("password: %v", err))
	}
	if err := validation.Validate(role, validation.Required, validation.In(RoleUser, RoleAdmin)); err != nil {
		return User{}, validationError(fmt.Errorf("role: %v", err))
	}

	key := NormalizeEmail(email)

	exists, err := s.repo.Exists(ctx, key)
	if err != nil {
		s.logger.Error(ctx, "user lookup failed", "key", key, "error", err)
		return User{}, common.ErrorInternal
	}
	if exists {
		return User{}, common.ErrorConflict
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return User{}, common.ErrorInternal
	}

	now := s.now().UTC()
	u := User{
		Email:     email,
		Password:  hash,
		Role:      role,
		CreatedAt: now,
		LastLogin: now,
	}
	u.Profile = profile(u)

	if err := s.repo.Create(ctx, key, u, "Add new user: "+email); err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return User{}, common.ErrorConflict
		}
		s.logger.Error(ctx, "user create failed", "key", key, "error", err)
		return User{}, common.ErrorInternal
	}

	s.logger.Info(ctx, "user created", "key", key, "role", role)
	return u, nil
}

// Login verifies the credentials, refreshes lastLogin and returns a new
// session. Unknown accounts and wrong passwords both yield
// common.ErrorUnauthorized.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	creds := Credentials{Email: email, Password: password}
	if err := creds.Validate(); err != nil {
		return nil, validationError(err)
	}

	key := NormalizeEmail(email)

	u, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "user read failed", "key", key, "error", err)
		return nil, common.ErrorInternal
	}

	ok, err := s.hasher.Compare(u.Password, password)
	if err != nil {
		s.logger.Error(ctx, "password compare failed", "key", key, "error", err)
		return nil, common.ErrorInternal
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	loginAt := s.now().UTC()
	updated, err := s.repo.Update(ctx, key, func(existing *User) User {
		next := u
		if existing != nil {
			next = *existing
		}
		next.LastLogin = loginAt
		return next
	}, "Update last login for: "+u.Email)

	switch {
	case err == nil:
		u = updated
	case errors.Is(err, common.ErrorConflict):
		// a concurrent login already refreshed lastLogin
		s.logger.Warn(ctx, "lastLogin update lost a race", "key", key)
		u.LastLogin = loginAt
	default:
		s.logger.Error(ctx, "lastLogin update failed", "key", key, "error", err)
		return nil, common.ErrorInternal
	}

	return s.issue(ctx, u)
}

// Get returns the account stored for email.
func (s *Service) Get(ctx context.Context, email string) (User, error) {
	key := NormalizeEmail(email)

	u, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return User{}, common.ErrorNotFound
		}
		s.logger.Error(ctx, "user read failed", "key", key, "error", err)
		return User{}, common.ErrorInternal
	}
	return u, nil
}
