// Package user handles account signup, login, and token-based lookup.
package user

import (
	"context"
	"io"
	"log"
	"net/mail"
	"strings"
	"time"

	"bookstore-api/internal/domain"
	tokenrepo "bookstore-api/internal/repository/token"
	userrepo "bookstore-api/internal/repository/user"

	"golang.org/x/crypto/bcrypt"
)

// Service handles user signup/login flows.
type Service struct {
	repo        userrepo.Repository
	tokens      *tokenManager
	accessTTL   time.Duration
	refreshTTL  time.Duration
	passwordMin int
	bcryptCost  int
	logger      *log.Logger
}

// New creates a Service with sane defaults.
func New(repo userrepo.Repository, tokens tokenrepo.Repository, bcryptCost int, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:        repo,
		tokens:      newTokenManager(tokens),
		accessTTL:   48 * time.Hour,
		refreshTTL:  30 * 24 * time.Hour,
		passwordMin: 8,
		bcryptCost:  bcryptCost,
		logger:      logger,
	}
}

// SignupInput captures fields expected by the signup endpoint.
type SignupInput struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
}

// Signup registers a new customer account.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, domain.ValidationFields("invalid signup", map[string]string{"email": "is required"})
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.ValidationFields("invalid signup", map[string]string{"email": "must be a valid email address"})
	}
	password := strings.TrimSpace(in.Password)
	if err := validatePassword(password, s.passwordMin); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, domain.Database(err, "could not create account")
	}

	created, err := s.repo.Create(ctx, domain.User{
		Email:        email,
		PasswordHash: string(hashed),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         domain.RoleCustomer,
		AddressLine1: strings.TrimSpace(in.AddressLine1),
		AddressLine2: strings.TrimSpace(in.AddressLine2),
		City:         strings.TrimSpace(in.City),
		State:        strings.TrimSpace(in.State),
		ZipCode:      strings.TrimSpace(in.ZipCode),
	})
	if err != nil {
		if err == domain.ErrAlreadyExists {
			return nil, domain.ValidationFields("invalid signup", map[string]string{"email": "is already registered"})
		}
		return nil, domain.Database(err, "could not create account")
	}
	s.logger.Printf("user: signed up id=%d email=%s", created.ID, created.Email)
	return created, nil
}

// Login validates credentials and returns issued tokens plus the user.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	password = strings.TrimSpace(password)
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, "", "", domain.Authorizationf("invalid credentials")
		}
		return nil, "", "", domain.Database(err, "could not sign in")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", domain.Authorizationf("invalid credentials")
	}

	access, err := s.tokens.Issue(ctx, u.ID, "access", s.accessTTL)
	if err != nil {
		return nil, "", "", domain.Database(err, "could not sign in")
	}
	refresh, err := s.tokens.Issue(ctx, u.ID, "refresh", s.refreshTTL)
	if err != nil {
		return nil, "", "", domain.Database(err, "could not sign in")
	}
	s.logger.Printf("user: login id=%d email=%s", u.ID, u.Email)
	return u, access, refresh, nil
}

// LookupByToken returns the user bound to a valid access token.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.User, error) {
	meta, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return nil, domain.Authorizationf("invalid token")
	}
	u, err := s.repo.GetByID(ctx, meta.UserID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.Authorizationf("invalid token")
		}
		return nil, domain.Database(err, "could not load account")
	}
	return u, nil
}

// Logout revokes the given token. Unknown tokens are not an error; the
// caller's session is gone either way.
func (s *Service) Logout(ctx context.Context, token string) {
	s.tokens.Revoke(ctx, token)
}

// Get returns one user by id.
func (s *Service) Get(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.NotFoundf("user %d not found", id)
		}
		return nil, domain.Database(err, "could not load account")
	}
	return u, nil
}

// List returns all accounts, for admin screens.
func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, domain.Database(err, "could not list accounts")
	}
	return users, nil
}

// AccessTTLSeconds exposes the access token lifetime in seconds.
func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}

func validatePassword(p string, min int) error {
	if len(p) < min {
		return domain.ValidationFields("invalid signup", map[string]string{
			"password": "must be at least 8 characters",
		})
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range p {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return domain.ValidationFields("invalid signup", map[string]string{
			"password": "must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number",
		})
	}
	return nil
}
