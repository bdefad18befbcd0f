// Package account registers users, checks credentials and edits profiles.
package account

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/starford/yeargoals/internal/apperr"
	"github.com/starford/yeargoals/internal/clock"
	"github.com/starford/yeargoals/internal/models"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// Repository is the user persistence the service needs. *store.DB satisfies it.
type Repository interface {
	CreateUser(ctx context.Context, u models.User) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, u models.User) (*models.User, error)
}

// TokenIssuer creates session tokens. *auth.Issuer satisfies it.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// Registration holds the sign-up form.
type Registration struct {
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Profile holds the editable profile fields.
type Profile struct {
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Session is returned by Register and Login.
type Session struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type Service struct {
	repo   Repository
	tokens TokenIssuer
	clock  clock.Clock
	cost   int
}

// Option configures a Service.
type Option func(*Service)

// WithBcryptCost overrides the hashing cost (tests use bcrypt.MinCost).
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

func NewService(repo Repository, tokens TokenIssuer, c clock.Clock, opts ...Option) *Service {
	s := &Service{repo: repo, tokens: tokens, clock: c, cost: bcrypt.DefaultCost}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Register creates a user and signs them in. Emails are compared lowercased.
func (s *Service) Register(ctx context.Context, r Registration) (*Session, error) {
	r.Email = normalizeEmail(r.Email)
	if err := validateField("email", r.Email, validation.Required, is.EmailFormat); err != nil {
		return nil, err
	}
	if err := validateField("phone", r.Phone, validation.Required, validation.Length(7, 20)); err != nil {
		return nil, err
	}
	if err := validateField("password", r.Password, validation.Required, validation.Length(MinPasswordLength, 72)); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), s.cost)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	u, err := s.repo.CreateUser(ctx, models.User{
		ID:           uuid.NewString(),
		Email:        r.Email,
		Phone:        strings.TrimSpace(r.Phone),
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(r.FirstName),
		LastName:     strings.TrimSpace(r.LastName),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("user registered", slog.String("user_id", u.ID))
	return s.session(u)
}

// Login checks credentials. Unknown emails and wrong passwords both yield
// apperr.ErrUnauthorized.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.ErrUnauthorized
	}
	return s.session(u)
}

// Get returns the user with id.
func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetUser(ctx, id)
}

// UpdateProfile overwrites the profile fields of user id.
func (s *Service) UpdateProfile(ctx context.Context, id string, p Profile) (*models.User, error) {
	p.Email = normalizeEmail(p.Email)
	if err := validateField("email", p.Email, validation.Required, is.EmailFormat); err != nil {
		return nil, err
	}
	if err := validateField("phone", p.Phone, validation.Length(7, 20)); err != nil {
		return nil, err
	}
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Email = p.Email
	u.Phone = strings.TrimSpace(p.Phone)
	u.FirstName = strings.TrimSpace(p.FirstName)
	u.LastName = strings.TrimSpace(p.LastName)
	u.UpdatedAt = s.clock.Now()
	return s.repo.UpdateUser(ctx, *u)
}

// SetWhatsAppNotifications toggles the reminder opt-in of user id.
func (s *Service) SetWhatsAppNotifications(ctx context.Context, id string, enabled bool) (*models.User, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	u.WhatsAppNotifications = enabled
	u.UpdatedAt = s.clock.Now()
	return s.repo.UpdateUser(ctx, *u)
}

func (s *Service) session(u *models.User) (*Session, error) {
	tok, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: tok}, nil
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// validateField runs ozzo rules on one value and converts a failure into the
// shared validation error.
func validateField(field string, value string, rules ...validation.Rule) error {
	if err := validation.Validate(value, rules...); err != nil {
		return apperr.Invalid(field, err.Error())
	}
	return nil
}
