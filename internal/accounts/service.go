package accounts

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/imrishuroy/go-storefront/internal/apperr"
	"github.com/imrishuroy/go-storefront/internal/identity"
)

const minPasswordLen = 6

// AccountStore is the persistence the accounts service needs.
type AccountStore interface {
	CreateIfNotExists(ctx context.Context, acct Account) (bool, error)
	Get(ctx context.Context, email string) (*Account, error)
	TouchLogin(ctx context.Context, email string, at time.Time) error
}

type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Role     identity.Role
}

type LoginInput struct {
	Email    string
	Password string
	Role     identity.Role
}

type Session struct {
	Account   Account
	Token     string
	ExpiresAt time.Time
}

// Service registers accounts and exchanges credentials for tokens.
type Service struct {
	store    AccountStore
	issuer   *identity.Issuer
	validate *validator.Validate
	cost     int
	nowFunc  func() time.Time
	newID    func() string
}

func NewService(store AccountStore, issuer *identity.Issuer) *Service {
	return &Service{
		store:    store,
		issuer:   issuer,
		validate: validator.New(),
		cost:     bcrypt.DefaultCost,
		nowFunc:  time.Now,
		newID:    uuid.NewString,
	}
}

// WithHashCost returns s using the given bcrypt cost.
func (s *Service) WithHashCost(cost int) *Service {
	s.cost = cost
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account. Duplicate emails are a 409 conflict.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Account, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.FullName)
	if name == "" || email == "" || in.Password == "" {
		return Account{}, apperr.InvalidInput("All fields are required")
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return Account{}, apperr.InvalidInput("Invalid email format")
	}
	if len(in.Password) < minPasswordLen {
		return Account{}, apperr.InvalidInput("Password must be at least 6 characters long")
	}
	if _, ok := identity.ParseRole(string(in.Role)); !ok {
		return Account{}, apperr.InvalidInput("Invalid role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return Account{}, apperr.Wrap(apperr.KindUnknown, "hash password", err)
	}

	acct := Account{
		Email:        email,
		SubjectID:    s.newID(),
		FullName:     name,
		PasswordHash: string(hash),
		Role:         in.Role,
		CreatedAt:    s.nowFunc().UTC(),
	}
	created, err := s.store.CreateIfNotExists(ctx, acct)
	if err != nil {
		return Account{}, apperr.StoreFailure("create account", err)
	}
	if !created {
		return Account{}, apperr.Conflict("User already exists with the same email").WithStatus(http.StatusConflict)
	}
	log.Printf("[accounts] registered subject=%s role=%s", acct.SubjectID, acct.Role)
	return acct, nil
}

// Login checks credentials and role and returns a signed session token.
func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return Session{}, apperr.InvalidInput("Email and password are required")
	}

	acct, err := s.store.Get(ctx, email)
	if err != nil {
		return Session{}, apperr.StoreFailure("get account", err)
	}
	if acct == nil || bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(in.Password)) != nil {
		return Session{}, apperr.Unauthenticated("Invalid email or password")
	}
	if in.Role != "" && acct.Role != in.Role {
		return Session{}, apperr.Unauthorized("Access denied for this login")
	}

	now := s.nowFunc().UTC()
	token, exp, err := s.issuer.Issue(acct.Subject(), now)
	if err != nil {
		return Session{}, apperr.Wrap(apperr.KindUnknown, "issue token", err)
	}
	if err := s.store.TouchLogin(ctx, email, now); err != nil {
		log.Printf("[accounts] touch login failed subject=%s err=%v", acct.SubjectID, err)
	} else {
		acct.LastLoginAt = &now
	}
	return Session{Account: *acct, Token: token, ExpiresAt: exp}, nil
}
