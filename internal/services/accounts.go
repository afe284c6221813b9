package services

import (
	"context"
	"errors"
	"strings"

	"github.com/franciscosanchezn/gin-recipe-api/internal/auth"
	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/sequence"
	"github.com/franciscosanchezn/gin-recipe-api/internal/store"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const minPasswordLength = 8

var validate = validator.New()

// RegisterInput is the payload of every registration endpoint.
type RegisterInput struct {
	Username string `json:"username" example:"gordon"`
	Email    string `json:"email" example:"gordon@example.com"`
	Password string `json:"password" example:"secret123"`
}

// LoginInput is the payload of every login endpoint.
type LoginInput struct {
	Email    string `json:"email" example:"gordon@example.com"`
	Password string `json:"password" example:"secret123"`
}

// AuthResult is a freshly issued token with the account it belongs to.
type AuthResult struct {
	Token   string          `json:"token"`
	Account *models.Account `json:"account"`
}

// AccountService manages users, chefs and the admin.
type AccountService interface {
	// Register creates a user or chef account.
	Register(ctx context.Context, role models.Role, in RegisterInput) (*models.Account, error)
	// RegisterAdmin creates the admin account. Only one may ever exist.
	RegisterAdmin(ctx context.Context, in RegisterInput) (*AuthResult, error)
	// Login checks credentials and issues a token signed for role.
	Login(ctx context.Context, role models.Role, in LoginInput) (*AuthResult, error)
	// SetActive deactivates or reactivates the account with the given number.
	SetActive(ctx context.Context, role models.Role, number string, active bool) (*models.Account, error)
	// GetAccount loads an account by id.
	GetAccount(ctx context.Context, role models.Role, id string) (*models.Account, error)
}

type accountService struct {
	accounts store.AccountRepository
	seq      sequence.Sequencer
	tokens   *auth.TokenService
}

// NewAccountService creates a new instance of AccountService
func NewAccountService(accounts store.AccountRepository, seq sequence.Sequencer, tokens *auth.TokenService) AccountService {
	return &accountService{accounts: accounts, seq: seq, tokens: tokens}
}

func (s *accountService) Register(ctx context.Context, role models.Role, in RegisterInput) (*models.Account, error) {
	if role != models.RoleUser && role != models.RoleChef {
		return nil, models.NewValidationError("Invalid role")
	}
	return s.create(ctx, role, in)
}

func (s *accountService) RegisterAdmin(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := validateRegistration(&in); err != nil {
		return nil, err
	}
	// The count check is the singleton guard; two concurrent first
	// registrations can both pass it.
	count, err := s.accounts.Count(ctx, models.RoleAdmin)
	if err != nil {
		return nil, internal("count admins", err)
	}
	if count > 0 {
		return nil, models.NewConflictError("An admin account already exists.")
	}

	account, err := s.create(ctx, models.RoleAdmin, in)
	if err != nil {
		return nil, err
	}
	token, err := s.issue(account)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Account: account}, nil
}

func (s *accountService) Login(ctx context.Context, role models.Role, in LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, models.NewValidationError("All fields are required")
	}

	account, err := s.accounts.FindByEmail(ctx, role, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, models.NewUnauthenticatedError("Invalid credentials")
	}
	if err != nil {
		return nil, internal("find account by email", err)
	}
	if !auth.CheckPassword(account.PasswordHash, in.Password) {
		return nil, models.NewUnauthenticatedError("Invalid credentials")
	}
	if !account.IsActive {
		return nil, models.NewUnauthorizedError("Your account has been deactivated. Please contact admin.")
	}

	token, err := s.issue(account)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"role": role, "number": account.Number}).Info("login succeeded")
	return &AuthResult{Token: token, Account: account}, nil
}

func (s *accountService) SetActive(ctx context.Context, role models.Role, number string, active bool) (*models.Account, error) {
	account, err := s.accounts.FindByNumber(ctx, role, number)
	if err != nil {
		return nil, notFoundOr(err, role.Label()+" not found", "find account by number")
	}
	if account.IsActive == active {
		if active {
			return nil, models.NewValidationError(role.Label() + " is already active")
		}
		return nil, models.NewValidationError(role.Label() + " is already deactivated")
	}

	if err := s.accounts.SetActive(ctx, role, account.ID, active); err != nil {
		return nil, notFoundOr(err, role.Label()+" not found", "set account active")
	}
	account.IsActive = active
	return account, nil
}

func (s *accountService) GetAccount(ctx context.Context, role models.Role, id string) (*models.Account, error) {
	account, err := s.accounts.FindByID(ctx, role, id)
	if err != nil {
		return nil, notFoundOr(err, role.Label()+" not found", "find account by id")
	}
	return account, nil
}

func (s *accountService) create(ctx context.Context, role models.Role, in RegisterInput) (*models.Account, error) {
	if err := validateRegistration(&in); err != nil {
		return nil, err
	}
	if err := s.checkAvailable(ctx, role, in); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError("Failed to hash password", err)
	}
	n, err := s.seq.Next(ctx, string(role))
	if err != nil {
		return nil, internal("allocate account number", err)
	}

	account := &models.Account{
		ID:           models.NewID(),
		Role:         role,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Number:       sequence.FormatNumber(role.NumberPrefix(), n),
		IsActive:     true,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// lost a race with a concurrent registration
			if err := s.checkAvailable(ctx, role, in); err != nil {
				return nil, err
			}
			return nil, models.NewConflictError("Email already exists")
		}
		return nil, internal("create account", err)
	}
	return account, nil
}

func (s *accountService) checkAvailable(ctx context.Context, role models.Role, in RegisterInput) error {
	if _, err := s.accounts.FindByEmail(ctx, role, in.Email); err == nil {
		return models.NewConflictError("Email already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return internal("find account by email", err)
	}
	if _, err := s.accounts.FindByUsername(ctx, role, in.Username); err == nil {
		return models.NewConflictError("Username already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return internal("find account by username", err)
	}
	return nil
}

func (s *accountService) issue(account *models.Account) (string, error) {
	token, err := s.tokens.Issue(auth.Principal{
		ID:       account.ID,
		Role:     account.Role,
		Username: account.Username,
		Number:   account.Number,
	})
	if err != nil {
		return "", models.NewInternalError("Failed to issue token", err)
	}
	return token, nil
}

// validateRegistration trims and normalizes in, then applies the field rules.
func validateRegistration(in *RegisterInput) error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return models.NewValidationError("All fields are required")
	}
	if err := validate.Var(in.Email, "email"); err != nil {
		return models.NewValidationError("Invalid email format")
	}
	if len(in.Password) < minPasswordLength {
		return models.NewValidationError("Password must be at least 8 characters")
	}
	return nil
}
