package service

import (
	"context"
	"strings"
	"time"

	"github.com/settleline/api/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const (
	// bcrypt cost factor (10-14 recommended for production)
	bcryptCost = 12

	// Password constraints
	minPasswordLength = 8
	maxPasswordLength = 128
)

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, updates map[string]interface{}) error
	UpdatePlan(ctx context.Context, id string, active bool, packageType *string, expiresOn *time.Time) error
}

// StatsRepository defines the interface for the aggregate counter record
type StatsRepository interface {
	Get(ctx context.Context) (*model.Stats, error)
	AddPaidUsers(ctx context.Context, delta int) error
}

// TokenSigner issues bearer tokens for authenticated users
type TokenSigner interface {
	Sign(userID, role string) (string, error)
}

// AuthService handles accounts, sessions, and plan entitlement
type AuthService struct {
	userRepo  UserRepository
	statsRepo StatsRepository
	signer    TokenSigner
}

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	UserRepo  UserRepository
	StatsRepo StatsRepository
	Signer    TokenSigner
}

// NewAuthService creates a new auth service
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	return &AuthService{
		userRepo:  cfg.UserRepo,
		statsRepo: cfg.StatsRepo,
		signer:    cfg.Signer,
	}
}

// AuthResult is a user plus a freshly issued token
type AuthResult struct {
	User  *model.User
	Token string
}

// Signup creates a new user account and signs them in
func (s *AuthService) Signup(ctx context.Context, req *model.SignupRequest) (*AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:     email,
		Hash:      hash,
		FirstName: trimPtr(req.FirstName),
		LastName:  trimPtr(req.LastName),
		Role:      model.UserRoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.signer.Sign(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Signin authenticates with email and password. Unknown email and wrong
// password return the identical error so accounts cannot be enumerated.
func (s *AuthService) Signin(ctx context.Context, req *model.SigninRequest) (*AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if !checkPassword(req.Password, user.Hash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.signer.Sign(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// GetUser retrieves a user by id
func (s *AuthService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile applies a partial profile update and returns the fresh user
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req *model.UpdateProfileRequest) (*model.User, error) {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}

	if len(updates) > 0 {
		if err := s.userRepo.UpdateProfile(ctx, userID, updates); err != nil {
			return nil, err
		}
	}
	return s.GetUser(ctx, userID)
}

// UpdatePlan changes a user's paid entitlement and keeps the paid-user
// counter in step. Only transitions move the counter; re-activating an
// already active plan is a plain field update.
func (s *AuthService) UpdatePlan(ctx context.Context, userID string, req *model.UpdatePlanRequest) (*model.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	wasPaid := user.HasActivePlan()

	if err := s.userRepo.UpdatePlan(ctx, userID, req.Active, req.PackageType, req.ExpiresOn); err != nil {
		return nil, err
	}

	updated, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	isPaid := updated.HasActivePlan()
	if isPaid != wasPaid {
		delta := 1
		if !isPaid {
			delta = -1
		}
		if err := s.statsRepo.AddPaidUsers(ctx, delta); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// GetStats returns the aggregate counters
func (s *AuthService) GetStats(ctx context.Context) (*model.Stats, error) {
	return s.statsRepo.Get(ctx)
}

// Helper functions

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func validatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > maxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

func isValidEmail(email string) bool {
	if email == "" {
		return false
	}
	if len(email) > 254 {
		return false
	}
	atIndex := strings.Index(email, "@")
	if atIndex < 1 {
		return false
	}
	dotIndex := strings.LastIndex(email, ".")
	if dotIndex < atIndex+2 {
		return false
	}
	if dotIndex >= len(email)-1 {
		return false
	}
	return true
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
