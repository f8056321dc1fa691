package services

import (
	"context"
	"fmt"
	"strings"

	"labstock/internal/apperror"
	"labstock/internal/auth"
	"labstock/internal/cache"
	"labstock/internal/models"
	"labstock/internal/repositories"
)

type UserService struct {
	UserRepo *repositories.UserRepository
	JWT      *auth.JWTManager
	Audit    *AuditService
	Cache    *cache.Cache
}

func NewUserService(userRepo *repositories.UserRepository, jwtManager *auth.JWTManager, audit *AuditService, c *cache.Cache) *UserService {
	return &UserService{UserRepo: userRepo, JWT: jwtManager, Audit: audit, Cache: c}
}

// Signup registers a new member account
func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	if req.Name == "" || req.Email == "" {
		return nil, apperror.Validation("name and email are required")
	}
	if len(req.Password) < 8 {
		return nil, apperror.Validation("password must be at least 8 characters")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if existing, err := s.UserRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperror.Validation("email already registered")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         "member",
		IsActive:     true,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.JWT.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.Audit.Record(ctx, user.ID, user.Name, "USER_SIGNUP", "Account created")
	return &models.AuthResponse{Token: token, User: user}, nil
}

// Login authenticates with email and password. When the account has TOTP
// enabled the caller gets a short-lived temp token instead of a session and
// must finish with VerifyTOTP. Successful password checks are cached so
// repeated logins skip the bcrypt cost.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, *models.TwoFactorPendingResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.UserRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, apperror.Validation("invalid email or password")
	}
	if !user.IsActive {
		return nil, nil, apperror.ErrForbidden
	}

	if _, ok := s.Cache.GetCachedAuth(ctx, email, req.Password); !ok {
		if !auth.VerifyPassword(user.PasswordHash, req.Password) {
			return nil, nil, apperror.Validation("invalid email or password")
		}
		s.Cache.CacheAuth(ctx, email, req.Password, int64(user.ID))
	}

	if user.TOTPEnabled {
		tempToken, err := s.JWT.GenerateTempToken(user)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate temp token: %w", err)
		}
		return nil, &models.TwoFactorPendingResponse{RequiresTOTP: true, TempToken: tempToken}, nil
	}

	token, err := s.JWT.GenerateToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.Audit.Record(ctx, user.ID, user.Name, "USER_LOGIN", "Logged in")
	return &models.AuthResponse{Token: token, User: user}, nil, nil
}

// CreateUser provisions an account with an explicit role (admin only)
func (s *UserService) CreateUser(ctx context.Context, req *models.CreateUserRequest, adminID int, adminName string) (*models.User, error) {
	if req.Name == "" || req.Email == "" {
		return nil, apperror.Validation("name and email are required")
	}
	if len(req.Password) < 8 {
		return nil, apperror.Validation("password must be at least 8 characters")
	}
	if req.Role != "admin" && req.Role != "member" {
		return nil, apperror.Validation("role must be admin or member")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, adminID, adminName, "USER_CREATED",
		fmt.Sprintf("Created %s account %q (%s)", user.Role, user.Name, user.Email))
	return user, nil
}

// UpdateUser edits an account. Password is replaced only when provided.
func (s *UserService) UpdateUser(ctx context.Context, id int, req *models.UpdateUserRequest, adminID int, adminName string) (*models.User, error) {
	user, err := s.UserRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if req.Role != "" {
		if req.Role != "admin" && req.Role != "member" {
			return nil, apperror.Validation("role must be admin or member")
		}
		user.Role = req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != "" {
		if len(req.Password) < 8 {
			return nil, apperror.Validation("password must be at least 8 characters")
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.UserRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, adminID, adminName, "USER_UPDATED",
		fmt.Sprintf("Updated account %d (%s)", user.ID, user.Email))
	return user, nil
}

// DeactivateUser suspends an account. Accounts are never deleted so that
// borrowings and history keep a valid author.
func (s *UserService) DeactivateUser(ctx context.Context, id, adminID int, adminName string) error {
	if id == adminID {
		return apperror.Validation("cannot deactivate your own account")
	}
	if err := s.UserRepo.Deactivate(ctx, id); err != nil {
		return err
	}

	s.Audit.Record(ctx, adminID, adminName, "USER_DEACTIVATED",
		fmt.Sprintf("Deactivated account %d", id))
	return nil
}
