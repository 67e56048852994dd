package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthecon360/analytics-api/internal/email"
	"github.com/healthecon360/analytics-api/internal/model"
	"github.com/healthecon360/analytics-api/internal/repository"
	"github.com/healthecon360/analytics-api/pkg/auth"
	"github.com/healthecon360/analytics-api/pkg/logger"
	"github.com/healthecon360/analytics-api/pkg/security"
)

const (
	resetTokenExpiry  = 1 * time.Hour
	verifyTokenExpiry = 48 * time.Hour
	maxLoginAttempts  = 5
	lockoutDuration   = 15 * time.Minute
)

type AuthServicer interface {
	Login(ctx context.Context, email, password string) (*model.TokenResponse, error)
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	RefreshToken(ctx context.Context, refreshToken string) (*model.TokenResponse, error)
	VerifyEmail(ctx context.Context, token string) error
	RequestPasswordReset(ctx context.Context, emailAddr string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) (*model.User, error)
	ValidateToken(token string) (*model.TokenClaims, error)
}

type Service struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	jwtSvc    auth.JWTService
	hasher    security.PasswordHasher
	emailSvc  email.Service
	logger    *logger.Logger
}

func NewService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	jwtSvc auth.JWTService,
	hasher security.PasswordHasher,
	emailSvc email.Service,
	logger *logger.Logger,
) *Service {
	return &Service{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		jwtSvc:    jwtSvc,
		hasher:    hasher,
		emailSvc:  emailSvc,
		logger:    logger,
	}
}

func (s *Service) Login(ctx context.Context, emailAddr, password string) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	if user.Status == model.UserStatusLocked {
		if time.Since(user.LastLoginAttempt) < lockoutDuration {
			return nil, model.ErrAccountLocked
		}
		user.Status = model.UserStatusActive
		user.LoginAttempts = 0
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		user.LoginAttempts++
		user.LastLoginAttempt = time.Now()
		if user.LoginAttempts >= maxLoginAttempts {
			user.Status = model.UserStatusLocked
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update login attempts: %w", err)
		}
		return nil, model.ErrInvalidCredentials
	}

	user.LoginAttempts = 0
	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update login timestamp: %w", err)
	}

	return s.generateTokens(user)
}

func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if existing, _ := s.userRepo.GetByEmail(ctx, req.Email); existing != nil {
		return nil, fmt.Errorf("email already registered")
	}
	if existing, _ := s.userRepo.GetByUsername(ctx, req.Username); existing != nil {
		return nil, fmt.Errorf("username already taken")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:            req.Email,
		Username:         req.Username,
		PasswordHash:     hash,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Organization:     req.Organization,
		Position:         req.Position,
		Status:           model.UserStatusPending,
		LastLoginAttempt: time.Now(),
	}

	role, err := s.defaultRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve default role: %w", err)
	}
	user.RoleID = &role.ID

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token := uuid.NewString()
	if err := s.tokenRepo.StoreVerificationToken(ctx, user.ID, token, time.Now().Add(verifyTokenExpiry)); err != nil {
		return nil, fmt.Errorf("failed to store verification token: %w", err)
	}

	if err := s.emailSvc.SendVerification(ctx, user.Email, token); err != nil {
		// registration stands even if the mail bounces
		s.logger.Error(err, "failed to send verification email", "email", user.Email)
	}

	return user, nil
}

// defaultRole returns the standard user role, creating it on first use.
func (s *Service) defaultRole(ctx context.Context) (*model.Role, error) {
	role, err := s.userRepo.GetRoleByName(ctx, model.RoleUser)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	role = &model.Role{Name: model.RoleUser, Description: "Standard read-only access"}
	if err := s.userRepo.CreateRole(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	user, err := s.userRepo.Get(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	return s.generateTokens(user)
}

func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.tokenRepo.ValidateVerificationToken(ctx, token)
	if err != nil {
		return fmt.Errorf("invalid verification token")
	}

	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	user.Status = model.UserStatusActive
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to activate user: %w", err)
	}

	if err := s.tokenRepo.InvalidateToken(ctx, token); err != nil {
		s.logger.Error(err, "failed to invalidate verification token")
	}

	if err := s.emailSvc.SendWelcome(ctx, user.Email, user.FullName()); err != nil {
		s.logger.Error(err, "failed to send welcome email", "email", user.Email)
	}

	return nil
}

func (s *Service) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		// do not reveal whether the address exists
		return nil
	}

	token := uuid.NewString()
	if err := s.tokenRepo.StoreResetToken(ctx, user.ID, token, time.Now().Add(resetTokenExpiry)); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.emailSvc.SendPasswordReset(ctx, user.Email, token); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.tokenRepo.ValidateResetToken(ctx, token)
	if err != nil {
		return fmt.Errorf("invalid reset token")
	}

	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = hash
	user.LoginAttempts = 0
	if user.Status == model.UserStatusLocked {
		user.Status = model.UserStatusActive
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.tokenRepo.InvalidateToken(ctx, token); err != nil {
		s.logger.Error(err, "failed to invalidate reset token")
	}
	return nil
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.userRepo.Get(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Organization != "" {
		user.Organization = req.Organization
	}
	if req.Position != "" {
		user.Position = req.Position
	}
	if req.Password != "" {
		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *Service) ValidateToken(token string) (*model.TokenClaims, error) {
	return s.jwtSvc.ValidateToken(token)
}

func (s *Service) generateTokens(user *model.User) (*model.TokenResponse, error) {
	access, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.jwtSvc.GenerateRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &model.TokenResponse{AccessToken: access, RefreshToken: refresh}, nil
}
