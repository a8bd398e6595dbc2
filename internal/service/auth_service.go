package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"budget_tracker/internal/model"
	"budget_tracker/internal/repository"
	"budget_tracker/internal/utils"
)

var (
	ErrUserAlreadyExists  = errors.New("user with this username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// AuthService provides authentication related services
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*model.User, string, error)
	Login(ctx context.Context, username, password string) (*model.User, string, error)
}

type authService struct {
	userRepo     repository.UserRepository
	jwtUtil      *utils.JWTUtil
	initialAdmin string
	logger       *zap.Logger
}

// NewAuthService creates a new AuthService. A user registering as initialAdmin gets the admin role.
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, initialAdmin string, logger *zap.Logger) AuthService {
	return &authService{
		userRepo:     userRepo,
		jwtUtil:      jwtUtil,
		initialAdmin: initialAdmin,
		logger:       logger,
	}
}

// Register creates a new user account
func (s *authService) Register(ctx context.Context, username, email, password string) (*model.User, string, error) {
	username = strings.TrimSpace(username)
	existingUser, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, "", ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	userRole := model.RoleUser
	if s.initialAdmin != "" && username == s.initialAdmin {
		userRole = model.RoleAdmin
		s.logger.Info("Registering initial admin", zap.String("username", username))
	}

	user := &model.User{
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: hashedPassword,
		Role:         userRole,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		s.logger.Error("User created, but failed to generate token", zap.Int("user_id", user.ID), zap.Error(err))
		return user, "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}
	return user, token, nil
}

// Login authenticates a user and returns a JWT token
func (s *authService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by username: %w", err)
	}
	if user == nil || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}
