package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"interviewprep/apperr"
	"interviewprep/auth"
	"interviewprep/db"
	"interviewprep/models"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 72
)

var errInvalidCredentials = fmt.Errorf("%w: invalid email or password", apperr.ErrUnauthorized)

type AuthService struct {
	users  db.UserRepository
	hasher *auth.Hasher
	tokens *auth.TokenProvider
	now    func() time.Time
}

func NewAuthService(users db.UserRepository, hasher *auth.Hasher, tokens *auth.TokenProvider) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register creates an account and returns it with a bearer token.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	log.Printf("[INFO] Starting user registration")

	email, err := s.validateRegisterRequest(req)
	if err != nil {
		log.Printf("[ERROR] Registration validation failed: %v", err)
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		log.Printf("[ERROR] Failed to hash password: %v", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &models.User{
		Name:            strings.TrimSpace(req.Name),
		Email:           email,
		PasswordHash:    hash,
		ProfileImageURL: strings.TrimSpace(req.ProfileImageURL),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		log.Printf("[ERROR] Failed to create user: %v", err)
		if errors.Is(err, apperr.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		log.Printf("[ERROR] Failed to issue token: %v", err)
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	log.Printf("[INFO] Successfully registered user %s", user.ID)
	return &models.AuthResponse{User: user, Token: token}, nil
}

// Login checks the credentials and issues a new token. Unknown emails and
// wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	log.Printf("[INFO] Starting user login")

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", apperr.ErrInvalidInput)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			log.Printf("[WARN] Login failed: unknown email")
			return nil, errInvalidCredentials
		}
		log.Printf("[ERROR] Failed to look up user: %v", err)
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		log.Printf("[WARN] Login failed for user %s: wrong password", user.ID)
		return nil, errInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		log.Printf("[ERROR] Failed to issue token: %v", err)
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	log.Printf("[INFO] Successfully logged in user %s", user.ID)
	return &models.AuthResponse{User: user, Token: token}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		log.Printf("[ERROR] Failed to get profile for user %s: %v", userID, err)
		return nil, err
	}
	return user, nil
}

func (s *AuthService) validateRegisterRequest(req *models.RegisterRequest) (string, error) {
	if strings.TrimSpace(req.Name) == "" {
		return "", fmt.Errorf("%w: name is required", apperr.ErrInvalidInput)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: a valid email is required", apperr.ErrInvalidInput)
	}

	if len(req.Password) < minPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", apperr.ErrInvalidInput, minPasswordLength)
	}
	if len(req.Password) > maxPasswordLength {
		return "", fmt.Errorf("%w: password cannot exceed %d bytes", apperr.ErrInvalidInput, maxPasswordLength)
	}

	return email, nil
}
