package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resqhome-backend/internal/models"
	"resqhome-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the persistence surface the user service needs
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// UserService handles accounts, credentials and tokens
type UserService struct {
	userRepo  UserStore
	jwtSecret string
	tokenTTL  time.Duration
}

// NewUserService creates a new user service
func NewUserService(userRepo UserStore, jwtSecret string, tokenTTL time.Duration) *UserService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &UserService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// SignupInput is the payload for account creation
type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	City     string `json:"city"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Signup creates an account and returns it with a signed token
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, string, error) {
	if in.Name == "" || in.Email == "" || in.City == "" || in.Password == "" || in.Role == "" {
		return nil, "", Validationf("all fields are required")
	}
	if in.Role != models.RoleUser && in.Role != models.RoleCorporation {
		return nil, "", Validationf("role must be %q or %q", models.RoleUser, models.RoleCorporation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		City:         in.City,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrDuplicateEmail
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a signed token
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", Validationf("email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GenerateToken signs a token carrying the user's id, email and role
func (s *UserService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies a token and returns its claims
func (s *UserService) ValidateToken(tokenString string) (*models.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, _ := mapClaims["sub"].(string)
	email, _ := mapClaims["email"].(string)
	role, _ := mapClaims["role"].(string)
	if userID == "" || role == "" {
		return nil, ErrInvalidToken
	}

	return &models.Claims{UserID: userID, Email: email, Role: role}, nil
}

// Profile retrieves a user by id
func (s *UserService) Profile(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateProfileInput carries optional profile changes; nil fields are kept
type UpdateProfileInput struct {
	Name          *string
	City          *string
	Bio           *string
	Website       *string
	ProfilePicURL *string
	// Password change requires both fields
	CurrentPassword string
	NewPassword     string
}

// UpdateProfile applies partial changes to the caller's profile
func (s *UserService) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*models.User, error) {
	user, err := s.Profile(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.City != nil {
		user.City = *in.City
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Website != nil {
		user.Website = *in.Website
	}
	if in.ProfilePicURL != nil {
		user.ProfilePic = *in.ProfilePicURL
	}

	if in.NewPassword != "" {
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)) != nil {
			return nil, ErrInvalidCredentials
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}
