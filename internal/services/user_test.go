package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"resqhome-backend/internal/models"
	"resqhome-backend/internal/repository/memory"
	"resqhome-backend/internal/services"
)

const testSecret = "test-secret"

func newUserService(ttl time.Duration) (*services.UserService, *memory.UserRepo) {
	repo := memory.NewUserRepo()
	return services.NewUserService(repo, testSecret, ttl), repo
}

func TestSignupAndLogin(t *testing.T) {
	svc, _ := newUserService(time.Hour)
	ctx := context.Background()

	user, token, err := svc.Signup(ctx, services.SignupInput{
		Name:     "Maria",
		Email:    "maria@example.com",
		City:     "Lima",
		Password: "secret123",
		Role:     models.RoleUser,
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected generated user id")
	}
	if token == "" {
		t.Fatal("expected signed token")
	}
	if user.PasswordHash == "secret123" {
		t.Fatal("password stored in plain text")
	}

	got, loginToken, err := svc.Login(ctx, "maria@example.com", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("login returned user %s, want %s", got.ID, user.ID)
	}
	if loginToken == "" {
		t.Fatal("expected login token")
	}
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newUserService(time.Hour)
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, services.SignupInput{Name: "x", Email: "x@x.com"})
	if !services.IsValidation(err) {
		t.Fatalf("expected validation error for missing fields, got %v", err)
	}

	_, _, err = svc.Signup(ctx, services.SignupInput{
		Name:     "x",
		Email:    "x@x.com",
		City:     "Lima",
		Password: "pw",
		Role:     models.RoleAdmin,
	})
	if !services.IsValidation(err) {
		t.Fatalf("expected validation error for admin self-signup, got %v", err)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := newUserService(time.Hour)
	ctx := context.Background()

	in := services.SignupInput{
		Name:     "Maria",
		Email:    "maria@example.com",
		City:     "Lima",
		Password: "secret123",
		Role:     models.RoleUser,
	}
	if _, _, err := svc.Signup(ctx, in); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	if _, _, err := svc.Signup(ctx, in); !errors.Is(err, services.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	svc, _ := newUserService(time.Hour)
	ctx := context.Background()

	if _, _, err := svc.Login(ctx, "nobody@example.com", "pw"); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}

	_, _, err := svc.Signup(ctx, services.SignupInput{
		Name:     "Maria",
		Email:    "maria@example.com",
		City:     "Lima",
		Password: "secret123",
		Role:     models.RoleUser,
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if _, _, err := svc.Login(ctx, "maria@example.com", "wrong"); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc, _ := newUserService(time.Hour)

	user := &models.User{ID: "u1", Email: "u@example.com", Role: models.RoleCorporation}
	token, err := svc.GenerateToken(user)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "u@example.com" || claims.Role != models.RoleCorporation {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenExpired(t *testing.T) {
	svc, _ := newUserService(-time.Minute)

	token, err := svc.GenerateToken(&models.User{ID: "u1", Email: "u@example.com", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := svc.ValidateToken(token); !errors.Is(err, services.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenTampered(t *testing.T) {
	svc, _ := newUserService(time.Hour)

	if _, err := svc.ValidateToken("not-a-token"); !errors.Is(err, services.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	other := services.NewUserService(memory.NewUserRepo(), "other-secret", time.Hour)
	token, err := other.GenerateToken(&models.User{ID: "u1", Email: "u@example.com", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := svc.ValidateToken(token); !errors.Is(err, services.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newUserService(time.Hour)
	ctx := context.Background()

	user, _, err := svc.Signup(ctx, services.SignupInput{
		Name:     "Maria",
		Email:    "maria@example.com",
		City:     "Lima",
		Password: "secret123",
		Role:     models.RoleUser,
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	name := "Maria G."
	bio := "volunteer"
	updated, err := svc.UpdateProfile(ctx, user.ID, services.UpdateProfileInput{Name: &name, Bio: &bio})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Name != "Maria G." || updated.Bio != "volunteer" {
		t.Fatalf("unexpected profile after update: %+v", updated)
	}
	if updated.City != "Lima" {
		t.Fatalf("untouched field changed: city = %q", updated.City)
	}
}

func TestUpdateProfilePasswordChange(t *testing.T) {
	svc, _ := newUserService(time.Hour)
	ctx := context.Background()

	user, _, err := svc.Signup(ctx, services.SignupInput{
		Name:     "Maria",
		Email:    "maria@example.com",
		City:     "Lima",
		Password: "secret123",
		Role:     models.RoleUser,
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	_, err = svc.UpdateProfile(ctx, user.ID, services.UpdateProfileInput{
		CurrentPassword: "wrong",
		NewPassword:     "newpass456",
	})
	if !errors.Is(err, services.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong current password, got %v", err)
	}

	_, err = svc.UpdateProfile(ctx, user.ID, services.UpdateProfileInput{
		CurrentPassword: "secret123",
		NewPassword:     "newpass456",
	})
	if err != nil {
		t.Fatalf("password change failed: %v", err)
	}

	if _, _, err := svc.Login(ctx, "maria@example.com", "newpass456"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, _, err := svc.Login(ctx, "maria@example.com", "secret123"); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Fatalf("old password still accepted: %v", err)
	}
}
