package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/kvistberg/noteboard/auth-service/internal/adapters/transport/http/dto"
	"github.com/kvistberg/noteboard/auth-service/internal/app/auth/hash"
	customErrors "github.com/kvistberg/noteboard/auth-service/internal/domain/auth/errors"
	"github.com/kvistberg/noteboard/auth-service/internal/domain/auth/model"
	"github.com/kvistberg/noteboard/auth-service/internal/domain/auth/repo"
	"github.com/kvistberg/noteboard/auth-service/internal/domain/auth/token"
)

type authService struct {
	userRepo repo.UserRepo
	hasher   *hash.Hasher
	issuer   token.Issuer
	v        *validator.Validate
}

type Service interface {
	Register(context.Context, dto.RegisterDTO) (model.User, error)
	Login(context.Context, dto.LoginDTO) (string, error)
	CurrentUser(ctx context.Context, rawToken string) (model.User, error)
}

func New(
	ur repo.UserRepo,
	h *hash.Hasher,
	iss token.Issuer,
	v *validator.Validate,
) Service {
	return &authService{userRepo: ur, hasher: h, issuer: iss, v: v}
}

// Register hashes the password and persists a new user. Username conflicts
// take precedence over email conflicts when both collide.
func (a *authService) Register(ctx context.Context, in dto.RegisterDTO) (model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)

	if in.Username == "" || in.Email == "" || in.Password == "" {
		return model.User{}, customErrors.NewInvalidCredentialInput("username, email and password are required")
	}
	if err := a.v.Struct(in); err != nil {
		return model.User{}, customErrors.NewInvalidCredentialInput(err.Error())
	}

	passwordHash, err := a.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, customErrors.WrapInternal(err, "Register")
	}

	user := model.User{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err = a.userRepo.CreateUser(ctx, user); err != nil {
		if customErrors.IsDuplicate(err) {
			return model.User{}, err
		}
		return model.User{}, customErrors.WrapInternal(err, "Register")
	}

	return user, nil
}

// Login verifies the credentials and issues a bearer token whose subject is
// the username. "No such user" and "wrong password" are deliberately
// indistinguishable to the caller.
func (a *authService) Login(ctx context.Context, in dto.LoginDTO) (string, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return "", customErrors.NewInvalidCredentialInput("username and password are required")
	}
	if err := a.v.Struct(in); err != nil {
		return "", customErrors.NewInvalidCredentialInput(err.Error())
	}

	user, err := a.authenticate(ctx, in.Username, in.Password)
	if err != nil {
		return "", err
	}

	signed, err := a.issuer.Issue(user.Username)
	if err != nil {
		return "", customErrors.WrapInternal(err, "Login")
	}
	return signed, nil
}

// CurrentUser resolves a bearer token back to the user it was issued for.
func (a *authService) CurrentUser(ctx context.Context, rawToken string) (model.User, error) {
	claims, err := a.issuer.Validate(rawToken)
	if err != nil {
		return model.User{}, err
	}

	user, err := a.userRepo.GetUserByUsername(ctx, claims.Subject)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		// User removed after the token was issued.
		return model.User{}, customErrors.ErrAuthenticationFailed
	case err != nil:
		return model.User{}, customErrors.WrapInternal(err, "CurrentUser")
	}
	return user, nil
}

func (a *authService) authenticate(ctx context.Context, username, password string) (model.User, error) {
	user, err := a.userRepo.GetUserByUsername(ctx, username)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.User{}, customErrors.ErrAuthenticationFailed
	case err != nil:
		return model.User{}, customErrors.WrapInternal(err, "authenticate")
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		return model.User{}, customErrors.ErrAuthenticationFailed
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
