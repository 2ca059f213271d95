package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/kvistberg/noteboard/auth-service/internal/adapters/transport/http/dto"
	"github.com/kvistberg/noteboard/auth-service/internal/app/auth/hash"
	appjwt "github.com/kvistberg/noteboard/auth-service/internal/app/auth/jwt"
	appsvc "github.com/kvistberg/noteboard/auth-service/internal/app/auth/service"
	authErrors "github.com/kvistberg/noteboard/auth-service/internal/domain/auth/errors"
	"github.com/kvistberg/noteboard/auth-service/internal/domain/auth/model"
	"github.com/kvistberg/noteboard/auth-service/internal/infra/config"
	"github.com/stretchr/testify/require"
)

/* ──────────────────────────────── stubs ──────────────────────────────── */

type userRepoStub struct{ users map[string]model.User }

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{users: make(map[string]model.User)}
}

func (u *userRepoStub) CreateUser(_ context.Context, m model.User) (uuid.UUID, error) {
	// Same precedence as the postgres adapter: username conflict wins.
	for _, v := range u.users {
		if v.Username == m.Username {
			return uuid.Nil, authErrors.ErrUsernameTaken
		}
	}
	for _, v := range u.users {
		if v.Email == m.Email {
			return uuid.Nil, authErrors.ErrEmailTaken
		}
	}
	u.users[m.ID.String()] = m
	return m.ID, nil
}

func (u *userRepoStub) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	for _, v := range u.users {
		if v.Username == username {
			return v, nil
		}
	}
	return model.User{}, authErrors.ErrNotFound
}

func (u *userRepoStub) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	for _, v := range u.users {
		if v.Email == email {
			return v, nil
		}
	}
	return model.User{}, authErrors.ErrNotFound
}

func (u *userRepoStub) GetUserByID(_ context.Context, id uuid.UUID) (model.User, error) {
	v, ok := u.users[id.String()]
	if !ok {
		return model.User{}, authErrors.ErrNotFound
	}
	return v, nil
}

func (u *userRepoStub) delete(id uuid.UUID) { delete(u.users, id.String()) }

/* ───────────────────────────── helpers ───────────────────────────── */

func newSvc(t *testing.T) (appsvc.Service, *userRepoStub) {
	t.Helper()
	ur := newUserRepoStub()

	issuer, err := appjwt.NewJwtIssuer(&config.Config{
		JWTSecret:      "test-secret",
		AccessTokenTTL: time.Minute,
		Issuer:         "test",
		Audience:       "test",
	})
	require.NoError(t, err)

	svc := appsvc.New(ur, hash.New(""), issuer, validator.New())
	return svc, ur
}

func register(t *testing.T, svc appsvc.Service, username, email, password string) model.User {
	t.Helper()
	user, err := svc.Register(context.Background(), dto.RegisterDTO{
		Username: username, Email: email, Password: password,
	})
	require.NoError(t, err)
	return user
}

/* ─────────────────────────────── tests ─────────────────────────────── */

func TestRegister_Success(t *testing.T) {
	svc, _ := newSvc(t)

	user := register(t, svc, "alice", "alice@example.com", "Str0ngPass!")

	require.Equal(t, "alice", user.Username)
	require.Equal(t, "alice@example.com", user.Email)
	require.NotEmpty(t, user.PasswordHash)
	require.NotEqual(t, "Str0ngPass!", user.PasswordHash)
	require.NotEqual(t, uuid.Nil, user.ID)
	require.False(t, user.CreatedAt.IsZero())
}

func TestRegister_NormalizesEmail(t *testing.T) {
	svc, ur := newSvc(t)

	user := register(t, svc, "alice", "  Alice@Example.COM ", "Str0ngPass!")
	require.Equal(t, "alice@example.com", user.Email)

	_, err := ur.GetUserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := newSvc(t)
	register(t, svc, "alice", "alice@example.com", "Str0ngPass!")

	_, err := svc.Register(context.Background(), dto.RegisterDTO{
		Username: "alice", Email: "other@example.com", Password: "X",
	})
	require.True(t, authErrors.IsUsernameTaken(err), "got %v", err)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newSvc(t)
	register(t, svc, "alice", "alice@example.com", "Str0ngPass!")

	_, err := svc.Register(context.Background(), dto.RegisterDTO{
		Username: "bob", Email: "alice@example.com", Password: "X",
	})
	require.True(t, authErrors.IsEmailTaken(err), "got %v", err)
}

func TestRegister_UsernameConflictWinsOverEmail(t *testing.T) {
	svc, _ := newSvc(t)
	register(t, svc, "alice", "alice@example.com", "Str0ngPass!")

	// Both fields collide: the username conflict must be the one reported.
	_, err := svc.Register(context.Background(), dto.RegisterDTO{
		Username: "alice", Email: "alice@example.com", Password: "X",
	})
	require.True(t, authErrors.IsUsernameTaken(err), "got %v", err)
}

func TestRegister_EmptyFields(t *testing.T) {
	svc, _ := newSvc(t)

	for _, in := range []dto.RegisterDTO{
		{Username: "", Email: "a@b.io", Password: "pw"},
		{Username: "alice", Email: "", Password: "pw"},
		{Username: "alice", Email: "a@b.io", Password: ""},
		{Username: "   ", Email: "a@b.io", Password: "pw"},
	} {
		_, err := svc.Register(context.Background(), in)
		require.True(t, authErrors.IsInvalidCredentialInput(err), "input %+v: got %v", in, err)
	}
}

func TestLogin_RoundTrip(t *testing.T) {
	svc, _ := newSvc(t)
	register(t, svc, "alice", "alice@example.com", "Str0ngPass!")

	tok, err := svc.Login(context.Background(), dto.LoginDTO{
		Username: "alice", Password: "Str0ngPass!",
	})
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	user, err := svc.CurrentUser(context.Background(), tok)
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, "alice@example.com", user.Email)
}

func TestLogin_WrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	svc, _ := newSvc(t)
	register(t, svc, "alice", "alice@example.com", "Str0ngPass!")

	_, errWrongPwd := svc.Login(context.Background(), dto.LoginDTO{
		Username: "alice", Password: "wrong",
	})
	_, errNoUser := svc.Login(context.Background(), dto.LoginDTO{
		Username: "nobody", Password: "Str0ngPass!",
	})

	// The two failures must be the same kind to prevent user enumeration.
	require.ErrorIs(t, errWrongPwd, authErrors.ErrAuthenticationFailed)
	require.ErrorIs(t, errNoUser, authErrors.ErrAuthenticationFailed)
}

func TestLogin_EmptyFields(t *testing.T) {
	svc, _ := newSvc(t)

	_, err := svc.Login(context.Background(), dto.LoginDTO{Username: "", Password: "pw"})
	require.True(t, authErrors.IsInvalidCredentialInput(err))

	_, err = svc.Login(context.Background(), dto.LoginDTO{Username: "alice", Password: ""})
	require.True(t, authErrors.IsInvalidCredentialInput(err))
}

func TestCurrentUser_GarbageToken(t *testing.T) {
	svc, _ := newSvc(t)

	_, err := svc.CurrentUser(context.Background(), "garbage")
	require.True(t, authErrors.IsTokenInvalid(err), "got %v", err)
}

func TestCurrentUser_ExpiredToken(t *testing.T) {
	ur := newUserRepoStub()
	expiredIssuer, err := appjwt.NewJwtIssuer(&config.Config{
		JWTSecret:      "test-secret",
		AccessTokenTTL: -time.Minute,
		Issuer:         "test",
		Audience:       "test",
	})
	require.NoError(t, err)
	svc := appsvc.New(ur, hash.New(""), expiredIssuer, validator.New())

	register(t, svc, "alice", "alice@example.com", "Str0ngPass!")
	tok, err := svc.Login(context.Background(), dto.LoginDTO{
		Username: "alice", Password: "Str0ngPass!",
	})
	require.NoError(t, err)

	_, err = svc.CurrentUser(context.Background(), tok)
	require.True(t, authErrors.IsTokenExpired(err), "got %v", err)
}

func TestCurrentUser_UserDeletedAfterIssue(t *testing.T) {
	svc, ur := newSvc(t)
	user := register(t, svc, "alice", "alice@example.com", "Str0ngPass!")

	tok, err := svc.Login(context.Background(), dto.LoginDTO{
		Username: "alice", Password: "Str0ngPass!",
	})
	require.NoError(t, err)

	ur.delete(user.ID)

	_, err = svc.CurrentUser(context.Background(), tok)
	require.ErrorIs(t, err, authErrors.ErrAuthenticationFailed)
}
