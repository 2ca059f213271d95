package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	customErrors "github.com/kvistberg/noteboard/auth-service/internal/domain/auth/errors"
	"github.com/kvistberg/noteboard/auth-service/internal/domain/auth/model"
	"gorm.io/gorm"
)

type PostgresUserRepo struct {
	db *gorm.DB
}

func NewPostgresUserRepo(db *gorm.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// CreateUser inserts a new user. Uniqueness is checked username-first so a
// request colliding on both fields reports the username conflict; the unique
// indexes remain the real guarantee under concurrent registrations, and a
// constraint violation from the insert is translated to the same errors.
func (p *PostgresUserRepo) CreateUser(ctx context.Context, user model.User) (uuid.UUID, error) {
	if _, err := p.GetUserByUsername(ctx, user.Username); err == nil {
		return uuid.Nil, customErrors.ErrUsernameTaken
	} else if !errors.Is(err, customErrors.ErrNotFound) {
		return uuid.Nil, err
	}
	if _, err := p.GetUserByEmail(ctx, user.Email); err == nil {
		return uuid.Nil, customErrors.ErrEmailTaken
	} else if !errors.Is(err, customErrors.ErrNotFound) {
		return uuid.Nil, err
	}

	res := p.db.WithContext(ctx).Create(&user)
	if err := res.Error; err != nil {
		if dup := translateUniqueViolation(err); dup != nil {
			return uuid.Nil, dup
		}
		return uuid.Nil, customErrors.WrapInternal(err, "CreateUser")
	}
	return user.ID, nil
}

func (p *PostgresUserRepo) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	res := p.db.WithContext(ctx).Where("username = ?", username).First(&u)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.User{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.User{}, customErrors.WrapInternal(err, "GetUserByUsername")
	}

	return u, nil
}

func (p *PostgresUserRepo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	res := p.db.WithContext(ctx).Where("email = ?", email).First(&u)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.User{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.User{}, customErrors.WrapInternal(err, "GetUserByEmail")
	}

	return u, nil
}

func (p *PostgresUserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	var u model.User
	res := p.db.WithContext(ctx).Where("id = ?", id).First(&u)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.User{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.User{}, customErrors.WrapInternal(err, "GetUserByID")
	}

	return u, nil
}

// translateUniqueViolation maps a postgres 23505 to the typed duplicate error
// for the offending field, or nil when err is not a unique violation.
func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "email"):
		return customErrors.ErrEmailTaken
	default:
		// username index, or an unnamed constraint; username check comes
		// first in the fixed precedence.
		return customErrors.ErrUsernameTaken
	}
}
