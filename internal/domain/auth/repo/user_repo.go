package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/kvistberg/noteboard/auth-service/internal/domain/auth/model"
)

// UserRepo is the persistence port for the user table. Implementations must
// surface uniqueness violations as ErrUsernameTaken/ErrEmailTaken, with the
// username conflict reported when both fields collide.
type UserRepo interface {
	CreateUser(ctx context.Context, u model.User) (uuid.UUID, error)

	GetUserByUsername(ctx context.Context, username string) (model.User, error)

	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)
}
