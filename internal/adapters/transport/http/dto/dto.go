package dto

import (
	"time"

	"github.com/kvistberg/noteboard/auth-service/internal/domain/auth/model"
)

// Password strength (strongpwd) is a boundary concern: it is enforced via the
// binding tags when a request is decoded, not by the auth service itself.

type RegisterDTO struct {
	Username string `json:"username" binding:"required,alphanum,min=3,max=30" validate:"required"`
	Email    string `json:"email"    binding:"required,email"                 validate:"required,email"`
	Password string `json:"password" binding:"required,strongpwd"             validate:"required"`
}

type LoginDTO struct {
	Username string `json:"username" binding:"required" validate:"required"`
	Password string `json:"password" binding:"required" validate:"required"`
}

type TokenDTO struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserDTO is the boundary view of a user. The password hash never leaves the
// service, so there is no field for it here.
type UserDTO struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func UserFromModel(u model.User) UserDTO {
	return UserDTO{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
