package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=45"`
	Email    string `json:"email" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=72"`
}

// UserResponse never carries the password or its hash.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
