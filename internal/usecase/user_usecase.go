package usecase

import (
	"context"

	"market/internal/domain/entity"

	"github.com/google/uuid"
)

// UserUsecase defines the interface for account operations.
type UserUsecase interface {
	// SignUp creates an account holding a self-assignable role (buyer or seller).
	SignUp(ctx context.Context, input *SignUpInput) (*entity.User, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	// UpdateProfile patches the caller's own profile.
	UpdateProfile(ctx context.Context, actorID uuid.UUID, input *UpdateProfileInput) (*entity.User, error)
	// BootstrapAdmin creates the first admin. It fails with ErrConflict once any admin exists.
	BootstrapAdmin(ctx context.Context, input *BootstrapAdminInput) (*entity.User, error)
}

// RoleUsecase defines the interface for role management.
type RoleUsecase interface {
	// AssignRole replaces the user's role. Only an admin may call it.
	AssignRole(ctx context.Context, actorID, userID uuid.UUID, role entity.Role) error
	GetRole(ctx context.Context, userID uuid.UUID) (entity.Role, error)
}

// --- Input DTOs ---

// SignUpInput defines the data required for signup.
type SignUpInput struct {
	Email   string      `json:"email" validate:"required,email"`
	Name    string      `json:"name" validate:"required"`
	Phone   string      `json:"phone"`
	Address string      `json:"address"`
	Role    entity.Role `json:"role" validate:"required"`
}

// UpdateProfileInput defines the patch applied to a profile. Nil fields keep their value.
type UpdateProfileInput struct {
	Name    *string `json:"name,omitempty" validate:"omitnil,min=1"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// BootstrapAdminInput defines the data required to create the first admin.
type BootstrapAdminInput struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
}
