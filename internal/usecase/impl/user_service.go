package impl

import (
	"context"
	"log/slog"
	"time"

	"market/internal/domain/authz"
	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/domain/repository"
	"market/internal/errors"
	"market/internal/usecase"

	"github.com/google/uuid"
)

// userService implements the UserUsecase and RoleUsecase interfaces.
type userService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
	now       func() time.Time
}

// NewUserService is the constructor for the account operations.
func NewUserService(txManager repository.TransactionManager, logger *slog.Logger) usecase.UserUsecase {
	return newUserService(txManager, logger)
}

// NewRoleService is the constructor for role management.
func NewRoleService(txManager repository.TransactionManager, logger *slog.Logger) usecase.RoleUsecase {
	return newUserService(txManager, logger)
}

func newUserService(txManager repository.TransactionManager, logger *slog.Logger) *userService {
	return &userService{
		txManager: txManager,
		logger:    logger,
		now:       time.Now,
	}
}

// SignUp creates an account with a buyer or seller role.
func (srv *userService) SignUp(ctx context.Context, input *usecase.SignUpInput) (*entity.User, error) {
	srv.logger.Info("Signing up user", "email", input.Email, "role", input.Role)

	if err := validateInput(input); err != nil {
		return nil, err
	}
	if !input.Role.IsSelfAssignable() {
		return nil, errors.Wrapf(domainerrors.ErrInvalidRole, "role %q cannot be chosen at signup", input.Role)
	}

	var created entity.User

	err := srv.txManager.Execute(ctx, func(snapshot *entity.Snapshot) error {
		user, err := srv.addUser(snapshot, input.Email, input.Name)
		if err != nil {
			return err
		}
		user.Phone = input.Phone
		user.Address = input.Address
		snapshot.Roles[user.ID] = input.Role
		created = *user

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign up")
	}

	return &created, nil
}

// GetUser returns one user.
func (srv *userService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	var found entity.User

	err := srv.txManager.Read(ctx, func(snapshot *entity.Snapshot) error {
		user := snapshot.FindUser(userID)
		if user == nil {
			return errors.Wrapf(domainerrors.ErrNotFound, "user %s not found", userID)
		}
		found = *user

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user")
	}

	return &found, nil
}

// UpdateProfile patches the actor's own profile.
func (srv *userService) UpdateProfile(ctx context.Context, actorID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.User, error) {
	srv.logger.Info("Updating profile", "userID", actorID)

	if err := validateInput(input); err != nil {
		return nil, err
	}

	var updated entity.User

	err := srv.txManager.Execute(ctx, func(snapshot *entity.Snapshot) error {
		// 1. Find the user
		user := snapshot.FindUser(actorID)
		if user == nil {
			return errors.Wrapf(domainerrors.ErrNotFound, "user %s not found", actorID)
		}

		// 2. Update the profile fields
		if input.Name != nil {
			user.Name = *input.Name
		}
		if input.Phone != nil {
			user.Phone = *input.Phone
		}
		if input.Address != nil {
			user.Address = *input.Address
		}
		user.UpdatedAt = srv.now()
		updated = *user

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update profile")
	}

	return &updated, nil
}

// BootstrapAdmin makes the first admin. An existing account with the email is
// promoted; otherwise a new one is created.
func (srv *userService) BootstrapAdmin(ctx context.Context, input *usecase.BootstrapAdminInput) (*entity.User, error) {
	srv.logger.Info("Bootstrapping admin", "email", input.Email)

	if err := validateInput(input); err != nil {
		return nil, err
	}

	var admin entity.User

	err := srv.txManager.Execute(ctx, func(snapshot *entity.Snapshot) error {
		if snapshot.HasAdmin() {
			return errors.Wrap(domainerrors.ErrConflict, "an admin already exists")
		}

		user := snapshot.FindUserByEmail(input.Email)
		if user == nil {
			created, err := srv.addUser(snapshot, input.Email, input.Name)
			if err != nil {
				return err
			}
			user = created
		}
		if err := checkStoreOwnerRole(snapshot, user.ID, entity.RoleAdmin); err != nil {
			return err
		}
		snapshot.Roles[user.ID] = entity.RoleAdmin
		admin = *user

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to bootstrap admin")
	}

	srv.logger.Info("Admin bootstrapped", "userID", admin.ID)

	return &admin, nil
}

// AssignRole replaces the user's single role. Only an admin may do this, and a
// store owner stays a seller.
func (srv *userService) AssignRole(ctx context.Context, actorID, userID uuid.UUID, role entity.Role) error {
	srv.logger.Info("Assigning role", "actorID", actorID, "userID", userID, "role", role)

	if !role.IsValid() {
		return errors.Wrapf(domainerrors.ErrInvalidRole, "unknown role %q", role)
	}

	err := srv.txManager.Execute(ctx, func(snapshot *entity.Snapshot) error {
		if err := authz.NewGuard(snapshot).AuthorizeRoleAssignment(actorID); err != nil {
			return err
		}
		if snapshot.FindUser(userID) == nil {
			return errors.Wrapf(domainerrors.ErrNotFound, "user %s not found", userID)
		}
		if err := checkStoreOwnerRole(snapshot, userID, role); err != nil {
			return err
		}
		snapshot.Roles[userID] = role

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to assign role")
	}

	return nil
}

func checkStoreOwnerRole(snapshot *entity.Snapshot, userID uuid.UUID, role entity.Role) error {
	if role != entity.RoleSeller && snapshot.OwnsStores(userID) {
		return errors.Wrapf(domainerrors.ErrConflict, "user %s owns stores and must stay a seller", userID)
	}

	return nil
}

// GetRole returns the user's role.
func (srv *userService) GetRole(ctx context.Context, userID uuid.UUID) (entity.Role, error) {
	var role entity.Role

	err := srv.txManager.Read(ctx, func(snapshot *entity.Snapshot) error {
		found, ok := snapshot.RoleOf(userID)
		if !ok {
			return errors.Wrapf(domainerrors.ErrNotFound, "no role recorded for user %s", userID)
		}
		role = found

		return nil
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to get role")
	}

	return role, nil
}

// addUser appends a user after checking the email is free, and returns a
// pointer into the snapshot.
func (srv *userService) addUser(snapshot *entity.Snapshot, email, name string) (*entity.User, error) {
	if snapshot.FindUserByEmail(email) != nil {
		return nil, errors.Wrapf(domainerrors.ErrUserAlreadyExists, "email %s", email)
	}

	now := srv.now()
	snapshot.Users = append(snapshot.Users, entity.User{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})

	return &snapshot.Users[len(snapshot.Users)-1], nil
}
