package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
	pkgerrors "github.com/emeraldgavel/auctionhouse-backend/pkg/errors"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/pagination"
)

// Service covers profile access plus the administrative user operations.
type Service interface {
	Get(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, actorID uuid.UUID, input UpdateProfileInput) (*UserDTO, error)
	Deactivate(ctx context.Context, actorRole enums.UserRole, id uuid.UUID) error
	Reactivate(ctx context.Context, actorRole enums.UserRole, id uuid.UUID) error
	SetRole(ctx context.Context, actorRole enums.UserRole, id uuid.UUID, role enums.UserRole) (*UserDTO, error)
	List(ctx context.Context, actorRole enums.UserRole, input ListInput) (*UserList, error)
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	List(ctx context.Context, params pagination.Params, role *enums.UserRole, active *bool) ([]models.User, error)
}

type service struct {
	repo userRepository
}

// NewService builds a users service on top of the repository.
func NewService(repo userRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID) (*UserDTO, error) {
	// Members see only their own profile.
	if id != actorID && !actorRole.AtLeast(enums.UserRoleStaff) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot view another user")
	}
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, actorID uuid.UUID, input UpdateProfileInput) (*UserDTO, error) {
	updates := map[string]any{}
	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name cannot be empty")
		}
		updates["full_name"] = name
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no profile fields to update")
	}
	updates["updated_at"] = time.Now().UTC()

	if err := s.repo.Update(ctx, actorID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	user, err := s.find(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) Deactivate(ctx context.Context, actorRole enums.UserRole, id uuid.UUID) error {
	return s.setActive(ctx, actorRole, id, false)
}

func (s *service) Reactivate(ctx context.Context, actorRole enums.UserRole, id uuid.UUID) error {
	return s.setActive(ctx, actorRole, id, true)
}

// setActive flips the soft-deactivation flag. Accounts are never deleted so
// bid and settlement history stays intact.
func (s *service) setActive(ctx context.Context, actorRole enums.UserRole, id uuid.UUID, active bool) error {
	if !actorRole.AtLeast(enums.UserRoleAdmin) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
	}
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	err := s.repo.Update(ctx, id, map[string]any{
		"is_active":  active,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update account status")
	}
	return nil
}

func (s *service) SetRole(ctx context.Context, actorRole enums.UserRole, id uuid.UUID, role enums.UserRole) (*UserDTO, error) {
	if !actorRole.AtLeast(enums.UserRoleAdmin) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.repo.Update(ctx, id, map[string]any{
		"role":       role,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update role")
	}
	user.Role = role
	return FromModel(user), nil
}

func (s *service) List(ctx context.Context, actorRole enums.UserRole, input ListInput) (*UserList, error) {
	if !actorRole.AtLeast(enums.UserRoleStaff) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
	}

	limit := pagination.NormalizeLimit(input.Limit)
	rows, err := s.repo.List(ctx, pagination.Params{Limit: input.Limit, Cursor: input.Cursor}, input.Role, input.Active)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	list := &UserList{Users: make([]UserDTO, 0, len(rows)), HasMore: hasMore}
	for i := range rows {
		list.Users = append(list.Users, *FromModel(&rows[i]))
	}
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return list, nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}
