package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/identity"
	"github.com/pms/backend/internal/domain/portfolio"
	"github.com/pms/backend/internal/domain/shared"
)

// UserService handles user administration use cases
type UserService struct {
	userRepo  identity.UserRepository
	ownerRepo portfolio.OwnerRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, ownerRepo portfolio.OwnerRepository) *UserService {
	return &UserService{
		userRepo:  userRepo,
		ownerRepo: ownerRepo,
	}
}

// EnsureInitialAdmin creates the first ADMIN account when the user
// table is empty, so a fresh deployment can log in. It does nothing
// once any user exists or when no credentials are configured.
func (s *UserService) EnsureInitialAdmin(ctx context.Context, email, name, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	if name == "" {
		name = "Administrator"
	}
	user, err := identity.NewUser(email, name, password, identity.RoleAdmin)
	if err != nil {
		return false, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return false, err
	}
	return true, nil
}

// Create registers a new user account
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "User with this email already exists")
	}
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	user, err := identity.NewUser(req.Email, req.Name, req.Password, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.OwnerID != nil {
		if _, err := s.ownerRepo.FindByID(ctx, *req.OwnerID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_OWNER", "Owner does not exist")
			}
			return nil, err
		}
		if err := user.LinkOwner(*req.OwnerID); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// List retrieves users matching the filter with pagination
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]UserResponse, int64, error) {
	domainFilter := identity.UserFilter{
		Search:   filter.Search,
		Active:   filter.Active,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.Role != "" {
		role := identity.Role(filter.Role)
		domainFilter.Role = &role
	}

	users, total, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = *ToUserResponse(&users[i])
	}
	return responses, total, nil
}

// Update modifies a user's profile and role
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := user.Name
	if req.Name != nil {
		name = *req.Name
	}
	phone := user.Phone
	if req.Phone != nil {
		phone = *req.Phone
	}
	role := user.Role
	if req.Role != nil {
		role = identity.Role(*req.Role)
	}

	if err := user.Update(name, phone, role); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// ResetPassword sets a new password without requiring the old one
func (s *UserService) ResetPassword(ctx context.Context, id uuid.UUID, req ResetPasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := user.SetPassword(req.Password); err != nil {
		return err
	}
	return s.userRepo.Save(ctx, user)
}

// Activate re-enables a deactivated account
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	return s.mutate(ctx, id, (*identity.User).Activate)
}

// Deactivate locks an account out
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	return s.mutate(ctx, id, (*identity.User).Deactivate)
}

// Delete removes a user account
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}

func (s *UserService) mutate(ctx context.Context, id uuid.UUID, fn func(*identity.User) error) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(user); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}
