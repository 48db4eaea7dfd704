package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/identity"
	"github.com/pms/backend/internal/domain/portfolio"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/infrastructure/auth"
	"github.com/pms/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]identity.User, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Save(ctx context.Context, u *identity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockOwnerRepository struct {
	mock.Mock
}

func (m *MockOwnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*portfolio.Owner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portfolio.Owner), args.Error(1)
}

func (m *MockOwnerRepository) FindByCode(ctx context.Context, code string) (*portfolio.Owner, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portfolio.Owner), args.Error(1)
}

func (m *MockOwnerRepository) FindAll(ctx context.Context, filter portfolio.OwnerFilter) ([]portfolio.Owner, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]portfolio.Owner), args.Get(1).(int64), args.Error(2)
}

func (m *MockOwnerRepository) Save(ctx context.Context, owner *portfolio.Owner) error {
	args := m.Called(ctx, owner)
	return args.Error(0)
}

func (m *MockOwnerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOwnerRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-at-least-32-characters!!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "pms-test",
	})
}

func testUser(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewUser("manager@example.com", "Efua Mensah", "s3cret-pass", identity.RoleManager)
	require.NoError(t, err)
	return user
}

func TestAuthServiceLogin(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := NewAuthService(userRepo, testJWTService())

	user := testUser(t)
	userRepo.On("FindByEmail", mock.Anything, "manager@example.com").Return(user, nil)
	userRepo.On("Save", mock.Anything, user).Return(nil)

	resp, err := service.Login(context.Background(), LoginRequest{
		Email:    "manager@example.com",
		Password: "s3cret-pass",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
	assert.Equal(t, "MANAGER", resp.User.Role)
	assert.NotNil(t, user.LastLoginAt)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := NewAuthService(userRepo, testJWTService())

	user := testUser(t)
	userRepo.On("FindByEmail", mock.Anything, "manager@example.com").Return(user, nil)

	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "manager@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := NewAuthService(userRepo, testJWTService())

	userRepo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, shared.ErrNotFound)

	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever-pass",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceLoginDeactivated(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := NewAuthService(userRepo, testJWTService())

	user := testUser(t)
	require.NoError(t, user.Deactivate())
	userRepo.On("FindByEmail", mock.Anything, "manager@example.com").Return(user, nil)

	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "manager@example.com",
		Password: "s3cret-pass",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceRefresh(t *testing.T) {
	userRepo := new(MockUserRepository)
	jwtService := testJWTService()
	service := NewAuthService(userRepo, jwtService)

	user := testUser(t)
	tokens, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: user.ID, Email: user.Email, Role: string(user.Role),
	})
	require.NoError(t, err)

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	resp, err := service.Refresh(context.Background(), RefreshRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.Equal(t, user.ID, resp.User.ID)
}

func TestAuthServiceRefreshRejectsAccessToken(t *testing.T) {
	jwtService := testJWTService()
	service := NewAuthService(new(MockUserRepository), jwtService)

	tokens, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: uuid.New(), Email: "x@example.com", Role: "ADMIN",
	})
	require.NoError(t, err)

	_, err = service.Refresh(context.Background(), RefreshRequest{RefreshToken: tokens.AccessToken})
	assert.Error(t, err)
}

func TestAuthServiceChangePassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := NewAuthService(userRepo, testJWTService())

	user := testUser(t)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Save", mock.Anything, user).Return(nil)

	err := service.ChangePassword(context.Background(), user.ID, ChangePasswordRequest{
		OldPassword: "s3cret-pass",
		NewPassword: "n3w-secret-pass",
	})
	require.NoError(t, err)
	assert.True(t, user.VerifyPassword("n3w-secret-pass"))
}

func TestUserServiceEnsureInitialAdminSeedsEmptyTable(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := NewUserService(userRepo, new(MockOwnerRepository))

	userRepo.On("Count", mock.Anything).Return(int64(0), nil)
	var saved *identity.User
	userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*identity.User)
	}).Return(nil)

	created, err := service.EnsureInitialAdmin(context.Background(), "root@example.com", "", "bootstrap-pass-1")
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, saved)
	assert.Equal(t, identity.RoleAdmin, saved.Role)
	assert.Equal(t, "root@example.com", saved.Email)
	assert.Equal(t, "Administrator", saved.Name)
	assert.True(t, saved.VerifyPassword("bootstrap-pass-1"))
}

func TestUserServiceEnsureInitialAdminSkipsPopulatedTable(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := NewUserService(userRepo, new(MockOwnerRepository))

	userRepo.On("Count", mock.Anything).Return(int64(3), nil)

	created, err := service.EnsureInitialAdmin(context.Background(), "root@example.com", "Root", "bootstrap-pass-1")
	require.NoError(t, err)
	assert.False(t, created)
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUserServiceEnsureInitialAdminNoCredentials(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := NewUserService(userRepo, new(MockOwnerRepository))

	created, err := service.EnsureInitialAdmin(context.Background(), "", "", "")
	require.NoError(t, err)
	assert.False(t, created)
	userRepo.AssertNotCalled(t, "Count", mock.Anything)
}

func TestUserServiceCreateLinksOwner(t *testing.T) {
	userRepo := new(MockUserRepository)
	ownerRepo := new(MockOwnerRepository)
	service := NewUserService(userRepo, ownerRepo)

	owner, err := portfolio.NewOwner("OWN-001", "Kwame Asante", "kwame@example.com", "", "USD")
	require.NoError(t, err)

	userRepo.On("FindByEmail", mock.Anything, "kwame@example.com").Return(nil, shared.ErrNotFound)
	ownerRepo.On("FindByID", mock.Anything, owner.ID).Return(owner, nil)
	userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	resp, err := service.Create(context.Background(), CreateUserRequest{
		Email:    "kwame@example.com",
		Name:     "Kwame Asante",
		Password: "owner-pass-123",
		Role:     "OWNER",
		OwnerID:  &owner.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, "OWNER", resp.Role)
	require.NotNil(t, resp.OwnerID)
	assert.Equal(t, owner.ID, *resp.OwnerID)
}

func TestUserServiceCreateDuplicateEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := NewUserService(userRepo, new(MockOwnerRepository))

	existing := testUser(t)
	userRepo.On("FindByEmail", mock.Anything, "manager@example.com").Return(existing, nil)

	_, err := service.Create(context.Background(), CreateUserRequest{
		Email:    "manager@example.com",
		Name:     "Other",
		Password: "password-123",
		Role:     "MANAGER",
	})
	var dErr *shared.DomainError
	require.ErrorAs(t, err, &dErr)
	assert.Equal(t, "ALREADY_EXISTS", dErr.Code)
}

func TestUserServiceDeactivateBlocksLogin(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := NewUserService(userRepo, new(MockOwnerRepository))

	user := testUser(t)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Save", mock.Anything, user).Return(nil)

	resp, err := service.Deactivate(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, resp.Active)
	assert.False(t, user.CanLogin())
}
