package auth

import (
	"context"
	"testing"
	"time"

	"functionhall/internal/domain"
	"functionhall/internal/pkg/apperr"
	"functionhall/internal/pkg/jwt"
	"functionhall/internal/repository"
	"functionhall/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockVendorRepo struct {
	mock.Mock
}

func (m *mockVendorRepo) Create(ctx context.Context, v *domain.Vendor) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *mockVendorRepo) GetByID(ctx context.Context, id int64) (*domain.Vendor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vendor), args.Error(1)
}

func (m *mockVendorRepo) GetByEmail(ctx context.Context, email string) (*domain.Vendor, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vendor), args.Error(1)
}

func newDBService(t *testing.T) (*Service, *jwt.Service) {
	t.Helper()
	db := testutil.NewDB(t)
	j := jwt.New("secret", time.Hour)
	svc := NewService(repository.NewVendorRepository(db), repository.NewCustomerRepository(db), j)
	svc.cost = bcrypt.MinCost
	return svc, j
}

func TestRegisterVendor_StartsUnapproved(t *testing.T) {
	svc, j := newDBService(t)
	ctx := context.Background()

	v, err := svc.RegisterVendor(ctx, RegisterVendorRequest{
		Name: "Ravi", Email: " Ravi@Example.com ", Phone: "098661 68995", Password: "password1", BusinessName: "Ravi Halls",
	})
	require.NoError(t, err)
	assert.False(t, v.IsApproved)
	assert.Equal(t, domain.RoleVendor, v.Role)
	assert.Equal(t, "ravi@example.com", v.Email)
	assert.Equal(t, "+919866168995", v.Phone)
	assert.NotEqual(t, "password1", v.PasswordHash)

	res, err := svc.LoginVendor(ctx, LoginRequest{Email: "RAVI@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleVendor, res.Role)
	assert.Equal(t, int64(3600), res.ExpiresIn)

	claims, err := j.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, v.ID, claims.UserID)
	assert.Equal(t, "vendor", claims.Role)

	_, err = svc.RegisterVendor(ctx, RegisterVendorRequest{
		Name: "Other", Email: "ravi@example.com", Phone: "1", Password: "password2", BusinessName: "X",
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestLoginVendor_WrongPassword(t *testing.T) {
	svc, _ := newDBService(t)
	ctx := context.Background()
	_, err := svc.RegisterVendor(ctx, RegisterVendorRequest{
		Name: "Ravi", Email: "ravi@example.com", Phone: "1", Password: "password1", BusinessName: "Ravi Halls",
	})
	require.NoError(t, err)

	_, err = svc.LoginVendor(ctx, LoginRequest{Email: "ravi@example.com", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.LoginVendor(ctx, LoginRequest{Email: "ghost@example.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginCustomer_RequiresApproval(t *testing.T) {
	svc, _ := newDBService(t)
	ctx := context.Background()

	c, err := svc.RegisterCustomer(ctx, RegisterCustomerRequest{
		Name: "Anu", Email: "anu@example.com", Phone: "9000000001", Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalPending, c.ApprovalStatus)
	assert.False(t, c.IsApproved)

	_, err = svc.LoginCustomer(ctx, LoginRequest{Email: "anu@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperr.ErrAuthorization)
	assert.Contains(t, apperr.Message(err), "pending")

	_, err = svc.LoginCustomer(ctx, LoginRequest{Email: "anu@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateCustomerProfile_KeepsBlankFields(t *testing.T) {
	svc, _ := newDBService(t)
	ctx := context.Background()
	c, err := svc.RegisterCustomer(ctx, RegisterCustomerRequest{
		Name: "Anu", Email: "anu@example.com", Phone: "9000000001", Password: "secret1", Address: "Guntur",
	})
	require.NoError(t, err)

	got, err := svc.UpdateCustomerProfile(ctx, c.ID, UpdateProfileRequest{Phone: "09000000002"})
	require.NoError(t, err)
	assert.Equal(t, "Anu", got.Name)
	assert.Equal(t, "+919000000002", got.Phone)
	assert.Equal(t, "Guntur", got.Address)

	_, err = svc.UpdateCustomerProfile(ctx, 9999, UpdateProfileRequest{Name: "X"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestLoginVendor_RepositoryErrorPassesThrough(t *testing.T) {
	vendors := &mockVendorRepo{}
	boom := assert.AnError
	vendors.On("GetByEmail", mock.Anything, "a@example.com").Return(nil, boom)

	svc := NewService(vendors, nil, jwt.New("secret", time.Hour))
	_, err := svc.LoginVendor(context.Background(), LoginRequest{Email: "a@example.com", Password: "x"})
	assert.ErrorIs(t, err, boom)
	vendors.AssertExpectations(t)
}
