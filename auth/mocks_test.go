package auth_test

import (
	"context"
	"database/sql"

	"github.com/coderhythm/garden-admin/auth"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// MockUsers implements auth.Users
type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) GetByID(ctx context.Context, id int64) (*auth.User, error) {
	args := m.Called(ctx, id)
	if user := args.Get(0); user != nil {
		return user.(*auth.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	args := m.Called(ctx, username)
	if user := args.Get(0); user != nil {
		return user.(*auth.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) List(ctx context.Context) ([]*auth.User, error) {
	args := m.Called(ctx)
	if users := args.Get(0); users != nil {
		return users.([]*auth.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUsers) Register(ctx context.Context, user *auth.User, roles []*auth.Role) (*auth.User, error) {
	args := m.Called(ctx, user, roles)
	if record := args.Get(0); record != nil {
		return record.(*auth.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) RegisterTx(ctx context.Context, tx bun.IDB, user *auth.User, roles []*auth.Role) (*auth.User, error) {
	args := m.Called(ctx, tx, user, roles)
	if record := args.Get(0); record != nil {
		return record.(*auth.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) Update(ctx context.Context, user *auth.User, columns ...string) (*auth.User, error) {
	args := m.Called(ctx, user, columns)
	if record := args.Get(0); record != nil {
		return record.(*auth.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUsers) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUsers) TrackSuccessfulLogin(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockRoles implements auth.Roles
type MockRoles struct {
	mock.Mock
}

func (m *MockRoles) ByName(ctx context.Context, name auth.RoleName) (*auth.Role, error) {
	args := m.Called(ctx, name)
	if role := args.Get(0); role != nil {
		return role.(*auth.Role), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRoles) List(ctx context.Context) ([]*auth.Role, error) {
	args := m.Called(ctx)
	if roles := args.Get(0); roles != nil {
		return roles.([]*auth.Role), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRoles) GetOrCreate(ctx context.Context, role *auth.Role) (*auth.Role, error) {
	args := m.Called(ctx, role)
	if record := args.Get(0); record != nil {
		return record.(*auth.Role), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRoles) GetOrCreateTx(ctx context.Context, tx bun.IDB, role *auth.Role) (*auth.Role, error) {
	args := m.Called(ctx, tx, role)
	if record := args.Get(0); record != nil {
		return record.(*auth.Role), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockRepositoryManager implements auth.RepositoryManager. RunInTx invokes
// the callback with a zero transaction; store calls inside are mocked.
type MockRepositoryManager struct {
	users *MockUsers
	roles *MockRoles
}

func NewMockRepositoryManager() *MockRepositoryManager {
	return &MockRepositoryManager{
		users: new(MockUsers),
		roles: new(MockRoles),
	}
}

func (m *MockRepositoryManager) Users() auth.Users { return m.users }
func (m *MockRepositoryManager) Roles() auth.Roles { return m.roles }

func (m *MockRepositoryManager) UsersMock() *MockUsers { return m.users }
func (m *MockRepositoryManager) RolesMock() *MockRoles { return m.roles }

func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

func (m *MockRepositoryManager) Validate() error { return nil }
func (m *MockRepositoryManager) MustValidate()   {}
