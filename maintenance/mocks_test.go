package maintenance_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/coderhythm/garden-admin/maintenance"
)

// MockCompanies implements maintenance.Companies
type MockCompanies struct {
	mock.Mock
}

func (m *MockCompanies) List(ctx context.Context) ([]*maintenance.Company, error) {
	args := m.Called(ctx)
	if records := args.Get(0); records != nil {
		return records.([]*maintenance.Company), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCompanies) GetByID(ctx context.Context, id int64) (*maintenance.Company, error) {
	args := m.Called(ctx, id)
	if record := args.Get(0); record != nil {
		return record.(*maintenance.Company), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCompanies) SearchByName(ctx context.Context, fragment string) ([]*maintenance.Company, error) {
	args := m.Called(ctx, fragment)
	if records := args.Get(0); records != nil {
		return records.([]*maintenance.Company), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCompanies) ExistsByName(ctx context.Context, companyName string) (bool, error) {
	args := m.Called(ctx, companyName)
	return args.Bool(0), args.Error(1)
}

func (m *MockCompanies) Create(ctx context.Context, company *maintenance.Company) (*maintenance.Company, error) {
	args := m.Called(ctx, company)
	if record := args.Get(0); record != nil {
		return record.(*maintenance.Company), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCompanies) Update(ctx context.Context, company *maintenance.Company, columns ...string) (*maintenance.Company, error) {
	args := m.Called(ctx, company, columns)
	if record := args.Get(0); record != nil {
		return record.(*maintenance.Company), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCompanies) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUnits implements maintenance.Units
type MockUnits struct {
	mock.Mock
}

func (m *MockUnits) List(ctx context.Context) ([]*maintenance.Unit, error) {
	args := m.Called(ctx)
	if records := args.Get(0); records != nil {
		return records.([]*maintenance.Unit), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUnits) GetByID(ctx context.Context, id int64) (*maintenance.Unit, error) {
	args := m.Called(ctx, id)
	if record := args.Get(0); record != nil {
		return record.(*maintenance.Unit), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUnits) Create(ctx context.Context, unit *maintenance.Unit) (*maintenance.Unit, error) {
	args := m.Called(ctx, unit)
	if record := args.Get(0); record != nil {
		return record.(*maintenance.Unit), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUnits) Update(ctx context.Context, unit *maintenance.Unit, columns ...string) (*maintenance.Unit, error) {
	args := m.Called(ctx, unit, columns)
	if record := args.Get(0); record != nil {
		return record.(*maintenance.Unit), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUnits) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
