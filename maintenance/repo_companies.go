package maintenance

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Companies is the maintenance company store
type Companies interface {
	List(ctx context.Context) ([]*Company, error)
	GetByID(ctx context.Context, id int64) (*Company, error)
	SearchByName(ctx context.Context, fragment string) ([]*Company, error)
	ExistsByName(ctx context.Context, companyName string) (bool, error)
	Create(ctx context.Context, company *Company) (*Company, error)
	Update(ctx context.Context, company *Company, columns ...string) (*Company, error)
	Delete(ctx context.Context, id int64) error
}

type companies struct {
	db *bun.DB
}

var _ Companies = (*companies)(nil)

// NewCompaniesRepository builds the bun backed Companies store
func NewCompaniesRepository(db *bun.DB) Companies {
	return &companies{db: db}
}

func (r *companies) List(ctx context.Context) ([]*Company, error) {
	records := []*Company{}
	err := r.db.NewSelect().
		Model(&records).
		Order("mco.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list maintenance companies")
	}
	return records, nil
}

func (r *companies) GetByID(ctx context.Context, id int64) (*Company, error) {
	record := &Company{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve maintenance company")
	}
	return record, nil
}

// SearchByName matches company names containing the fragment. An empty
// fragment answers the full list, same as the list endpoint.
func (r *companies) SearchByName(ctx context.Context, fragment string) ([]*Company, error) {
	if fragment == "" {
		return r.List(ctx)
	}

	records := []*Company{}
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.company_name LIKE ?", "%"+fragment+"%").
		Order("mco.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to search maintenance companies")
	}
	return records, nil
}

func (r *companies) ExistsByName(ctx context.Context, companyName string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*Company)(nil)).
		Where("?TableAlias.company_name = ?", companyName).
		Exists(ctx)
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryInternal, "failed to check company name")
	}
	return exists, nil
}

func (r *companies) Create(ctx context.Context, company *Company) (*Company, error) {
	now := time.Now()
	company.CreatedAt = &now
	company.UpdatedAt = &now

	if _, err := r.db.NewInsert().Model(company).Exec(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create maintenance company")
	}
	return company, nil
}

// Update persists the given columns; with no columns it updates the full row
func (r *companies) Update(ctx context.Context, company *Company, columns ...string) (*Company, error) {
	now := time.Now()
	company.UpdatedAt = &now

	q := r.db.NewUpdate().
		Model(company).
		WherePK()

	if len(columns) > 0 {
		q.Column(append(columns, "updated_at")...)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update maintenance company")
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, ErrCompanyNotFound
	}

	return company, nil
}

func (r *companies) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().
		Model((*Company)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete maintenance company")
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrCompanyNotFound
	}
	return nil
}
