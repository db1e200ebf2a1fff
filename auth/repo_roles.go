package auth

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Roles is the role catalog store
type Roles interface {
	ByName(ctx context.Context, name RoleName) (*Role, error)
	List(ctx context.Context) ([]*Role, error)
	GetOrCreate(ctx context.Context, role *Role) (*Role, error)
	GetOrCreateTx(ctx context.Context, tx bun.IDB, role *Role) (*Role, error)
}

type roles struct {
	db *bun.DB
}

var _ Roles = (*roles)(nil)

// NewRolesRepository builds the bun backed Roles store
func NewRolesRepository(db *bun.DB) Roles {
	return &roles{db: db}
}

func (r *roles) ByName(ctx context.Context, name RoleName) (*Role, error) {
	record := &Role{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.name = ?", name).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve role")
	}
	return record, nil
}

func (r *roles) List(ctx context.Context) ([]*Role, error) {
	records := []*Role{}
	err := r.db.NewSelect().
		Model(&records).
		Order("rol.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list roles")
	}
	return records, nil
}

func (r *roles) GetOrCreate(ctx context.Context, role *Role) (*Role, error) {
	return r.GetOrCreateTx(ctx, r.db, role)
}

// GetOrCreateTx is used by the bootstrap seeding, idempotent by role name
func (r *roles) GetOrCreateTx(ctx context.Context, tx bun.IDB, role *Role) (*Role, error) {
	record := &Role{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.name = ?", role.Name).
		Limit(1).
		Scan(ctx)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve role")
	}

	if _, err := tx.NewInsert().Model(role).Exec(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create role")
	}
	return role, nil
}
