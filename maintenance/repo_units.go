package maintenance

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Units is the maintenance unit store
type Units interface {
	List(ctx context.Context) ([]*Unit, error)
	GetByID(ctx context.Context, id int64) (*Unit, error)
	Create(ctx context.Context, unit *Unit) (*Unit, error)
	Update(ctx context.Context, unit *Unit, columns ...string) (*Unit, error)
	Delete(ctx context.Context, id int64) error
}

type units struct {
	db *bun.DB
}

var _ Units = (*units)(nil)

// NewUnitsRepository builds the bun backed Units store
func NewUnitsRepository(db *bun.DB) Units {
	return &units{db: db}
}

func (r *units) List(ctx context.Context) ([]*Unit, error) {
	records := []*Unit{}
	err := r.db.NewSelect().
		Model(&records).
		Order("mun.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list maintenance units")
	}
	return records, nil
}

func (r *units) GetByID(ctx context.Context, id int64) (*Unit, error) {
	record := &Unit{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnitNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve maintenance unit")
	}
	return record, nil
}

func (r *units) Create(ctx context.Context, unit *Unit) (*Unit, error) {
	now := time.Now()
	unit.CreatedAt = &now
	unit.UpdatedAt = &now

	if _, err := r.db.NewInsert().Model(unit).Exec(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create maintenance unit")
	}
	return unit, nil
}

// Update persists the given columns; with no columns it updates the full row
func (r *units) Update(ctx context.Context, unit *Unit, columns ...string) (*Unit, error) {
	now := time.Now()
	unit.UpdatedAt = &now

	q := r.db.NewUpdate().
		Model(unit).
		WherePK()

	if len(columns) > 0 {
		q.Column(append(columns, "updated_at")...)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update maintenance unit")
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, ErrUnitNotFound
	}

	return unit, nil
}

func (r *units) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().
		Model((*Unit)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete maintenance unit")
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrUnitNotFound
	}
	return nil
}
