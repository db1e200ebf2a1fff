package auth

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Users is the credential and account store
type Users interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Register(ctx context.Context, user *User, roles []*Role) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User, roles []*Role) (*User, error)
	Update(ctx context.Context, user *User, columns ...string) (*User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

type users struct {
	db *bun.DB
}

var _ Users = (*users)(nil)

// NewUsersRepository builds the bun backed Users store
func NewUsersRepository(db *bun.DB) Users {
	return &users{db: db}
}

// GetByID loads the user with roles attached
func (a *users) GetByID(ctx context.Context, id int64) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Relation("Roles").
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapUserLookupError(err)
	}
	return record, nil
}

// GetByUsername loads the complete principal: roles and profile fields
// included. Authentication and per-request resolution both go through here.
func (a *users) GetByUsername(ctx context.Context, username string) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Relation("Roles").
		Where("?TableAlias.username = ?", username).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapUserLookupError(err)
	}
	return record, nil
}

func (a *users) List(ctx context.Context) ([]*User, error) {
	records := []*User{}
	err := a.db.NewSelect().
		Model(&records).
		Relation("Roles").
		Order("usr.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list users")
	}
	return records, nil
}

func (a *users) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	exists, err := a.db.NewSelect().
		Model((*User)(nil)).
		Where("?TableAlias.username = ?", username).
		Exists(ctx)
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryInternal, "failed to check username")
	}
	return exists, nil
}

func (a *users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	exists, err := a.db.NewSelect().
		Model((*User)(nil)).
		Where("?TableAlias.email = ?", email).
		Exists(ctx)
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryInternal, "failed to check email")
	}
	return exists, nil
}

func (a *users) Register(ctx context.Context, user *User, roles []*Role) (*User, error) {
	var created *User
	err := a.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		record, err := a.RegisterTx(ctx, tx, user, roles)
		if err != nil {
			return err
		}
		created = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// RegisterTx inserts the user row and its role links in the same transaction
func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User, roles []*Role) (*User, error) {
	if _, err := tx.NewInsert().Model(user).Exec(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create user")
	}

	links := make([]*UserRole, 0, len(roles))
	for _, role := range roles {
		if role == nil {
			continue
		}
		links = append(links, &UserRole{UserID: user.ID, RoleID: role.ID})
	}

	if len(links) > 0 {
		if _, err := tx.NewInsert().Model(&links).Exec(ctx); err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to assign roles")
		}
	}

	user.Roles = roles
	return user, nil
}

// Update persists the given columns; with no columns it updates the full row
func (a *users) Update(ctx context.Context, user *User, columns ...string) (*User, error) {
	now := time.Now()
	user.UpdatedAt = &now

	q := a.db.NewUpdate().
		Model(user).
		WherePK()

	if len(columns) > 0 {
		q.Column(append(columns, "updated_at")...)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update user")
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, ErrIdentityNotFound
	}

	return user, nil
}

func (a *users) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := a.db.NewUpdate().
		Model((*User)(nil)).
		Set("password_hash = ?", passwordHash).
		Set("updated_at = ?", time.Now()).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to update password")
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrIdentityNotFound
	}
	return nil
}

func (a *users) Delete(ctx context.Context, id int64) error {
	return a.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*UserRole)(nil)).
			Where("user_id = ?", id).
			Exec(ctx); err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to delete role links")
		}

		res, err := tx.NewDelete().
			Model((*User)(nil)).
			Where("?TableAlias.id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to delete user")
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return ErrIdentityNotFound
		}
		return nil
	})
}

// TrackSuccessfulLogin stamps last_login. Callers treat failures as
// non-fatal; a sign in never fails because this write did.
func (a *users) TrackSuccessfulLogin(ctx context.Context, user *User) error {
	loggedInAt := time.Now()
	_, err := a.db.NewUpdate().
		Model((*User)(nil)).
		Set("last_login = ?", loggedInAt).
		Where("?TableAlias.id = ?", user.ID).
		Exec(ctx)
	if err == nil {
		user.LastLogin = &loggedInAt
	}
	return err
}

func wrapUserLookupError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrIdentityNotFound
	}
	return errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user")
}
