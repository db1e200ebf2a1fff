package main

import (
	"context"
	_ "embed"
	"encoding/json"

	"github.com/goliatone/go-errors"

	"github.com/coderhythm/garden-admin/auth"
	"github.com/coderhythm/garden-admin/maintenance"
)

//go:embed data/maintenance-companies.json
var companySeed []byte

type seedUser struct {
	Username string
	Email    string
	Password string
	FullName string
	Phone    string
	Address  string
	Bio      string
	Role     auth.RoleName
}

// SeedData loads the role catalog, the default accounts and the sample
// company records. Every step is idempotent: existing rows are left alone,
// so it runs on every boot.
func SeedData(ctx context.Context, app *App) error {
	if err := seedRoles(ctx, app); err != nil {
		return err
	}
	if err := seedUsers(ctx, app); err != nil {
		return err
	}
	return seedCompanies(ctx, app)
}

func seedRoles(ctx context.Context, app *App) error {
	catalog := []*auth.Role{
		{Name: auth.RoleUser, Description: "Regular user role"},
		{Name: auth.RoleModerator, Description: "Moderator role"},
		{Name: auth.RoleAdmin, Description: "Administrator role"},
	}

	for _, role := range catalog {
		if _, err := app.repo.Roles().GetOrCreate(ctx, role); err != nil {
			return err
		}
	}
	return nil
}

func seedUsers(ctx context.Context, app *App) error {
	accounts := []seedUser{
		{
			Username: "admin",
			Email:    "admin@coderhythm.cn",
			Password: "Admin@123",
			FullName: "System Administrator",
			Role:     auth.RoleAdmin,
		},
		{
			Username: "demo",
			Email:    "demo@coderhythm.cn",
			Password: "Demo@123",
			FullName: "Demo User",
			Phone:    "13800138000",
			Address:  "Chaoyang District, Beijing",
			Bio:      "This is a demo account",
			Role:     auth.RoleUser,
		},
	}

	for _, account := range accounts {
		exists, err := app.repo.Users().ExistsByUsername(ctx, account.Username)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		hash, err := auth.HashPassword(account.Password)
		if err != nil {
			return err
		}

		role, err := app.repo.Roles().ByName(ctx, account.Role)
		if err != nil {
			return err
		}

		user := &auth.User{
			Username:     account.Username,
			Email:        account.Email,
			PasswordHash: hash,
			FullName:     account.FullName,
			Phone:        account.Phone,
			Address:      account.Address,
			Bio:          account.Bio,
		}

		if _, err := app.repo.Users().Register(ctx, user, []*auth.Role{role}); err != nil {
			return err
		}

		app.GetLogger("seed").Info("created account", "username", account.Username)
	}

	return nil
}

// seedCompanies imports the sample company records on an empty table only;
// operators own the data after that.
func seedCompanies(ctx context.Context, app *App) error {
	existing, err := app.companies.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	records := []*maintenance.Company{}
	if err := json.Unmarshal(companySeed, &records); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to parse company seed data")
	}

	for _, record := range records {
		record.ID = 0
		if _, err := app.companies.Create(ctx, record); err != nil {
			return err
		}
	}

	app.GetLogger("seed").Info("imported sample companies", "count", len(records))

	return nil
}
