package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/coderhythm/garden-admin/auth"
	"github.com/coderhythm/garden-admin/config"
	"github.com/coderhythm/garden-admin/maintenance"
	"github.com/coderhythm/garden-admin/storage"
)

type App struct {
	config    *gconfig.Container[*config.BaseConfig]
	bunDB     *bun.DB
	repo      auth.RepositoryManager
	companies maintenance.Companies
	units     maintenance.Units
	avatars   *storage.FileStore
	auther    *auth.Auther
	srv       router.Server[*fiber.App]
	logger    *glog.BaseLogger
}

func (a *App) Config() *config.BaseConfig {
	return a.config.Raw()
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Debug),
		glog.WithName("garden-admin"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&config.BaseConfig{}).
		WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	if err := cfg.Raw().Validate(); err != nil {
		panic(err)
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if app.Config().GetApp().GetEnv() == "development" {
		fmt.Println(print.MaybeHighlightJSON(cfg.Raw()))
	}

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	if err := SeedData(ctx, app); err != nil {
		panic(err)
	}

	if err := WithHTTPServer(ctx, app); err != nil {
		panic(err)
	}

	if err := WithAuth(ctx, app); err != nil {
		panic(err)
	}

	RegisterRoutes(app)

	app.srv.Serve(app.Config().GetServer().Address())

	WaitExitSignal()
}

func WithPersistence(ctx context.Context, app *App) error {
	db, err := sql.Open(sqliteshim.ShimName, app.Config().GetPersistence().GetDSN())
	if err != nil {
		log.Fatal(err)
		return err
	}

	persistence.RegisterModel((*auth.User)(nil))
	persistence.RegisterModel((*auth.Role)(nil))
	persistence.RegisterModel((*auth.UserRole)(nil))
	persistence.RegisterModel((*maintenance.Company)(nil))
	persistence.RegisterModel((*maintenance.Unit)(nil))

	client, err := persistence.New(app.Config().GetPersistence(), db, sqlitedialect.New())
	if err != nil {
		log.Fatal(err)
		return err
	}

	client.SetLogger(app.GetLogger("persistence"))

	if err := CreateSchema(ctx, client.DB()); err != nil {
		return err
	}

	app.bunDB = client.DB()
	app.repo = auth.NewRepositoryManager(client.DB())
	app.companies = maintenance.NewCompaniesRepository(client.DB())
	app.units = maintenance.NewUnitsRepository(client.DB())

	return app.repo.Validate()
}

// CreateSchema creates the tables on first boot. Subsequent boots are a
// no-op; schema changes go through a migration, not this.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*auth.User)(nil),
		(*auth.Role)(nil),
		(*auth.UserRole)(nil),
		(*maintenance.Company)(nil),
		(*maintenance.Unit)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to create schema")
		}
	}

	return nil
}

func WithHTTPServer(ctx context.Context, app *App) error {
	uploads := app.Config().GetUploads().GetDir()

	avatars, err := storage.NewFileStore(uploads,
		storage.WithStorageLogger(printfLogger{app.GetLogger("storage")}),
	)
	if err != nil {
		return err
	}
	app.avatars = avatars

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		fiberApp := router.DefaultFiberOptions(fiber.New(fiber.Config{
			AppName:       app.Config().GetApp().GetName(),
			StrictRouting: false,
		}))

		fiberApp.Use(cors.New(cors.Config{
			AllowOriginsFunc: func(origin string) bool { return true },
			AllowCredentials: true,
			AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
			AllowHeaders:     "Authorization, Content-Type, X-Requested-With, Accept",
			ExposeHeaders:    "Authorization",
			MaxAge:           3600,
		}))

		return fiberApp
	})

	srv.Router().WithLogger(app.GetLogger("router"))

	app.srv = srv

	return nil
}

func WithAuth(ctx context.Context, app *App) error {
	acfg := app.Config().GetAuth()

	provider := auth.NewUserProvider(app.repo.Users()).
		WithLogger(printfLogger{app.GetLogger("auth:prv")})

	app.auther = auth.NewAuthenticator(provider, app.repo, acfg).
		WithLogger(printfLogger{app.GetLogger("auth:authn")})

	r := app.srv.Router()

	r.Use(auth.NewRequestAuthenticator(auth.MiddlewareConfig{
		TokenService:     app.auther.TokenService(),
		IdentityProvider: provider,
		ContextKey:       acfg.GetContextKey(),
		AuthScheme:       acfg.GetAuthScheme(),
		BypassPrefixes:   acfg.GetBypassPrefixes(),
		Logger:           printfLogger{app.GetLogger("auth:mw")},
	}))

	policy := auth.MustAccessPolicy(AccessRules()...)
	r.Use(policy.Middleware(acfg.GetContextKey()))

	return nil
}

// AccessRules is the deployed rule table. First match wins; anything no
// rule claims requires an authenticated caller.
func AccessRules() []auth.AccessRule {
	return []auth.AccessRule{
		auth.Public("/auth/**"),
		auth.Public("/avatars/**"),
		auth.Public("/test/**"),
		auth.Public("/resources/**"),

		auth.RequireRoles("", "/users/**", auth.RoleAdmin),

		auth.RequireRoles("POST", "/maintenance-companies/**", auth.RoleAdmin),
		auth.RequireRoles("PUT", "/maintenance-companies/**", auth.RoleAdmin),
		auth.RequireRoles("DELETE", "/maintenance-companies/**", auth.RoleAdmin),
		auth.Authenticated("/maintenance-companies/**"),

		auth.RequireRoles("POST", "/maintenance-units/**", auth.RoleAdmin),
		auth.RequireRoles("PUT", "/maintenance-units/**", auth.RoleAdmin),
		auth.RequireRoles("DELETE", "/maintenance-units/**", auth.RoleAdmin),
		auth.Authenticated("/maintenance-units/**"),

		auth.Authenticated("/profile/**"),
	}
}

func RegisterRoutes(app *App) {
	r := app.srv.Router()

	auth.RegisterAuthRoutes(r,
		auth.WithAuther(app.auther),
		auth.WithAuthLogger(printfLogger{app.GetLogger("auth:ctrl")}),
	)

	auth.RegisterUserRoutes(r,
		auth.WithUserRepo(app.repo),
		auth.WithAvatarStore(app.avatars),
		auth.WithUserLogger(printfLogger{app.GetLogger("users:ctrl")}),
	)

	maintenance.RegisterCompanyRoutes(r,
		maintenance.WithCompanies(app.companies),
		maintenance.WithCompanyLogger(printfLogger{app.GetLogger("companies:ctrl")}),
	)

	maintenance.RegisterUnitRoutes(r,
		maintenance.WithUnits(app.units),
		maintenance.WithUnitLogger(printfLogger{app.GetLogger("units:ctrl")}),
	)

	r.Get("/avatars/:filename", app.avatars.ServeHandler()).SetName("avatars.show")

	r.Get("/test/health", func(ctx router.Context) error {
		return ctx.JSON(router.StatusOK, auth.MessageResponse{Message: "ok"})
	}).SetName("health")
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}

// printfLogger adapts the structured app logger to the printf style the
// package loggers expect.
type printfLogger struct {
	log glog.Logger
}

func (p printfLogger) Debug(format string, args ...any) {
	p.log.Debug(fmt.Sprintf(format, args...))
}

func (p printfLogger) Info(format string, args ...any) {
	p.log.Info(fmt.Sprintf(format, args...))
}

func (p printfLogger) Warn(format string, args ...any) {
	p.log.Warn(fmt.Sprintf(format, args...))
}

func (p printfLogger) Error(format string, args ...any) {
	p.log.Error(fmt.Sprintf(format, args...))
}
