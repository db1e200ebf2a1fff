// Package config defines the application configuration tree loaded from
// config/app.json. Section getters satisfy the interfaces the subsystems
// consume, so wiring code never touches raw fields.
package config

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type BaseConfig struct {
	App         App         `json:"app" yaml:"app"`
	Server      Server      `json:"server" yaml:"server"`
	Auth        Auth        `json:"auth" yaml:"auth"`
	Persistence Persistence `json:"persistence" yaml:"persistence"`
	Uploads     Uploads     `json:"uploads" yaml:"uploads"`
}

func (c *BaseConfig) GetApp() *App {
	return &c.App
}

func (c *BaseConfig) GetServer() *Server {
	return &c.Server
}

func (c *BaseConfig) GetAuth() *Auth {
	return &c.Auth
}

func (c *BaseConfig) GetPersistence() *Persistence {
	return &c.Persistence
}

func (c *BaseConfig) GetUploads() *Uploads {
	return &c.Uploads
}

// Validate fails startup on a configuration the pipeline cannot run with
func (c *BaseConfig) Validate() error {
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}
	if err := c.Persistence.Validate(); err != nil {
		return fmt.Errorf("persistence config: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	return nil
}

type App struct {
	Name string `json:"name" yaml:"name"`
	Env  string `json:"env" yaml:"env"`
}

func (a App) GetName() string {
	return a.Name
}

func (a App) GetEnv() string {
	return a.Env
}

type Server struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

func (s Server) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// Address answers the host:port the HTTP server binds to
func (s Server) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Auth carries the token and middleware settings. It satisfies the
// auth.Config interface.
type Auth struct {
	SigningKey      string   `json:"signing_key" yaml:"signing_key"`
	TokenExpiration int      `json:"token_expiration" yaml:"token_expiration"`
	Issuer          string   `json:"issuer" yaml:"issuer"`
	ContextKey      string   `json:"context_key" yaml:"context_key"`
	AuthScheme      string   `json:"auth_scheme" yaml:"auth_scheme"`
	BypassPrefixes  []string `json:"bypass_prefixes" yaml:"bypass_prefixes"`
}

func (a Auth) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.SigningKey, validation.Required, validation.Length(16, 0)),
		validation.Field(&a.TokenExpiration, validation.Required, validation.Min(1)),
	)
}

func (a Auth) GetSigningKey() string {
	return a.SigningKey
}

// GetTokenExpiration answers the token TTL in hours
func (a Auth) GetTokenExpiration() int {
	return a.TokenExpiration
}

func (a Auth) GetIssuer() string {
	return a.Issuer
}

func (a Auth) GetContextKey() string {
	return a.ContextKey
}

func (a Auth) GetAuthScheme() string {
	return a.AuthScheme
}

func (a Auth) GetBypassPrefixes() []string {
	return a.BypassPrefixes
}

type Persistence struct {
	Driver                string `json:"driver" yaml:"driver"`
	DSN                   string `json:"dsn" yaml:"dsn"`
	Debug                 bool   `json:"debug" yaml:"debug"`
	PingTimeoutExpression string `json:"ping_timeout" yaml:"ping_timeout"`
}

func (p Persistence) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.DSN, validation.Required),
	)
}

func (p Persistence) GetDriver() string {
	return p.Driver
}

func (p Persistence) GetDSN() string {
	return p.DSN
}

func (p Persistence) GetDebug() bool {
	return p.Debug
}

func (p Persistence) GetPingTimeout() time.Duration {
	dur, err := time.ParseDuration(p.PingTimeoutExpression)
	if err != nil {
		panic(
			fmt.Sprintf("unable to parse time: expr %s", p.PingTimeoutExpression),
		)
	}
	return dur
}

type Uploads struct {
	Dir string `json:"dir" yaml:"dir"`
}

func (u Uploads) GetDir() string {
	return u.Dir
}
