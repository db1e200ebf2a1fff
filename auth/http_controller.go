package auth

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RegisterAuthRoutes mounts the sign in and sign up endpoints
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {
	controller := NewAuthController(opts...)

	app.Get(controller.Routes.Test, controller.Test).
		SetName("auth.test")

	app.Post(controller.Routes.Signin, controller.Signin).
		SetName("auth.signin")

	app.Post(controller.Routes.Signup, controller.Signup).
		SetName("auth.signup")
}

type AuthControllerRoutes struct {
	Test   string
	Signin string
	Signup string
}

type AuthController struct {
	Debug  bool
	Logger Logger
	Routes *AuthControllerRoutes
	Auther Authenticator
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Test:   "/auth/test",
			Signin: "/auth/signin",
			Signup: "/auth/signup",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

// WithAuther sets the Authenticator backing the controller
func WithAuther(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

// WithAuthLogger sets the controller logger
func WithAuthLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// WithAuthDebug toggles payload dumps on the sign in and sign up handlers
func WithAuthDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

// Test is an unauthenticated liveness endpoint
func (a *AuthController) Test(ctx router.Context) error {
	return ctx.JSON(router.StatusOK, MessageResponse{Message: "auth resources are working"})
}

// LoginRequest payload
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// JwtResponse is the sign in response body
type JwtResponse struct {
	Token    string   `json:"token"`
	Type     string   `json:"type"`
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
	Nickname string   `json:"nickname"`
	Avatar   string   `json:"avatar"`
	Roles    []string `json:"roles"`
}

// MessageResponse is the generic single-message body
type MessageResponse struct {
	Message string `json:"message"`
}

// Signin authenticates the credentials and answers a bearer token with the
// signed-in profile
func (a *AuthController) Signin(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("signin parse payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, MessageResponse{Message: "Error: Invalid request body"})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, MessageResponse{Message: err.Error()})
	}

	if a.Debug {
		a.Logger.Debug("signin payload: %s", print.MaybePrettyJSON(payload))
	}

	token, identity, err := a.Auther.Login(ctx.Context(), payload.Username, payload.Password)
	if err != nil {
		a.Logger.Warn("signin rejected for %q: %v", payload.Username, err)
		return a.respondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, JwtResponse{
		Token:    token,
		Type:     "Bearer",
		ID:       identity.ID(),
		Username: identity.Username(),
		Email:    identity.Email(),
		FullName: identity.FullName(),
		Nickname: identity.Nickname(),
		Avatar:   identity.Avatar(),
		Roles:    identity.Roles(),
	})
}

// SignupRequest payload
type SignupRequest struct {
	Username string   `form:"username" json:"username"`
	Email    string   `form:"email" json:"email"`
	Password string   `form:"password" json:"password"`
	FullName string   `form:"fullName" json:"fullName"`
	Phone    string   `form:"phone" json:"phone"`
	Address  string   `form:"address" json:"address"`
	Roles    []string `form:"roles" json:"roles"`
}

// Validate will validate the payload
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 20)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 50), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 40)),
	)
}

// Signup registers a new account
func (a *AuthController) Signup(ctx router.Context) error {
	payload := new(SignupRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("signup parse payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, MessageResponse{Message: "Error: Invalid request body"})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, MessageResponse{Message: err.Error()})
	}

	_, err := a.Auther.Register(ctx.Context(), Registration{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
		FullName: payload.FullName,
		Phone:    payload.Phone,
		Address:  payload.Address,
		Roles:    payload.Roles,
	})
	if err != nil {
		a.Logger.Warn("signup rejected for %q: %v", payload.Username, err)
		return a.respondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, MessageResponse{Message: "User registered successfully!"})
}

func (a *AuthController) respondError(ctx router.Context, err error) error {
	return RespondError(ctx, err)
}

// RespondError maps rich errors onto HTTP statuses with a {message} body.
// Unrecognized errors answer a generic 500 without leaking internals.
func RespondError(ctx router.Context, err error) error {
	var rich *errors.Error
	if errors.As(err, &rich) && rich.Code != 0 {
		return ctx.JSON(rich.Code, MessageResponse{Message: rich.Message})
	}

	return ctx.JSON(http.StatusInternalServerError, MessageResponse{Message: "Error: Internal server error"})
}
