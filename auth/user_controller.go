package auth

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// AvatarStore persists uploaded avatar images and reports the public path
// they are served under
type AvatarStore interface {
	SaveDataURL(dataURL string) (string, error)
	Remove(publicPath string) error
}

// RegisterUserRoutes mounts the account administration and profile
// endpoints. Authorization is the access policy's job; these handlers
// assume it already ran.
func RegisterUserRoutes[T any](app router.Router[T], opts ...UserControllerOption) {
	controller := NewUserController(opts...)

	app.Get("/users", controller.List).SetName("users.list")
	app.Get("/users/:id", controller.Show).SetName("users.show")
	app.Delete("/users/:id", controller.Delete).SetName("users.delete")

	app.Get("/profile", controller.Profile).SetName("profile.show")
	app.Put("/profile", controller.ProfileUpdate).SetName("profile.update")
	app.Put("/profile/password", controller.PasswordUpdate).SetName("profile.password")
	app.Post("/profile/avatar", controller.AvatarUpdate).SetName("profile.avatar")
}

type UserController struct {
	Logger     Logger
	Repo       RepositoryManager
	Avatars    AvatarStore
	Hasher     PasswordAuthenticator
	ContextKey string
}

type UserControllerOption func(*UserController) *UserController

func NewUserController(opts ...UserControllerOption) *UserController {
	c := &UserController{
		Logger:     defLogger{},
		Hasher:     NewPasswordAuthenticator(),
		ContextKey: DefaultContextKey,
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in user controller...")
	}

	return c
}

// WithUserRepo sets the account store backing the controller
func WithUserRepo(repo RepositoryManager) UserControllerOption {
	return func(c *UserController) *UserController {
		c.Repo = repo
		return c
	}
}

// WithAvatarStore enables avatar uploads
func WithAvatarStore(store AvatarStore) UserControllerOption {
	return func(c *UserController) *UserController {
		c.Avatars = store
		return c
	}
}

// WithUserLogger sets the controller logger
func WithUserLogger(logger Logger) UserControllerOption {
	return func(c *UserController) *UserController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// UserResponse is the account projection answered by the admin and
// profile endpoints. The password hash never leaves the data layer.
type UserResponse struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FullName  string   `json:"fullName"`
	Nickname  string   `json:"nickname"`
	Avatar    string   `json:"avatar"`
	Phone     string   `json:"phone"`
	Address   string   `json:"address"`
	Bio       string   `json:"bio"`
	Roles     []string `json:"roles"`
	LastLogin string   `json:"lastLogin,omitempty"`
}

func toUserResponse(user *User) UserResponse {
	resp := UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		Nickname: user.Nickname,
		Avatar:   user.Avatar,
		Phone:    user.Phone,
		Address:  user.Address,
		Bio:      user.Bio,
		Roles:    user.RoleNames(),
	}
	if user.LastLogin != nil {
		resp.LastLogin = user.LastLogin.UTC().Format("2006-01-02T15:04:05Z")
	}
	return resp
}

// List answers every account
func (u *UserController) List(ctx router.Context) error {
	users, err := u.Repo.Users().List(ctx.Context())
	if err != nil {
		u.Logger.Error("users list error: %v", err)
		return RespondError(ctx, err)
	}

	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, toUserResponse(user))
	}

	return ctx.JSON(router.StatusOK, out)
}

// Show answers a single account by id
func (u *UserController) Show(ctx router.Context) error {
	id := ctx.ParamsInt("id", 0)
	if id <= 0 {
		return ctx.JSON(router.StatusBadRequest, MessageResponse{Message: "Error: Invalid user id"})
	}

	user, err := u.Repo.Users().GetByID(ctx.Context(), int64(id))
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return ctx.JSON(http.StatusNotFound, MessageResponse{Message: "Error: User is not found."})
		}
		u.Logger.Error("users show error: %v", err)
		return RespondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, toUserResponse(user))
}

// Delete removes an account and its role links
func (u *UserController) Delete(ctx router.Context) error {
	id := ctx.ParamsInt("id", 0)
	if id <= 0 {
		return ctx.JSON(router.StatusBadRequest, MessageResponse{Message: "Error: Invalid user id"})
	}

	if sctx, ok := SecurityFromRouter(ctx, u.ContextKey); ok {
		if sctx.Identity != nil && sctx.Identity.ID() == int64(id) {
			return ctx.JSON(router.StatusBadRequest, MessageResponse{Message: "Error: Cannot delete your own account"})
		}
	}

	if err := u.Repo.Users().Delete(ctx.Context(), int64(id)); err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return ctx.JSON(http.StatusNotFound, MessageResponse{Message: "Error: User is not found."})
		}
		u.Logger.Error("users delete error: %v", err)
		return RespondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, MessageResponse{Message: "User deleted successfully!"})
}

// Profile answers the signed-in account
func (u *UserController) Profile(ctx router.Context) error {
	user, err := u.currentUser(ctx)
	if err != nil {
		return RespondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, toUserResponse(user))
}

// ProfileUpdateRequest carries the editable profile fields
type ProfileUpdateRequest struct {
	Email    string `form:"email" json:"email"`
	FullName string `form:"fullName" json:"fullName"`
	Nickname string `form:"nickname" json:"nickname"`
	Phone    string `form:"phone" json:"phone"`
	Address  string `form:"address" json:"address"`
	Bio      string `form:"bio" json:"bio"`
}

// Validate will validate the payload
func (r ProfileUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.FullName, validation.Length(0, 200)),
		validation.Field(&r.Nickname, validation.Length(0, 60)),
		validation.Field(&r.Bio, validation.Length(0, 2000)),
	)
}

// ProfileUpdate edits the signed-in account's profile fields
func (u *UserController) ProfileUpdate(ctx router.Context) error {
	user, err := u.currentUser(ctx)
	if err != nil {
		return RespondError(ctx, err)
	}

	payload := new(ProfileUpdateRequest)
	if err := ctx.Bind(payload); err != nil {
		u.Logger.Error("profile update parse payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, MessageResponse{Message: "Error: Invalid request body"})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, MessageResponse{Message: err.Error()})
	}

	user.Email = payload.Email
	user.FullName = payload.FullName
	user.Nickname = payload.Nickname
	user.Phone = payload.Phone
	user.Address = payload.Address
	user.Bio = payload.Bio

	updated, err := u.Repo.Users().Update(ctx.Context(), user,
		"email", "full_name", "nickname", "phone", "address", "bio")
	if err != nil {
		u.Logger.Error("profile update error: %v", err)
		return RespondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, toUserResponse(updated))
}

// PasswordUpdateRequest carries a password change
type PasswordUpdateRequest struct {
	OldPassword string `form:"oldPassword" json:"oldPassword"`
	NewPassword string `form:"newPassword" json:"newPassword"`
}

// Validate will validate the payload
func (r PasswordUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OldPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(6, 40)),
	)
}

// PasswordUpdate changes the signed-in account's password after checking
// the current one
func (u *UserController) PasswordUpdate(ctx router.Context) error {
	user, err := u.currentUser(ctx)
	if err != nil {
		return RespondError(ctx, err)
	}

	payload := new(PasswordUpdateRequest)
	if err := ctx.Bind(payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, MessageResponse{Message: "Error: Invalid request body"})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, MessageResponse{Message: err.Error()})
	}

	if err := u.Hasher.ComparePasswordAndHash(payload.OldPassword, user.PasswordHash); err != nil {
		return ctx.JSON(router.StatusBadRequest, MessageResponse{Message: "Error: Current password is incorrect"})
	}

	hash, err := u.Hasher.HashPassword(payload.NewPassword)
	if err != nil {
		return RespondError(ctx, err)
	}

	if err := u.Repo.Users().UpdatePassword(ctx.Context(), user.ID, hash); err != nil {
		u.Logger.Error("password update error: %v", err)
		return RespondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, MessageResponse{Message: "Password updated successfully!"})
}

// AvatarUpdateRequest carries a base64 data URL upload
type AvatarUpdateRequest struct {
	Avatar string `form:"avatar" json:"avatar"`
}

// AvatarUpdate stores the uploaded image and points the profile at its
// public path. The previous stored avatar is removed best effort.
func (u *UserController) AvatarUpdate(ctx router.Context) error {
	if u.Avatars == nil {
		return ctx.JSON(router.StatusInternalServerError, MessageResponse{Message: "Error: Avatar storage is not configured"})
	}

	user, err := u.currentUser(ctx)
	if err != nil {
		return RespondError(ctx, err)
	}

	payload := new(AvatarUpdateRequest)
	if err := ctx.Bind(payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, MessageResponse{Message: "Error: Invalid request body"})
	}
	if payload.Avatar == "" {
		return ctx.JSON(router.StatusBadRequest, MessageResponse{Message: "Error: Missing avatar data"})
	}

	publicPath, err := u.Avatars.SaveDataURL(payload.Avatar)
	if err != nil {
		u.Logger.Error("avatar save error: %v", err)
		return RespondError(ctx, err)
	}

	previous := user.Avatar
	user.Avatar = publicPath

	updated, err := u.Repo.Users().Update(ctx.Context(), user, "avatar")
	if err != nil {
		u.Logger.Error("avatar update error: %v", err)
		return RespondError(ctx, err)
	}

	if previous != "" && previous != publicPath {
		if err := u.Avatars.Remove(previous); err != nil {
			u.Logger.Warn("failed to remove previous avatar %q: %v", previous, err)
		}
	}

	return ctx.JSON(router.StatusOK, toUserResponse(updated))
}

// currentUser resolves the signed-in account from the security context.
// The policy has already required authentication for these routes; a
// missing context here means a deployment wiring bug.
func (u *UserController) currentUser(ctx router.Context) (*User, error) {
	sctx, ok := SecurityFromRouter(ctx, u.ContextKey)
	if !ok || sctx.Identity == nil {
		return nil, ErrUnauthenticated
	}

	return u.Repo.Users().GetByUsername(ctx.Context(), sctx.Identity.Username())
}
