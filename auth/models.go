package auth

import (
	"time"

	"github.com/uptrace/bun"
)

// RoleName is a role's well known name
type RoleName = string

const (
	// RoleUser is the base role every account holds at minimum
	RoleUser RoleName = "ROLE_USER"
	// RoleModerator can review and annotate maintenance records
	RoleModerator RoleName = "ROLE_MODERATOR"
	// RoleAdmin manages accounts, maintenance companies, and units
	RoleAdmin RoleName = "ROLE_ADMIN"
)

// IsValidRole checks if the name is one of the predefined roles
func IsValidRole(name RoleName) bool {
	switch name {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	default:
		return false
	}
}

// AllRoles returns the closed role set in ascending privilege order
func AllRoles() []RoleName {
	return []RoleName{RoleUser, RoleModerator, RoleAdmin}
}

// ParseRoleToken maps a sign-up role token ("admin", "mod", ...) onto the
// closed role enum. Unrecognized tokens deliberately fall back to the base
// user role instead of erroring; the deployed product is permissive here.
func ParseRoleToken(token string) RoleName {
	switch token {
	case "admin":
		return RoleAdmin
	case "mod":
		return RoleModerator
	default:
		return RoleUser
	}
}

// Role is the persisted role model
type Role struct {
	bun.BaseModel `bun:"table:roles,alias:rol"`
	ID            int64    `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Name          RoleName `bun:"name,notnull,unique" json:"name,omitempty"`
	Description   string   `bun:"description" json:"description,omitempty"`
}

// User is the user model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	FullName      string     `bun:"full_name" json:"full_name,omitempty"`
	Nickname      string     `bun:"nickname" json:"nickname,omitempty"`
	Avatar        string     `bun:"avatar" json:"avatar,omitempty"`
	Phone         string     `bun:"phone" json:"phone,omitempty"`
	Address       string     `bun:"address" json:"address,omitempty"`
	Bio           string     `bun:"bio" json:"bio,omitempty"`
	Roles         []*Role    `bun:"m2m:user_roles,join:User=Role" json:"roles,omitempty"`
	LastLogin     *time.Time `bun:"last_login,nullzero" json:"last_login,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// RoleNames returns the user's role names in stored order
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		if r != nil {
			names = append(names, r.Name)
		}
	}
	return names
}

// HasRole checks a role by name
func (u *User) HasRole(name RoleName) bool {
	for _, r := range u.Roles {
		if r != nil && r.Name == name {
			return true
		}
	}
	return false
}

// UserRole is the users<->roles join model
type UserRole struct {
	bun.BaseModel `bun:"table:user_roles,alias:url"`
	UserID        int64 `bun:"user_id,pk" json:"user_id"`
	User          *User `bun:"rel:belongs-to,join:user_id=id" json:"-"`
	RoleID        int64 `bun:"role_id,pk" json:"role_id"`
	Role          *Role `bun:"rel:belongs-to,join:role_id=id" json:"-"`
}

type authIdentity struct {
	id       int64
	username string
	email    string
	fullName string
	nickname string
	avatar   string
	roles    []string
}

var _ Identity = authIdentity{}

// NewIdentity builds the immutable per-request view of a stored user.
func NewIdentity(user *User) Identity {
	return authIdentity{
		id:       user.ID,
		username: user.Username,
		email:    user.Email,
		fullName: user.FullName,
		nickname: user.Nickname,
		avatar:   user.Avatar,
		roles:    user.RoleNames(),
	}
}

func (a authIdentity) ID() int64        { return a.id }
func (a authIdentity) Username() string { return a.username }
func (a authIdentity) Email() string    { return a.email }
func (a authIdentity) FullName() string { return a.fullName }
func (a authIdentity) Nickname() string { return a.nickname }
func (a authIdentity) Avatar() string   { return a.avatar }

func (a authIdentity) Roles() []string {
	roles := make([]string, len(a.roles))
	copy(roles, a.roles)
	return roles
}
