package domain

// Role is the account role assigned by the backend.
type Role string

const (
	RoleSuperAdmin  Role = "super_admin"
	RoleCampusAdmin Role = "campus_admin"
	RoleCoach       Role = "coach"
	RoleStudent     Role = "student"
)

// Roles lists every known role in privilege order.
var Roles = []Role{RoleSuperAdmin, RoleCampusAdmin, RoleCoach, RoleStudent}

// ValidRole returns true if r is one of the known roles.
func ValidRole(r Role) bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Label returns a short human-readable name for the role.
func (r Role) Label() string {
	switch r {
	case RoleSuperAdmin:
		return "super admin"
	case RoleCampusAdmin:
		return "campus admin"
	case RoleCoach:
		return "coach"
	case RoleStudent:
		return "student"
	}
	return string(r)
}

// User is the canonical account record returned by /users/me and /auth/login.
type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	RealName  string    `json:"real_name"`
	Gender    string    `json:"gender,omitempty"`
	Age       *int      `json:"age,omitempty"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Role      Role      `json:"role"`
	CampusID  *int      `json:"campus_id,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	IDNumber  string    `json:"id_number,omitempty"`
	IsActive  int       `json:"is_active"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at,omitempty"`
}

// IsSuperAdmin reports whether the user administers the whole system.
func (u *User) IsSuperAdmin() bool { return u != nil && u.Role == RoleSuperAdmin }

// IsCampusAdmin reports whether the user administers a single campus.
func (u *User) IsCampusAdmin() bool { return u != nil && u.Role == RoleCampusAdmin }

// IsCoach reports whether the user is a coach.
func (u *User) IsCoach() bool { return u != nil && u.Role == RoleCoach }

// IsStudent reports whether the user is a student.
func (u *User) IsStudent() bool { return u != nil && u.Role == RoleStudent }

// IsAdmin reports whether the user is a super or campus admin.
func (u *User) IsAdmin() bool { return u.IsSuperAdmin() || u.IsCampusAdmin() }

// DisplayName prefers the real name and falls back to the username.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.RealName != "" {
		return u.RealName
	}
	return u.Username
}

// LoginForm is the payload for POST /auth/login.
type LoginForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterForm is the payload for the student and coach registration endpoints.
type RegisterForm struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	RealName  string `json:"real_name"`
	Gender    string `json:"gender,omitempty"`
	Age       *int   `json:"age,omitempty"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`
	CampusID  *int   `json:"campus_id,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	IDNumber  string `json:"id_number,omitempty"`
}

// UserUpdate is a partial profile update. Nil fields are left unchanged server-side.
type UserUpdate struct {
	RealName  *string `json:"real_name,omitempty"`
	Gender    *string `json:"gender,omitempty"`
	Age       *int    `json:"age,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	IDNumber  *string `json:"id_number,omitempty"`
}

// Empty reports whether the update carries no fields.
func (u UserUpdate) Empty() bool {
	return u.RealName == nil && u.Gender == nil && u.Age == nil && u.Phone == nil &&
		u.Email == nil && u.AvatarURL == nil && u.IDNumber == nil
}

// PasswordChange is the payload for POST /users/change-password.
type PasswordChange struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// AuthToken is the response of POST /auth/login.
type AuthToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// AdminUserUpdate is the payload admins use to edit another account.
type AdminUserUpdate struct {
	RealName *string `json:"real_name,omitempty"`
	Role     *Role   `json:"role,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
	Gender   *string `json:"gender,omitempty"`
	Age      *int    `json:"age,omitempty"`
}
