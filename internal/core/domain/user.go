package domain

// Role is the single workflow role an actor holds.
type Role string

const (
	RoleStaff          Role = "STAFF"
	RoleApproverLevel1 Role = "APPROVER_LEVEL_1"
	RoleApproverLevel2 Role = "APPROVER_LEVEL_2"
	RoleFinance        Role = "FINANCE"
	RoleAdmin          Role = "ADMIN"
)

// roleByLevel maps each sequential approval level to the role that decides it.
// Levels are strictly 1 before 2; there is no skip or parallel approval.
var roleByLevel = map[int]Role{
	1: RoleApproverLevel1,
	2: RoleApproverLevel2,
}

// MaxApprovalLevel is the final approval level, derived from the level map
// so that adding a level never leaves a stale literal behind.
var MaxApprovalLevel = len(roleByLevel)

// RoleForLevel returns the approver role required at the given level.
func RoleForLevel(level int) (Role, bool) {
	role, ok := roleByLevel[level]
	return role, ok
}

// IsApprover reports whether the role decides at any level.
func (r Role) IsApprover() bool {
	for _, role := range roleByLevel {
		if r == role {
			return true
		}
	}
	return false
}

// User represents an authenticated user of the application.
type User struct {
	UserID       string `json:"userID"` // Primary key (UUID)
	Username     string `json:"username"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	PasswordHash string `json:"-"`
	AuditFields
}

// Actor is the identity + role pair every core operation receives.
// The core never looks identities up itself.
type Actor struct {
	UserID string
	Role   Role
}

// Actor returns the user's identity/role pair.
func (u *User) Actor() Actor {
	return Actor{UserID: u.UserID, Role: u.Role}
}
