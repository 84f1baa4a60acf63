// Package roles classifies platform user roles into capability tiers.
// Role names are part of the backend contract; keep these stable.
package roles

// Tag is the closed set of role values the identity backend may return.
// The zero value means "no role" and fails every capability check.
type Tag string

const (
	Admin            Tag = "ADMIN"
	ProjectOwner     Tag = "PROJECT_OWNER"
	MarketingManager Tag = "MARKETING_MANAGER"
	MarketingStaff   Tag = "MARKETING_STAFF"
	Marketing        Tag = "MARKETING" // legacy manage-tier alias
	ReadOnly         Tag = "READ_ONLY"
	User             Tag = "USER"
)

// All lists every known role tag.
var All = []Tag{Admin, ProjectOwner, MarketingManager, MarketingStaff, Marketing, ReadOnly, User}

// Known reports whether role is a member of the closed role set.
func Known(role Tag) bool {
	for _, r := range All {
		if r == role {
			return true
		}
	}
	return false
}

// CanManage reports full read/write and approval authority.
func CanManage(role Tag) bool {
	switch role {
	case Admin, ProjectOwner, MarketingManager, Marketing:
		return true
	}
	return false
}

// CanWrite reports create/edit authority: every manage role plus staff.
func CanWrite(role Tag) bool {
	return CanManage(role) || role == MarketingStaff
}

// IsReadOnly reports roles with no write authority at all.
func IsReadOnly(role Tag) bool {
	return role == ReadOnly || role == User
}
