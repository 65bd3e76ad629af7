package family

import "time"

const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

type Family struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"size:255;not null"`
	InviteCode string    `gorm:"size:16;not null;uniqueIndex"`
	CreatedBy  string    `gorm:"type:uuid;not null;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

type Member struct {
	ID       string    `gorm:"type:uuid;primaryKey"`
	FamilyID string    `gorm:"type:uuid;not null;uniqueIndex:idx_family_member"`
	UserID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_family_member"`
	Role     string    `gorm:"type:varchar(16);not null"`
	JoinedAt time.Time `gorm:"autoCreateTime"`

	Family Family `gorm:"foreignKey:FamilyID;references:ID;constraint:OnDelete:CASCADE"`
}

// IsAdmin reports whether a membership carries the admin role. Role is a
// closed two-value set; anything unknown is treated as a plain member.
func IsAdmin(member *Member) bool {
	return member != nil && member.Role == RoleAdmin
}

// MemberDetail joins a membership row with the account it belongs to.
type MemberDetail struct {
	MemberID string
	UserID   string
	Role     string
	JoinedAt time.Time
	Email    string
	Name     *string
	ImageURL *string
}

func (Family) TableName() string { return "families" }

func (Member) TableName() string { return "family_members" }
