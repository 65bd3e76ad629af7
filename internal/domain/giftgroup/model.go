package giftgroup

import (
	"time"

	"github.com/shopspring/decimal"
)

type Group struct {
	ID       string `gorm:"type:uuid;primaryKey"`
	FamilyID string `gorm:"type:uuid;not null;index"`

	Name         string     `gorm:"size:255;not null"`
	Description  *string    `gorm:"type:text"`
	Occasion     *string    `gorm:"size:100"`
	OccasionDate *time.Time
	TargetUserID *string `gorm:"type:uuid"`

	TargetAmount  *decimal.Decimal `gorm:"type:numeric(10,2)"`
	CurrentAmount decimal.Decimal  `gorm:"type:numeric(10,2);not null;default:0"`

	IsActive  bool      `gorm:"not null;default:true"`
	CreatedBy string    `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// ProgressPercentage is floor(100 * current / target). A missing or zero
// target reports 0; overshooting the target legitimately exceeds 100.
func (g *Group) ProgressPercentage() int {
	if g.TargetAmount == nil || g.TargetAmount.IsZero() {
		return 0
	}
	return int(g.CurrentAmount.Mul(decimal.NewFromInt(100)).Div(*g.TargetAmount).IntPart())
}

type GroupMember struct {
	ID      string `gorm:"type:uuid;primaryKey"`
	GroupID string `gorm:"type:uuid;not null;uniqueIndex:idx_group_member"`
	UserID  string `gorm:"type:uuid;not null;uniqueIndex:idx_group_member"`

	ContributionAmount decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	HasPaid            bool            `gorm:"not null;default:false"`
	LastReadAt         *time.Time
	JoinedAt           time.Time `gorm:"autoCreateTime"`

	Group Group `gorm:"foreignKey:GroupID;references:ID;constraint:OnDelete:CASCADE"`
}

type Message struct {
	ID      string `gorm:"type:uuid;primaryKey"`
	GroupID string `gorm:"type:uuid;not null;index"`
	UserID  string `gorm:"type:uuid;not null;index"`

	Content       string  `gorm:"type:text;not null"`
	AttachmentURL *string `gorm:"size:500"`
	IsEdited      bool    `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Group Group `gorm:"foreignKey:GroupID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Group) TableName() string { return "gift_groups" }

func (GroupMember) TableName() string { return "gift_group_members" }

func (Message) TableName() string { return "messages" }
