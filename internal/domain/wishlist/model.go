package wishlist

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

type Item struct {
	ID       string `gorm:"type:uuid;primaryKey"`
	UserID   string `gorm:"type:uuid;not null;index"`
	FamilyID string `gorm:"type:uuid;not null;index"`

	Title       string           `gorm:"size:255;not null"`
	Description *string          `gorm:"type:text"`
	URL         *string          `gorm:"size:500"`
	Price       *decimal.Decimal `gorm:"type:numeric(10,2)"`
	ImageURL    *string          `gorm:"size:500"`
	Priority    string           `gorm:"type:varchar(16);not null;default:MEDIUM"`
	Category    *string          `gorm:"size:100"`

	ClaimedBy *string `gorm:"type:uuid;index"`
	ClaimedAt *time.Time
	Purchased bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (i *Item) IsClaimed() bool {
	return i.ClaimedBy != nil
}

// HideClaimState blanks claim and purchase fields so the owner never
// learns who intends to give what.
func (i *Item) HideClaimState() {
	i.ClaimedBy = nil
	i.ClaimedAt = nil
	i.Purchased = false
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func (Item) TableName() string { return "wishlist_items" }
