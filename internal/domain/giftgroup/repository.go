package giftgroup

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetGroup(ctx context.Context, groupID string) (*Group, error)
	ListGroupsByMember(ctx context.Context, familyID, userID string) ([]Group, error)
	CreateGroup(ctx context.Context, group *Group) error
	UpdateGroup(ctx context.Context, group *Group) error
	DeleteGroup(ctx context.Context, groupID string) error

	GetMember(ctx context.Context, groupID, userID string) (*GroupMember, error)
	ListMembers(ctx context.Context, groupID string) ([]GroupMember, error)
	AddMember(ctx context.Context, member *GroupMember) error
	// AddContribution increments the member's contribution and the
	// group's running total by the same amount, atomically.
	AddContribution(ctx context.Context, groupID, userID string, amount decimal.Decimal, hasPaid *bool) error
	TouchLastRead(ctx context.Context, groupID, userID string) error

	GetMessage(ctx context.Context, messageID string) (*Message, error)
	ListMessages(ctx context.Context, groupID string) ([]Message, error)
	CreateMessage(ctx context.Context, message *Message) error
	UpdateMessageContent(ctx context.Context, messageID, content string) error
}
