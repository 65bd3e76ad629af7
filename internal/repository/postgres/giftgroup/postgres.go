package giftgroup

import (
	"context"
	"errors"
	"time"

	giftgroupdomain "giftcircle/internal/domain/giftgroup"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(giftgroupdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetGroup(ctx context.Context, groupID string) (*giftgroupdomain.Group, error) {
	var group giftgroupdomain.Group
	if err := r.db.WithContext(ctx).Where("id = ?", groupID).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, giftgroupdomain.ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *PostgresRepository) ListGroupsByMember(ctx context.Context, familyID, userID string) ([]giftgroupdomain.Group, error) {
	var groups []giftgroupdomain.Group
	if err := r.db.WithContext(ctx).
		Joins("join gift_group_members on gift_group_members.group_id = gift_groups.id").
		Where("gift_groups.family_id = ? AND gift_group_members.user_id = ?", familyID, userID).
		Order("gift_groups.created_at desc").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *PostgresRepository) CreateGroup(ctx context.Context, group *giftgroupdomain.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *PostgresRepository) UpdateGroup(ctx context.Context, group *giftgroupdomain.Group) error {
	return r.db.WithContext(ctx).Save(group).Error
}

func (r *PostgresRepository) DeleteGroup(ctx context.Context, groupID string) error {
	return r.db.WithContext(ctx).Delete(&giftgroupdomain.Group{}, "id = ?", groupID).Error
}

func (r *PostgresRepository) GetMember(ctx context.Context, groupID, userID string) (*giftgroupdomain.GroupMember, error) {
	var member giftgroupdomain.GroupMember
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, giftgroupdomain.ErrNotGroupMember
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, groupID string) ([]giftgroupdomain.GroupMember, error) {
	var members []giftgroupdomain.GroupMember
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("joined_at asc").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) AddMember(ctx context.Context, member *giftgroupdomain.GroupMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *PostgresRepository) AddContribution(ctx context.Context, groupID, userID string, amount decimal.Decimal, hasPaid *bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		memberUpdates := map[string]interface{}{
			"contribution_amount": gorm.Expr("contribution_amount + ?", amount),
		}
		if hasPaid != nil {
			memberUpdates["has_paid"] = *hasPaid
		}

		result := tx.Model(&giftgroupdomain.GroupMember{}).
			Where("group_id = ? AND user_id = ?", groupID, userID).
			Updates(memberUpdates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return giftgroupdomain.ErrNotGroupMember
		}

		return tx.Model(&giftgroupdomain.Group{}).
			Where("id = ?", groupID).
			Update("current_amount", gorm.Expr("current_amount + ?", amount)).Error
	})
}

func (r *PostgresRepository) TouchLastRead(ctx context.Context, groupID, userID string) error {
	return r.db.WithContext(ctx).
		Model(&giftgroupdomain.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Update("last_read_at", time.Now().UTC()).Error
}

func (r *PostgresRepository) GetMessage(ctx context.Context, messageID string) (*giftgroupdomain.Message, error) {
	var message giftgroupdomain.Message
	if err := r.db.WithContext(ctx).Where("id = ?", messageID).First(&message).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, giftgroupdomain.ErrMessageNotFound
		}
		return nil, err
	}
	return &message, nil
}

func (r *PostgresRepository) ListMessages(ctx context.Context, groupID string) ([]giftgroupdomain.Message, error) {
	var messages []giftgroupdomain.Message
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at asc").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *PostgresRepository) CreateMessage(ctx context.Context, message *giftgroupdomain.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *PostgresRepository) UpdateMessageContent(ctx context.Context, messageID, content string) error {
	return r.db.WithContext(ctx).
		Model(&giftgroupdomain.Message{}).
		Where("id = ?", messageID).
		Updates(map[string]interface{}{
			"content":    content,
			"is_edited":  true,
			"updated_at": time.Now().UTC(),
		}).Error
}
