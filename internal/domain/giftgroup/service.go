package giftgroup

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FamilyMembers answers whether a user belongs to a family. Gift groups
// only ever enroll users from their own family.
type FamilyMembers interface {
	IsMember(ctx context.Context, familyID, userID string) (bool, error)
}

type Service struct {
	repo     Repository
	families FamilyMembers
}

func NewService(repo Repository, families FamilyMembers) *Service {
	return &Service{repo: repo, families: families}
}

type CreateGroupInput struct {
	Name         string
	Description  *string
	Occasion     *string
	OccasionDate *time.Time
	TargetUserID *string
	TargetAmount *decimal.Decimal
	MemberIDs    []string
}

func (s *Service) CreateGroup(ctx context.Context, familyID, creatorID string, input CreateGroupInput) (*Group, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, ErrGroupNameRequired
	}
	if input.TargetAmount != nil && input.TargetAmount.IsNegative() {
		return nil, ErrTargetAmountNegative
	}

	members := dedupe(input.MemberIDs, creatorID)
	for _, userID := range members {
		ok, err := s.families.IsMember(ctx, familyID, userID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrMemberOutsideFamily
		}
	}

	group := Group{
		ID:            uuid.NewString(),
		FamilyID:      familyID,
		Name:          input.Name,
		Description:   input.Description,
		Occasion:      input.Occasion,
		OccasionDate:  input.OccasionDate,
		TargetUserID:  input.TargetUserID,
		TargetAmount:  input.TargetAmount,
		CurrentAmount: decimal.Zero,
		IsActive:      true,
		CreatedBy:     creatorID,
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateGroup(ctx, &group); err != nil {
			return err
		}
		// creator first, then the invited family members
		for _, userID := range append([]string{creatorID}, members...) {
			member := GroupMember{
				ID:                 uuid.NewString(),
				GroupID:            group.ID,
				UserID:             userID,
				ContributionAmount: decimal.Zero,
			}
			if err := tx.AddMember(ctx, &member); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &group, nil
}

func (s *Service) GetGroup(ctx context.Context, groupID string) (*Group, error) {
	return s.repo.GetGroup(ctx, groupID)
}

func (s *Service) ListGroups(ctx context.Context, familyID, userID string) ([]Group, error) {
	return s.repo.ListGroupsByMember(ctx, familyID, userID)
}

func (s *Service) ListMembers(ctx context.Context, groupID string) ([]GroupMember, error) {
	return s.repo.ListMembers(ctx, groupID)
}

type UpdateGroupInput struct {
	Name         *string
	Description  *string
	Occasion     *string
	OccasionDate *time.Time
	TargetAmount *decimal.Decimal
	IsActive     *bool
}

func (s *Service) UpdateGroup(ctx context.Context, groupID, requesterID string, input UpdateGroupInput) (*Group, error) {
	group, err := s.repo.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.CreatedBy != requesterID {
		return nil, ErrNotCreator
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrGroupNameRequired
		}
		group.Name = name
	}
	if input.Description != nil {
		group.Description = input.Description
	}
	if input.Occasion != nil {
		group.Occasion = input.Occasion
	}
	if input.OccasionDate != nil {
		group.OccasionDate = input.OccasionDate
	}
	if input.TargetAmount != nil {
		if input.TargetAmount.IsNegative() {
			return nil, ErrTargetAmountNegative
		}
		group.TargetAmount = input.TargetAmount
	}
	if input.IsActive != nil {
		group.IsActive = *input.IsActive
	}

	if err := s.repo.UpdateGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *Service) DeleteGroup(ctx context.Context, groupID, requesterID string) error {
	group, err := s.repo.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.CreatedBy != requesterID {
		return ErrNotCreator
	}
	return s.repo.DeleteGroup(ctx, groupID)
}

// Contribute adds amount to both the member's own total and the group's
// running total in one transaction. The running total never decreases.
func (s *Service) Contribute(ctx context.Context, groupID, userID string, amount decimal.Decimal, hasPaid *bool) (*Group, error) {
	if !amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}
	amount = amount.Round(2)

	var result Group
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetMember(ctx, groupID, userID); err != nil {
			return err
		}
		if err := tx.AddContribution(ctx, groupID, userID, amount, hasPaid); err != nil {
			return err
		}
		group, err := tx.GetGroup(ctx, groupID)
		if err != nil {
			return err
		}
		result = *group
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) PostMessage(ctx context.Context, groupID, authorID, content string, attachmentURL *string) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrContentRequired
	}

	if _, err := s.repo.GetMember(ctx, groupID, authorID); err != nil {
		return nil, err
	}

	message := Message{
		ID:            uuid.NewString(),
		GroupID:       groupID,
		UserID:        authorID,
		Content:       content,
		AttachmentURL: attachmentURL,
	}
	if err := s.repo.CreateMessage(ctx, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// ListMessages returns the group's chat log oldest-first and moves the
// reader's last-read marker.
func (s *Service) ListMessages(ctx context.Context, groupID, readerID string) ([]Message, error) {
	if _, err := s.repo.GetMember(ctx, groupID, readerID); err != nil {
		return nil, err
	}

	messages, err := s.repo.ListMessages(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.TouchLastRead(ctx, groupID, readerID); err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *Service) EditMessage(ctx context.Context, groupID, messageID, requesterID, content string) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrContentRequired
	}

	message, err := s.repo.GetMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	// a message addressed through another group's URL does not exist
	// as far as that group is concerned
	if message.GroupID != groupID {
		return nil, ErrMessageNotFound
	}
	if message.UserID != requesterID {
		return nil, ErrNotAuthor
	}

	if err := s.repo.UpdateMessageContent(ctx, messageID, content); err != nil {
		return nil, err
	}

	message.Content = content
	message.IsEdited = true
	return message, nil
}

func (s *Service) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	_, err := s.repo.GetMember(ctx, groupID, userID)
	if errors.Is(err, ErrNotGroupMember) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func dedupe(ids []string, exclude string) []string {
	seen := map[string]struct{}{exclude: {}}
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
