package wishlist

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxTitleLength = 200

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ItemInput struct {
	Title       string
	Description *string
	URL         *string
	Price       *decimal.Decimal
	ImageURL    *string
	Priority    string
	Category    *string
}

func (s *Service) AddItem(ctx context.Context, ownerID, familyID string, input ItemInput) (*Item, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validateTitle(input.Title); err != nil {
		return nil, err
	}

	item := Item{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		FamilyID:    familyID,
		Title:       input.Title,
		Description: input.Description,
		URL:         input.URL,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		Priority:    normalizePriority(input.Priority),
		Category:    input.Category,
	}
	if err := s.repo.CreateItem(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Service) UpdateItem(ctx context.Context, itemID, requesterID string, input ItemInput) (*Item, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validateTitle(input.Title); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != requesterID {
		return nil, ErrNotOwner
	}

	item.Title = input.Title
	item.Description = input.Description
	item.URL = input.URL
	item.Price = input.Price
	item.ImageURL = input.ImageURL
	item.Priority = normalizePriority(input.Priority)
	item.Category = input.Category

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) DeleteItem(ctx context.Context, itemID, requesterID string) error {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item.UserID != requesterID {
		return ErrNotOwner
	}
	return s.repo.DeleteItem(ctx, itemID)
}

// ListFamilyItems returns the family's items with claim state hidden on
// rows the viewer owns.
func (s *Service) ListFamilyItems(ctx context.Context, familyID, viewerID, ownerID string) ([]Item, error) {
	items, err := s.repo.ListItems(ctx, ListFilter{FamilyID: familyID, OwnerID: ownerID})
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].UserID == viewerID {
			items[i].HideClaimState()
		}
	}
	return items, nil
}

// ListOwnItems returns the viewer's items across families, claim state hidden.
func (s *Service) ListOwnItems(ctx context.Context, userID string) ([]Item, error) {
	items, err := s.repo.ListItemsByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].HideClaimState()
	}
	return items, nil
}

func (s *Service) Claim(ctx context.Context, itemID, claimerID string) error {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	// self-claim is rejected before any claim-state inspection
	if item.UserID == claimerID {
		return ErrSelfClaim
	}
	if item.ClaimedBy != nil && *item.ClaimedBy == claimerID {
		return nil
	}

	ok, err := s.repo.ClaimItem(ctx, itemID, claimerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAlreadyClaimed
	}
	return nil
}

func (s *Service) Unclaim(ctx context.Context, itemID, requesterID string) error {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item.ClaimedBy == nil || *item.ClaimedBy != requesterID {
		return ErrNotClaimer
	}

	ok, err := s.repo.UnclaimItem(ctx, itemID, requesterID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotClaimer
	}
	return nil
}

func (s *Service) MarkPurchased(ctx context.Context, itemID, requesterID string) error {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item.ClaimedBy == nil || *item.ClaimedBy != requesterID {
		return ErrNotClaimer
	}

	ok, err := s.repo.MarkPurchased(ctx, itemID, requesterID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotClaimer
	}
	return nil
}

func (s *Service) GetItem(ctx context.Context, itemID string) (*Item, error) {
	return s.repo.GetItem(ctx, itemID)
}

// ParsePrice converts user input to a price; malformed or negative
// values degrade to no price rather than failing the whole submission.
func ParsePrice(value string) *decimal.Decimal {
	value = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(value), "$"))
	if value == "" {
		return nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil || d.IsNegative() {
		return nil
	}
	d = d.Round(2)
	return &d
}

func normalizePriority(p string) string {
	p = strings.ToUpper(strings.TrimSpace(p))
	if !ValidPriority(p) {
		return PriorityMedium
	}
	return p
}

func validateTitle(title string) error {
	if title == "" {
		return ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}
