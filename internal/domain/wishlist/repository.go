package wishlist

import "context"

type ListFilter struct {
	FamilyID string
	OwnerID  string // optional; empty means all owners
}

type Repository interface {
	GetItem(ctx context.Context, itemID string) (*Item, error)
	ListItems(ctx context.Context, filter ListFilter) ([]Item, error)
	ListItemsByOwner(ctx context.Context, userID string) ([]Item, error)
	CreateItem(ctx context.Context, item *Item) error
	UpdateItem(ctx context.Context, item *Item) error
	DeleteItem(ctx context.Context, itemID string) error

	// ClaimItem sets the claimer only when the item is currently
	// unclaimed; it reports false when another claim won the race.
	ClaimItem(ctx context.Context, itemID, claimerID string) (bool, error)
	// UnclaimItem clears claimer, claim timestamp and purchase flag
	// together, guarded on the requester still being the claimer.
	UnclaimItem(ctx context.Context, itemID, claimerID string) (bool, error)
	MarkPurchased(ctx context.Context, itemID, claimerID string) (bool, error)
}
