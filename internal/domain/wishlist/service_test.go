package wishlist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeItemRepo guards its map with a mutex so the concurrent claim
// tests exercise the same exactly-one-winner contract the conditional
// update gives the real store.
type fakeItemRepo struct {
	mu    sync.Mutex
	items map[string]*Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[string]*Item)}
}

func (r *fakeItemRepo) GetItem(ctx context.Context, itemID string) (*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok {
		return nil, ErrItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeItemRepo) ListItems(ctx context.Context, filter ListFilter) ([]Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]Item, 0)
	for _, item := range r.items {
		if item.FamilyID != filter.FamilyID {
			continue
		}
		if filter.OwnerID != "" && item.UserID != filter.OwnerID {
			continue
		}
		result = append(result, *item)
	}
	return result, nil
}

func (r *fakeItemRepo) ListItemsByOwner(ctx context.Context, userID string) ([]Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]Item, 0)
	for _, item := range r.items {
		if item.UserID == userID {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *fakeItemRepo) CreateItem(ctx context.Context, item *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeItemRepo) UpdateItem(ctx context.Context, item *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeItemRepo) DeleteItem(ctx context.Context, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, itemID)
	return nil
}

func (r *fakeItemRepo) ClaimItem(ctx context.Context, itemID, claimerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok || item.ClaimedBy != nil {
		return false, nil
	}
	now := time.Now().UTC()
	item.ClaimedBy = &claimerID
	item.ClaimedAt = &now
	return true, nil
}

func (r *fakeItemRepo) UnclaimItem(ctx context.Context, itemID, claimerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok || item.ClaimedBy == nil || *item.ClaimedBy != claimerID {
		return false, nil
	}
	item.ClaimedBy = nil
	item.ClaimedAt = nil
	item.Purchased = false
	return true, nil
}

func (r *fakeItemRepo) MarkPurchased(ctx context.Context, itemID, claimerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok || item.ClaimedBy == nil || *item.ClaimedBy != claimerID {
		return false, nil
	}
	item.Purchased = true
	return true, nil
}

func seedItem(repo *fakeItemRepo, id, ownerID string) {
	repo.items[id] = &Item{ID: id, UserID: ownerID, FamilyID: "fam-1", Title: "Gift", Priority: PriorityMedium}
}

func TestAddItemDefaultsAndValidation(t *testing.T) {
	repo := newFakeItemRepo()
	svc := NewService(repo)

	item, err := svc.AddItem(context.Background(), "owner", "fam-1", ItemInput{Title: "  Bike  ", Priority: "urgent"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if item.Title != "Bike" {
		t.Fatalf("expected trimmed title, got %q", item.Title)
	}
	if item.Priority != PriorityMedium {
		t.Fatalf("expected unknown priority to default to MEDIUM, got %q", item.Priority)
	}

	if _, err := svc.AddItem(context.Background(), "owner", "fam-1", ItemInput{Title: "   "}); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
}

func TestUpdateItemOwnerOnly(t *testing.T) {
	repo := newFakeItemRepo()
	seedItem(repo, "item-1", "owner")
	svc := NewService(repo)

	if _, err := svc.UpdateItem(context.Background(), "item-1", "intruder", ItemInput{Title: "New"}); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	item, err := svc.UpdateItem(context.Background(), "item-1", "owner", ItemInput{Title: "New", Priority: "high"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if item.Title != "New" || item.Priority != PriorityHigh {
		t.Fatalf("unexpected item after update: %+v", item)
	}
}

func TestClaimRules(t *testing.T) {
	repo := newFakeItemRepo()
	seedItem(repo, "item-1", "owner")
	svc := NewService(repo)

	if err := svc.Claim(context.Background(), "item-1", "owner"); !errors.Is(err, ErrSelfClaim) {
		t.Fatalf("expected ErrSelfClaim, got %v", err)
	}
	if err := svc.Claim(context.Background(), "item-1", "giver-1"); err != nil {
		t.Fatalf("expected claim to succeed, got %v", err)
	}
	// re-claiming your own claim is a no-op
	if err := svc.Claim(context.Background(), "item-1", "giver-1"); err != nil {
		t.Fatalf("expected idempotent re-claim, got %v", err)
	}
	if err := svc.Claim(context.Background(), "item-1", "giver-2"); !errors.Is(err, ErrAlreadyClaimed) {
		t.Fatalf("expected ErrAlreadyClaimed, got %v", err)
	}
	// self-claim answer does not change once someone claimed it
	if err := svc.Claim(context.Background(), "item-1", "owner"); !errors.Is(err, ErrSelfClaim) {
		t.Fatalf("expected ErrSelfClaim, got %v", err)
	}
}

func TestConcurrentClaimsOneWinner(t *testing.T) {
	repo := newFakeItemRepo()
	seedItem(repo, "item-1", "owner")
	svc := NewService(repo)

	const claimers = 50
	var wg sync.WaitGroup
	results := make([]error, claimers)

	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n] = svc.Claim(context.Background(), "item-1", string(rune('A'+n%26))+string(rune('a'+n/26)))
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, ErrAlreadyClaimed):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	// distinct claimer ids mean no idempotent repeats; exactly one wins
	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}
}

func TestUnclaimThenReclaim(t *testing.T) {
	repo := newFakeItemRepo()
	seedItem(repo, "item-1", "owner")
	svc := NewService(repo)

	if err := svc.Claim(context.Background(), "item-1", "giver-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := svc.MarkPurchased(context.Background(), "item-1", "giver-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := svc.Unclaim(context.Background(), "item-1", "giver-2"); !errors.Is(err, ErrNotClaimer) {
		t.Fatalf("expected ErrNotClaimer, got %v", err)
	}
	if err := svc.Unclaim(context.Background(), "item-1", "giver-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	item := repo.items["item-1"]
	if item.ClaimedBy != nil || item.ClaimedAt != nil || item.Purchased {
		t.Fatalf("expected claim state fully cleared, got %+v", item)
	}

	if err := svc.Claim(context.Background(), "item-1", "giver-2"); err != nil {
		t.Fatalf("expected second giver to claim after release, got %v", err)
	}
}

func TestMarkPurchasedClaimerOnly(t *testing.T) {
	repo := newFakeItemRepo()
	seedItem(repo, "item-1", "owner")
	svc := NewService(repo)

	if err := svc.MarkPurchased(context.Background(), "item-1", "giver-1"); !errors.Is(err, ErrNotClaimer) {
		t.Fatalf("expected ErrNotClaimer on unclaimed item, got %v", err)
	}
	if err := svc.Claim(context.Background(), "item-1", "giver-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := svc.MarkPurchased(context.Background(), "item-1", "giver-2"); !errors.Is(err, ErrNotClaimer) {
		t.Fatalf("expected ErrNotClaimer for non-claimer, got %v", err)
	}
	if err := svc.MarkPurchased(context.Background(), "item-1", "giver-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !repo.items["item-1"].Purchased {
		t.Fatalf("expected item marked purchased")
	}
}

func TestOwnerNeverSeesClaimState(t *testing.T) {
	repo := newFakeItemRepo()
	seedItem(repo, "item-1", "owner")
	seedItem(repo, "item-2", "other")
	svc := NewService(repo)

	if err := svc.Claim(context.Background(), "item-1", "giver-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := svc.MarkPurchased(context.Background(), "item-1", "giver-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := svc.Claim(context.Background(), "item-2", "giver-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	items, err := svc.ListFamilyItems(context.Background(), "fam-1", "owner", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for _, item := range items {
		if item.ID == "item-1" {
			if item.ClaimedBy != nil || item.ClaimedAt != nil || item.Purchased {
				t.Fatalf("owner must not see claim state on own item: %+v", item)
			}
		}
		if item.ID == "item-2" {
			if item.ClaimedBy == nil || *item.ClaimedBy != "giver-1" {
				t.Fatalf("viewer should see claims on other members' items: %+v", item)
			}
		}
	}

	own, err := svc.ListOwnItems(context.Background(), "owner")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(own) != 1 {
		t.Fatalf("expected 1 item, got %d", len(own))
	}
	if own[0].ClaimedBy != nil || own[0].Purchased {
		t.Fatalf("own list must hide claim state: %+v", own[0])
	}

	// storage still has the claim
	if repo.items["item-1"].ClaimedBy == nil {
		t.Fatalf("hiding must not mutate stored claim")
	}
}

func TestParsePrice(t *testing.T) {
	if got := ParsePrice(" $19.999 "); got == nil || got.String() != "20" {
		t.Fatalf("expected 20, got %v", got)
	}
	if got := ParsePrice("12.34"); got == nil || got.String() != "12.34" {
		t.Fatalf("expected 12.34, got %v", got)
	}
	if got := ParsePrice("not a number"); got != nil {
		t.Fatalf("expected nil for garbage, got %v", got)
	}
	if got := ParsePrice("-5"); got != nil {
		t.Fatalf("expected nil for negative, got %v", got)
	}
	if got := ParsePrice(""); got != nil {
		t.Fatalf("expected nil for empty, got %v", got)
	}
}
