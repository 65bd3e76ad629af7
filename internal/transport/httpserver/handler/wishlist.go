package handler

import (
	"errors"
	"net/http"
	"time"

	wishlistdomain "giftcircle/internal/domain/wishlist"
	"giftcircle/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type itemRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
	Price       *string `json:"price"`
	ImageURL    *string `json:"image_url"`
	Priority    string  `json:"priority"`
	Category    *string `json:"category"`
}

type itemResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	FamilyID string `json:"family_id"`

	Title       string           `json:"title"`
	Description *string          `json:"description"`
	URL         *string          `json:"url"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"image_url"`
	Priority    string           `json:"priority"`
	Category    *string          `json:"category"`

	ClaimedBy *string    `json:"claimed_by"`
	ClaimedAt *time.Time `json:"claimed_at"`
	Purchased bool       `json:"purchased"`

	CreatedAt time.Time `json:"created_at"`
}

func toItemResponse(item *wishlistdomain.Item) itemResponse {
	return itemResponse{
		ID:          item.ID,
		UserID:      item.UserID,
		FamilyID:    item.FamilyID,
		Title:       item.Title,
		Description: item.Description,
		URL:         item.URL,
		Price:       item.Price,
		ImageURL:    item.ImageURL,
		Priority:    item.Priority,
		Category:    item.Category,
		ClaimedBy:   item.ClaimedBy,
		ClaimedAt:   item.ClaimedAt,
		Purchased:   item.Purchased,
		CreatedAt:   item.CreatedAt,
	}
}

func (r itemRequest) toInput() wishlistdomain.ItemInput {
	input := wishlistdomain.ItemInput{
		Title:       r.Title,
		Description: r.Description,
		URL:         r.URL,
		ImageURL:    r.ImageURL,
		Priority:    r.Priority,
		Category:    r.Category,
	}
	if r.Price != nil {
		input.Price = wishlistdomain.ParsePrice(*r.Price)
	}
	return input
}

func (h *Handlers) AddWishlistItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	familyID := chi.URLParam(r, "family_id")

	item, err := h.Wishlists.AddItem(r.Context(), user.ID, familyID, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, wishlistdomain.ErrTitleRequired),
			errors.Is(err, wishlistdomain.ErrTitleTooLong):
			h.log.BusinessError("wishlist.add: invalid title", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "invalid_title", "title must be between 1 and 200 characters")
		default:
			h.log.InternalError("wishlist.add: add item failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toItemResponse(item))
}

// ListFamilyWishlist returns every item in the family, with claim
// state blanked on the rows the caller owns. An owner_id query param
// narrows the list to one member's items.
func (h *Handlers) ListFamilyWishlist(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	familyID := chi.URLParam(r, "family_id")
	ownerID := r.URL.Query().Get("owner_id")

	items, err := h.Wishlists.ListFamilyItems(r.Context(), familyID, user.ID, ownerID)
	if err != nil {
		h.log.InternalError("wishlist.list: list items failed", err, "family_id", familyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]itemResponse, 0, len(items))
	for i := range items {
		response = append(response, toItemResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) ListMyWishlist(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	items, err := h.Wishlists.ListOwnItems(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("wishlist.mine: list items failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]itemResponse, 0, len(items))
	for i := range items {
		response = append(response, toItemResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) UpdateWishlistItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	itemID := chi.URLParam(r, "item_id")

	item, err := h.Wishlists.UpdateItem(r.Context(), itemID, user.ID, req.toInput())
	if err != nil {
		h.writeItemError(w, "wishlist.update", err, user.ID, itemID)
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (h *Handlers) DeleteWishlistItem(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	itemID := chi.URLParam(r, "item_id")

	if err := h.Wishlists.DeleteItem(r.Context(), itemID, user.ID); err != nil {
		h.writeItemError(w, "wishlist.delete", err, user.ID, itemID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ClaimWishlistItem(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	itemID := chi.URLParam(r, "item_id")

	if err := h.Wishlists.Claim(r.Context(), itemID, user.ID); err != nil {
		h.writeItemError(w, "wishlist.claim", err, user.ID, itemID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) UnclaimWishlistItem(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	itemID := chi.URLParam(r, "item_id")

	if err := h.Wishlists.Unclaim(r.Context(), itemID, user.ID); err != nil {
		h.writeItemError(w, "wishlist.unclaim", err, user.ID, itemID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) PurchaseWishlistItem(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	itemID := chi.URLParam(r, "item_id")

	if err := h.Wishlists.MarkPurchased(r.Context(), itemID, user.ID); err != nil {
		h.writeItemError(w, "wishlist.purchase", err, user.ID, itemID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeItemError(w http.ResponseWriter, op string, err error, userID, itemID string) {
	switch {
	case errors.Is(err, wishlistdomain.ErrItemNotFound):
		h.log.BusinessError(op+": item not found", err, "user_id", userID, "item_id", itemID)
		writeError(w, http.StatusNotFound, "item_not_found", "wishlist item not found")
	case errors.Is(err, wishlistdomain.ErrNotOwner):
		h.log.BusinessError(op+": not the owner", err, "user_id", userID, "item_id", itemID)
		writeError(w, http.StatusForbidden, "not_owner", "only the item owner can do this")
	case errors.Is(err, wishlistdomain.ErrSelfClaim):
		h.log.BusinessError(op+": cannot claim own item", err, "user_id", userID, "item_id", itemID)
		writeError(w, http.StatusConflict, "self_claim", "cannot claim your own item")
	case errors.Is(err, wishlistdomain.ErrAlreadyClaimed):
		h.log.BusinessError(op+": item already claimed", err, "user_id", userID, "item_id", itemID)
		writeError(w, http.StatusConflict, "already_claimed", "item is already claimed")
	case errors.Is(err, wishlistdomain.ErrNotClaimer):
		h.log.BusinessError(op+": not the claimer", err, "user_id", userID, "item_id", itemID)
		writeError(w, http.StatusForbidden, "not_claimer", "only the claimer can do this")
	case errors.Is(err, wishlistdomain.ErrTitleRequired),
		errors.Is(err, wishlistdomain.ErrTitleTooLong):
		h.log.BusinessError(op+": invalid title", err, "user_id", userID, "item_id", itemID)
		writeError(w, http.StatusBadRequest, "invalid_title", "title must be between 1 and 200 characters")
	default:
		h.log.InternalError(op+": operation failed", err, "user_id", userID, "item_id", itemID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
