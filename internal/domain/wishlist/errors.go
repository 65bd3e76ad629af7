package wishlist

import "errors"

var (
	ErrItemNotFound   = errors.New("wishlist item not found")
	ErrTitleRequired  = errors.New("title is required")
	ErrTitleTooLong   = errors.New("title must be at most 200 characters")
	ErrNotOwner       = errors.New("not the item owner")
	ErrSelfClaim      = errors.New("cannot claim your own item")
	ErrAlreadyClaimed = errors.New("item already claimed")
	ErrNotClaimer     = errors.New("not the current claimer")
)
