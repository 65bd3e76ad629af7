package giftgroup

import "errors"

var (
	ErrGroupNotFound        = errors.New("gift group not found")
	ErrGroupNameRequired    = errors.New("group name is required")
	ErrNotGroupMember       = errors.New("not a member of this group")
	ErrNotCreator           = errors.New("only the creator may do this")
	ErrMemberOutsideFamily  = errors.New("member does not belong to the family")
	ErrAmountNotPositive    = errors.New("contribution amount must be positive")
	ErrMessageNotFound      = errors.New("message not found")
	ErrNotAuthor            = errors.New("not the message author")
	ErrContentRequired      = errors.New("message content is required")
	ErrTargetAmountNegative = errors.New("target amount must not be negative")
)
