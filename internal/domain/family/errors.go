package family

import "errors"

var (
	ErrFamilyNotFound       = errors.New("family not found")
	ErrNameTooShort         = errors.New("family name must be at least 2 characters")
	ErrNameTooLong          = errors.New("family name must be at most 50 characters")
	ErrInviteCodeNotFound   = errors.New("invite code not found")
	ErrAlreadyMember        = errors.New("already a member of this family")
	ErrMemberNotFound       = errors.New("member not found")
	ErrCannotRemoveSelf     = errors.New("cannot remove yourself")
	ErrLastAdmin            = errors.New("cannot remove the last admin")
	ErrCodeGenerationFailed = errors.New("invite code generation failed")
	ErrInviteeAlreadyMember = errors.New("invitee is already a member")
)
