package family

import (
	"context"
	"crypto/rand"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	inviteCodeLength   = 8
	inviteCodeAttempts = 10

	minNameLength = 2
	maxNameLength = 50
)

// Inviter sends invitation emails. Unlike verification mail this is the
// primary action of the invite operation, so failures propagate.
type Inviter interface {
	SendFamilyInvite(ctx context.Context, toEmail, familyName, inviterName, code string) error
}

type Service struct {
	repo    Repository
	inviter Inviter
}

func NewService(repo Repository, inviter Inviter) *Service {
	return &Service{repo: repo, inviter: inviter}
}

func (s *Service) CreateFamily(ctx context.Context, userID, name string) (*Family, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	var result Family
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		code, err := generateUniqueCode(ctx, tx)
		if err != nil {
			return err
		}

		fam := Family{
			ID:         uuid.NewString(),
			Name:       name,
			InviteCode: code,
			CreatedBy:  userID,
		}
		if err := tx.CreateFamily(ctx, &fam); err != nil {
			return err
		}

		member := Member{
			ID:       uuid.NewString(),
			FamilyID: fam.ID,
			UserID:   userID,
			Role:     RoleAdmin,
		}
		if err := tx.AddMember(ctx, &member); err != nil {
			return err
		}

		result = fam
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) JoinFamily(ctx context.Context, userID, code string) (*Family, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, ErrInviteCodeNotFound
	}

	var result Family
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		fam, err := tx.GetFamilyByCode(ctx, code)
		if err != nil {
			return err
		}

		if _, err := tx.GetMember(ctx, fam.ID, userID); err == nil {
			return ErrAlreadyMember
		} else if !errors.Is(err, ErrMemberNotFound) {
			return err
		}

		member := Member{
			ID:       uuid.NewString(),
			FamilyID: fam.ID,
			UserID:   userID,
			Role:     RoleMember,
		}
		if err := tx.AddMember(ctx, &member); err != nil {
			return err
		}

		result = *fam
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) ListFamilies(ctx context.Context, userID string) ([]Family, error) {
	return s.repo.ListFamiliesByUser(ctx, userID)
}

func (s *Service) GetFamily(ctx context.Context, familyID string) (*Family, error) {
	return s.repo.GetFamily(ctx, familyID)
}

func (s *Service) UpdateFamily(ctx context.Context, familyID, name string) (*Family, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	fam, err := s.repo.GetFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateFamilyName(ctx, familyID, name); err != nil {
		return nil, err
	}

	fam.Name = name
	return fam, nil
}

// DeleteFamily removes the family row; members, profiles, wishlist items
// and gift groups go with it through foreign-key cascades.
func (s *Service) DeleteFamily(ctx context.Context, familyID string) error {
	if _, err := s.repo.GetFamily(ctx, familyID); err != nil {
		return err
	}
	return s.repo.DeleteFamily(ctx, familyID)
}

func (s *Service) ListMembers(ctx context.Context, familyID string) ([]MemberDetail, error) {
	return s.repo.ListMembers(ctx, familyID)
}

func (s *Service) RemoveMember(ctx context.Context, familyID, memberID, requesterID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		member, err := tx.GetMemberByID(ctx, memberID)
		if err != nil {
			return err
		}
		if member.FamilyID != familyID {
			return ErrMemberNotFound
		}
		if member.UserID == requesterID {
			return ErrCannotRemoveSelf
		}

		if member.Role == RoleAdmin {
			admins, err := tx.CountAdmins(ctx, familyID)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return ErrLastAdmin
			}
		}

		return tx.DeleteMember(ctx, memberID)
	})
}

func (s *Service) InviteByEmail(ctx context.Context, familyID, inviterName, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	fam, err := s.repo.GetFamily(ctx, familyID)
	if err != nil {
		return err
	}

	taken, err := s.repo.UserEmailInFamily(ctx, familyID, email)
	if err != nil {
		return err
	}
	if taken {
		return ErrInviteeAlreadyMember
	}

	return s.inviter.SendFamilyInvite(ctx, email, fam.Name, inviterName, FormatCode(fam.InviteCode))
}

func (s *Service) IsMember(ctx context.Context, familyID, userID string) (bool, error) {
	_, err := s.repo.GetMember(ctx, familyID, userID)
	if errors.Is(err, ErrMemberNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) IsAdmin(ctx context.Context, familyID, userID string) (bool, error) {
	member, err := s.repo.GetMember(ctx, familyID, userID)
	if errors.Is(err, ErrMemberNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return IsAdmin(member), nil
}

// NormalizeCode maps user input to storage form: uppercase, no dash.
func NormalizeCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	return strings.ReplaceAll(code, "-", "")
}

// FormatCode renders the stored code in the XXXX-XXXX display form.
func FormatCode(code string) string {
	if len(code) != inviteCodeLength {
		return code
	}
	return code[:4] + "-" + code[4:]
}

func validateName(name string) error {
	switch n := utf8.RuneCountInString(name); {
	case n < minNameLength:
		return ErrNameTooShort
	case n > maxNameLength:
		return ErrNameTooLong
	}
	return nil
}

func generateUniqueCode(ctx context.Context, repo Repository) (string, error) {
	for i := 0; i < inviteCodeAttempts; i++ {
		code, err := generateCode(inviteCodeLength)
		if err != nil {
			return "", err
		}
		taken, err := repo.IsCodeTaken(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeGenerationFailed
}

// generateCode draws from an alphabet without the lookalikes I, O, 0, 1.
func generateCode(length int) (string, error) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf), nil
}
