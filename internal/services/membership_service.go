package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/wjy1814-droid/memos/internal/models"
)

// MembershipService answers "is user U a member of group G, and with what
// role?". Every group-scoped operation gates on it, and absence of a
// membership row always means no access.
type MembershipService struct {
	db *gorm.DB
}

// NewMembershipService constructs a MembershipService instance.
func NewMembershipService(db *gorm.DB) (*MembershipService, error) {
	if db == nil {
		return nil, errors.New("membership service: db is required")
	}
	return &MembershipService{db: db}, nil
}

// RoleOf returns the caller's role in the group, or ErrNotAMember.
func (s *MembershipService) RoleOf(ctx context.Context, groupID, userID string) (models.Role, error) {
	ctx = ensureContext(ctx)

	if strings.TrimSpace(groupID) == "" || strings.TrimSpace(userID) == "" {
		return "", ErrNotAMember
	}

	var member models.GroupMember
	err := s.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotAMember
	}
	if err != nil {
		return "", fmt.Errorf("membership service: lookup role: %w", err)
	}

	return member.Role, nil
}

// RequireRole fails unless the caller holds one of the allowed roles in the
// group. A caller with no membership row is always rejected.
func (s *MembershipService) RequireRole(ctx context.Context, groupID, userID string, allowed ...models.Role) error {
	role, err := s.RoleOf(ctx, groupID, userID)
	if err != nil {
		return err
	}

	for _, candidate := range allowed {
		if role == candidate {
			return nil
		}
	}

	return ErrRoleDenied
}

// RequireMember fails unless the caller holds any membership in the group.
func (s *MembershipService) RequireMember(ctx context.Context, groupID, userID string) error {
	_, err := s.RoleOf(ctx, groupID, userID)
	return err
}
