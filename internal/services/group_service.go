package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/wjy1814-droid/memos/internal/models"
	apperrors "github.com/wjy1814-droid/memos/pkg/errors"
)

// CreateGroupInput captures new group metadata.
type CreateGroupInput struct {
	Name        string
	Description string
}

// UpdateGroupInput describes mutable group fields. Nil pointers leave the
// current value untouched.
type UpdateGroupInput struct {
	Name        *string
	Description *string
}

// GroupSummary is one row of the caller's group listing.
type GroupSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	OwnerName   string    `json:"owner_name"`
	CreatedAt   time.Time `json:"created_at"`
	MyRole      string    `json:"my_role"`
	MemberCount int       `json:"member_count"`
}

// GroupMemberView is a roster entry with the member's display fields.
type GroupMemberView struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// GroupDetail combines group metadata with the caller's role and the roster.
type GroupDetail struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	OwnerID     string            `json:"owner_id"`
	OwnerName   string            `json:"owner_name"`
	CreatedAt   time.Time         `json:"created_at"`
	MyRole      string            `json:"my_role"`
	Members     []GroupMemberView `json:"members"`
}

// GroupService handles group lifecycle and roster management.
type GroupService struct {
	db         *gorm.DB
	membership *MembershipService
	now        func() time.Time
}

// NewGroupService constructs a GroupService instance.
func NewGroupService(db *gorm.DB, membership *MembershipService) (*GroupService, error) {
	if db == nil {
		return nil, errors.New("group service: db is required")
	}
	if membership == nil {
		return nil, errors.New("group service: membership service is required")
	}
	return &GroupService{
		db:         db,
		membership: membership,
		now:        time.Now,
	}, nil
}

// Create registers a new group. The group row and the creator's owner
// membership commit in one transaction so neither ever exists alone.
func (s *GroupService) Create(ctx context.Context, ownerID string, input CreateGroupInput) (*models.Group, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("group name is required")
	}
	if strings.TrimSpace(ownerID) == "" {
		return nil, apperrors.NewBadRequest("owner id is required")
	}

	group := &models.Group{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		OwnerID:     ownerID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return fmt.Errorf("group service: create group: %w", err)
		}

		member := &models.GroupMember{
			GroupID:  group.ID,
			UserID:   ownerID,
			Role:     models.RoleOwner,
			JoinedAt: s.now(),
		}
		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("group service: create owner membership: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return group, nil
}

// Update modifies group metadata. Owner only; unspecified fields keep their
// current value.
func (s *GroupService) Update(ctx context.Context, groupID, requesterID string, input UpdateGroupInput) (*models.Group, error) {
	ctx = ensureContext(ctx)

	group, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if err := s.membership.RequireRole(ctx, groupID, requesterID, models.RoleOwner); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" {
			updates["name"] = name
		}
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}

	if len(updates) == 0 {
		return group, nil
	}

	if err := s.db.WithContext(ctx).Model(group).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("group service: update group: %w", err)
	}

	if err := s.db.WithContext(ctx).First(group, "id = ?", groupID).Error; err != nil {
		return nil, fmt.Errorf("group service: reload group: %w", err)
	}

	return group, nil
}

// Delete removes a group. Owner only; memberships, memos and invites go
// with it through the store's foreign-key cascade.
func (s *GroupService) Delete(ctx context.Context, groupID, requesterID string) error {
	ctx = ensureContext(ctx)

	group, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return err
	}

	if err := s.membership.RequireRole(ctx, groupID, requesterID, models.RoleOwner); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(group).Error; err != nil {
		return fmt.Errorf("group service: delete group: %w", err)
	}

	return nil
}

// List returns the caller's groups, newest first, with the caller's role
// and a member count per group.
func (s *GroupService) List(ctx context.Context, userID string) ([]GroupSummary, error) {
	ctx = ensureContext(ctx)

	summaries := []GroupSummary{}
	err := s.db.WithContext(ctx).
		Table("groups").
		Select(`groups.id, groups.name, groups.description, groups.owner_id, owners.username AS owner_name,
			groups.created_at, gm.role AS my_role,
			(SELECT COUNT(*) FROM group_members WHERE group_members.group_id = groups.id) AS member_count`).
		Joins("JOIN group_members gm ON gm.group_id = groups.id AND gm.user_id = ?", userID).
		Joins("JOIN users owners ON owners.id = groups.owner_id").
		Order("groups.created_at DESC").
		Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("group service: list groups: %w", err)
	}

	return summaries, nil
}

// GetByID loads a group with its roster. Members only.
func (s *GroupService) GetByID(ctx context.Context, groupID, requesterID string) (*GroupDetail, error) {
	ctx = ensureContext(ctx)

	group, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	role, err := s.membership.RoleOf(ctx, groupID, requesterID)
	if err != nil {
		return nil, err
	}

	var ownerName string
	var owner models.User
	if err := s.db.WithContext(ctx).First(&owner, "id = ?", group.OwnerID).Error; err == nil {
		ownerName = owner.Username
	}

	members := []GroupMemberView{}
	err = s.db.WithContext(ctx).
		Table("group_members").
		Select("group_members.id, group_members.user_id, users.username, users.email, group_members.role, group_members.joined_at").
		Joins("JOIN users ON users.id = group_members.user_id").
		Where("group_members.group_id = ?", groupID).
		Order("group_members.joined_at ASC").
		Scan(&members).Error
	if err != nil {
		return nil, fmt.Errorf("group service: list members: %w", err)
	}

	return &GroupDetail{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		OwnerID:     group.OwnerID,
		OwnerName:   ownerName,
		CreatedAt:   group.CreatedAt,
		MyRole:      string(role),
		Members:     members,
	}, nil
}

// AddMember attaches the user registered under the given email to the
// group with the member role. Owner or admin only.
func (s *GroupService) AddMember(ctx context.Context, groupID, requesterID, email string) (*models.User, error) {
	ctx = ensureContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.NewBadRequest("email is required")
	}

	if _, err := s.loadGroup(ctx, groupID); err != nil {
		return nil, err
	}

	if err := s.membership.RequireRole(ctx, groupID, requesterID, models.RoleOwner, models.RoleAdmin); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("group service: load user: %w", err)
	}

	var existing int64
	if err := s.db.WithContext(ctx).
		Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, user.ID).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("group service: check membership: %w", err)
	}
	if existing > 0 {
		return nil, ErrMemberAlreadyExists
	}

	member := &models.GroupMember{
		GroupID:  groupID,
		UserID:   user.ID,
		Role:     models.RoleMember,
		JoinedAt: s.now(),
	}
	if err := s.db.WithContext(ctx).Create(member).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrMemberAlreadyExists
		}
		return nil, fmt.Errorf("group service: add member: %w", err)
	}

	return &user, nil
}

// RemoveMember detaches a user from the group. Owner or admin only, and the
// owner's membership can never be removed.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, requesterID, targetUserID string) error {
	ctx = ensureContext(ctx)

	if _, err := s.loadGroup(ctx, groupID); err != nil {
		return err
	}

	if err := s.membership.RequireRole(ctx, groupID, requesterID, models.RoleOwner, models.RoleAdmin); err != nil {
		return err
	}

	targetRole, err := s.membership.RoleOf(ctx, groupID, targetUserID)
	if err != nil {
		if errors.Is(err, ErrNotAMember) {
			return ErrMemberNotFound
		}
		return err
	}
	if targetRole == models.RoleOwner {
		return ErrOwnerProtected
	}

	if err := s.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, targetUserID).
		Delete(&models.GroupMember{}).Error; err != nil {
		return fmt.Errorf("group service: remove member: %w", err)
	}

	return nil
}

// Leave removes the caller's own membership. The owner cannot leave; they
// must delete the group (no ownership transfer exists).
func (s *GroupService) Leave(ctx context.Context, groupID, requesterID string) error {
	ctx = ensureContext(ctx)

	role, err := s.membership.RoleOf(ctx, groupID, requesterID)
	if err != nil {
		if errors.Is(err, ErrNotAMember) {
			return ErrMemberNotFound
		}
		return err
	}
	if role == models.RoleOwner {
		return ErrOwnerProtected
	}

	if err := s.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, requesterID).
		Delete(&models.GroupMember{}).Error; err != nil {
		return fmt.Errorf("group service: leave group: %w", err)
	}

	return nil
}

func (s *GroupService) loadGroup(ctx context.Context, groupID string) (*models.Group, error) {
	var group models.Group
	err := s.db.WithContext(ctx).First(&group, "id = ?", groupID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("group service: load group: %w", err)
	}
	return &group, nil
}
