package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/wjy1814-droid/memos/internal/models"
	"github.com/wjy1814-droid/memos/pkg/crypto"
	apperrors "github.com/wjy1814-droid/memos/pkg/errors"
	"github.com/wjy1814-droid/memos/pkg/metrics"
)

// DefaultInviteTTL is applied when an invite is created without an
// explicit expiry.
const DefaultInviteTTL = 7 * 24 * time.Hour

// codeRetryLimit bounds the regeneration loop on invite code collisions.
const codeRetryLimit = 5

// CreateInviteInput controls a new invite's lifetime and capacity. A zero
// ExpiresIn falls back to the service default; a nil MaxUses means
// unlimited redemptions.
type CreateInviteInput struct {
	ExpiresIn time.Duration
	MaxUses   *int
}

// InvitePreview is the public view of an invite, safe to show before the
// viewer authenticates or joins.
type InvitePreview struct {
	GroupID          string     `json:"group_id"`
	GroupName        string     `json:"group_name"`
	GroupDescription string     `json:"group_description"`
	CreatorName      string     `json:"creator_name"`
	ExpiresAt        *time.Time `json:"expires_at"`
	RemainingUses    *int       `json:"remaining_uses"`
}

// CreatedInvite pairs a stored invite with its shareable URL.
type CreatedInvite struct {
	Invite *models.GroupInvite `json:"invite"`
	URL    string              `json:"invite_url"`
}

// InviteService issues, inspects, redeems and revokes group invite links.
type InviteService struct {
	db         *gorm.DB
	membership *MembershipService
	baseURL    string
	defaultTTL time.Duration
	now        func() time.Time
}

// InviteOption customises InviteService construction.
type InviteOption func(*InviteService)

// WithInviteBaseURL sets the public base used to build shareable URLs.
func WithInviteBaseURL(base string) InviteOption {
	return func(s *InviteService) {
		s.baseURL = strings.TrimRight(base, "/")
	}
}

// WithInviteTTL overrides the default invite lifetime.
func WithInviteTTL(ttl time.Duration) InviteOption {
	return func(s *InviteService) {
		if ttl > 0 {
			s.defaultTTL = ttl
		}
	}
}

// WithInviteClock overrides the time source, used by tests.
func WithInviteClock(now func() time.Time) InviteOption {
	return func(s *InviteService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewInviteService constructs an InviteService instance.
func NewInviteService(db *gorm.DB, membership *MembershipService, opts ...InviteOption) (*InviteService, error) {
	if db == nil {
		return nil, errors.New("invite service: db is required")
	}
	if membership == nil {
		return nil, errors.New("invite service: membership service is required")
	}

	svc := &InviteService{
		db:         db,
		membership: membership,
		defaultTTL: DefaultInviteTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Create issues a new invite for the group. Owner or admin only.
func (s *InviteService) Create(ctx context.Context, groupID, creatorID string, input CreateInviteInput) (*CreatedInvite, error) {
	ctx = ensureContext(ctx)

	if err := s.requireGroup(ctx, groupID); err != nil {
		return nil, err
	}
	if err := s.membership.RequireRole(ctx, groupID, creatorID, models.RoleOwner, models.RoleAdmin); err != nil {
		return nil, err
	}
	if input.MaxUses != nil && *input.MaxUses < 1 {
		return nil, apperrors.NewBadRequest("max_uses must be at least 1")
	}

	ttl := input.ExpiresIn
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	expiresAt := s.now().Add(ttl)

	invite := &models.GroupInvite{
		GroupID:   groupID,
		CreatedBy: creatorID,
		ExpiresAt: &expiresAt,
		MaxUses:   input.MaxUses,
		IsActive:  true,
	}

	// Codes are 8 random bytes so collisions are vanishingly rare, but the
	// column is unique and we retry a bounded number of times regardless.
	var lastErr error
	for attempt := 0; attempt < codeRetryLimit; attempt++ {
		code, err := crypto.GenerateInviteCode()
		if err != nil {
			return nil, fmt.Errorf("invite service: generate code: %w", err)
		}
		invite.InviteCode = code
		invite.ID = ""

		err = s.db.WithContext(ctx).Create(invite).Error
		if err == nil {
			return &CreatedInvite{Invite: invite, URL: s.inviteURL(code)}, nil
		}
		if !isUniqueConstraintError(err) {
			return nil, fmt.Errorf("invite service: create invite: %w", err)
		}
		lastErr = err
	}

	return nil, fmt.Errorf("invite service: exhausted invite code attempts: %w", lastErr)
}

// Inspect returns the public preview for a code without changing any
// state. The caller does not need to be authenticated.
func (s *InviteService) Inspect(ctx context.Context, code string) (*InvitePreview, error) {
	ctx = ensureContext(ctx)

	invite, err := s.loadByCode(ctx, s.db, code)
	if err != nil {
		return nil, err
	}
	if err := s.checkValidity(invite); err != nil {
		return nil, err
	}

	var group models.Group
	if err := s.db.WithContext(ctx).First(&group, "id = ?", invite.GroupID).Error; err != nil {
		return nil, fmt.Errorf("invite service: load group: %w", err)
	}

	var creatorName string
	var creator models.User
	if err := s.db.WithContext(ctx).First(&creator, "id = ?", invite.CreatedBy).Error; err == nil {
		creatorName = creator.Username
	}

	return &InvitePreview{
		GroupID:          group.ID,
		GroupName:        group.Name,
		GroupDescription: group.Description,
		CreatorName:      creatorName,
		ExpiresAt:        invite.ExpiresAt,
		RemainingUses:    invite.RemainingUses(),
	}, nil
}

// Redeem joins the caller to the invite's group as a member. The
// membership insert and the use-count increment commit atomically, and the
// increment is guarded against the cap so concurrent redemptions of a
// nearly exhausted invite cannot oversubscribe it.
func (s *InviteService) Redeem(ctx context.Context, code, userID string) (*models.Group, error) {
	ctx = ensureContext(ctx)

	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewBadRequest("user id is required")
	}

	var group models.Group
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invite, err := s.loadByCode(ctx, tx, code)
		if err != nil {
			return err
		}
		if err := s.checkValidity(invite); err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.GroupMember{}).
			Where("group_id = ? AND user_id = ?", invite.GroupID, userID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("invite service: check membership: %w", err)
		}
		if existing > 0 {
			return ErrMemberAlreadyExists
		}

		member := &models.GroupMember{
			GroupID:  invite.GroupID,
			UserID:   userID,
			Role:     models.RoleMember,
			JoinedAt: s.now(),
		}
		if err := tx.Create(member).Error; err != nil {
			if isUniqueConstraintError(err) {
				return ErrMemberAlreadyExists
			}
			return fmt.Errorf("invite service: create membership: %w", err)
		}

		res := tx.Model(&models.GroupInvite{}).
			Where("id = ? AND (max_uses IS NULL OR current_uses < max_uses)", invite.ID).
			UpdateColumn("current_uses", gorm.Expr("current_uses + 1"))
		if res.Error != nil {
			return fmt.Errorf("invite service: increment uses: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInviteExhausted
		}

		if err := tx.First(&group, "id = ?", invite.GroupID).Error; err != nil {
			return fmt.Errorf("invite service: load group: %w", err)
		}

		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		switch {
		case errors.As(err, &appErr):
			metrics.InviteRedemptions.WithLabelValues("rejected").Inc()
		default:
			metrics.InviteRedemptions.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	metrics.InviteRedemptions.WithLabelValues("success").Inc()
	return &group, nil
}

// Deactivate permanently disables an invite. Owner or admin of the
// invite's group only; there is no reactivation.
func (s *InviteService) Deactivate(ctx context.Context, code, requesterID string) error {
	ctx = ensureContext(ctx)

	invite, err := s.loadByCode(ctx, s.db, code)
	if err != nil {
		return err
	}

	if err := s.membership.RequireRole(ctx, invite.GroupID, requesterID, models.RoleOwner, models.RoleAdmin); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).
		Model(invite).
		UpdateColumn("is_active", false).Error; err != nil {
		return fmt.Errorf("invite service: deactivate invite: %w", err)
	}

	return nil
}

// ListForGroup returns every invite issued for the group, newest first,
// including expired and deactivated ones. Owner or admin only.
func (s *InviteService) ListForGroup(ctx context.Context, groupID, requesterID string) ([]models.GroupInvite, error) {
	ctx = ensureContext(ctx)

	if err := s.requireGroup(ctx, groupID); err != nil {
		return nil, err
	}
	if err := s.membership.RequireRole(ctx, groupID, requesterID, models.RoleOwner, models.RoleAdmin); err != nil {
		return nil, err
	}

	invites := []models.GroupInvite{}
	err := s.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at DESC").
		Find(&invites).Error
	if err != nil {
		return nil, fmt.Errorf("invite service: list invites: %w", err)
	}

	return invites, nil
}

// InviteURL builds the shareable URL for a code.
func (s *InviteService) InviteURL(code string) string {
	return s.inviteURL(code)
}

func (s *InviteService) inviteURL(code string) string {
	if s.baseURL == "" {
		return "/invite/" + code
	}
	return s.baseURL + "/invite/" + code
}

// checkValidity runs the ordered validity checks: existence is handled by
// the lookup, then active flag, then expiry, then usage cap.
func (s *InviteService) checkValidity(invite *models.GroupInvite) error {
	if !invite.IsActive {
		return ErrInviteDeactivated
	}
	if invite.ExpiresAt != nil && s.now().After(*invite.ExpiresAt) {
		return ErrInviteExpired
	}
	if invite.MaxUses != nil && invite.CurrentUses >= *invite.MaxUses {
		return ErrInviteExhausted
	}
	return nil
}

func (s *InviteService) loadByCode(ctx context.Context, tx *gorm.DB, code string) (*models.GroupInvite, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrInviteNotFound
	}

	var invite models.GroupInvite
	err := tx.WithContext(ctx).Where("invite_code = ?", code).First(&invite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInviteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("invite service: load invite: %w", err)
	}

	return &invite, nil
}

func (s *InviteService) requireGroup(ctx context.Context, groupID string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Group{}).Where("id = ?", groupID).Count(&count).Error; err != nil {
		return fmt.Errorf("invite service: check group: %w", err)
	}
	if count == 0 {
		return ErrGroupNotFound
	}
	return nil
}
