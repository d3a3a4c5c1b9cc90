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

// GroupMemoView is a group memo row with the author's display name. The
// author name is empty when the account has been deleted.
type GroupMemoView struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	GroupID    string    `json:"group_id"`
	UserID     *string   `json:"user_id,omitempty"`
	AuthorName string    `json:"author_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MemoService manages personal and group memos. Personal memos live in the
// shared anonymous pool; group memos are scoped by membership.
type MemoService struct {
	db         *gorm.DB
	membership *MembershipService
}

// NewMemoService constructs a MemoService instance.
func NewMemoService(db *gorm.DB, membership *MembershipService) (*MemoService, error) {
	if db == nil {
		return nil, errors.New("memo service: db is required")
	}
	if membership == nil {
		return nil, errors.New("memo service: membership service is required")
	}
	return &MemoService{db: db, membership: membership}, nil
}

// ListPersonal returns every memo without a group, newest first.
func (s *MemoService) ListPersonal(ctx context.Context) ([]models.Memo, error) {
	ctx = ensureContext(ctx)

	memos := []models.Memo{}
	err := s.db.WithContext(ctx).
		Where("group_id IS NULL").
		Order("created_at DESC").
		Find(&memos).Error
	if err != nil {
		return nil, fmt.Errorf("memo service: list personal memos: %w", err)
	}

	return memos, nil
}

// ListForGroup returns a group's memos with author names, newest first.
// Members only.
func (s *MemoService) ListForGroup(ctx context.Context, groupID, requesterID string) ([]GroupMemoView, error) {
	ctx = ensureContext(ctx)

	if err := s.requireGroup(ctx, groupID); err != nil {
		return nil, err
	}
	if err := s.membership.RequireMember(ctx, groupID, requesterID); err != nil {
		return nil, err
	}

	memos := []GroupMemoView{}
	err := s.db.WithContext(ctx).
		Table("memos").
		Select("memos.id, memos.content, memos.group_id, memos.user_id, users.username AS author_name, memos.created_at, memos.updated_at").
		Joins("LEFT JOIN users ON users.id = memos.user_id").
		Where("memos.group_id = ?", groupID).
		Order("memos.created_at DESC").
		Scan(&memos).Error
	if err != nil {
		return nil, fmt.Errorf("memo service: list group memos: %w", err)
	}

	return memos, nil
}

// CreatePersonal adds a memo to the anonymous shared pool.
func (s *MemoService) CreatePersonal(ctx context.Context, content string) (*models.Memo, error) {
	ctx = ensureContext(ctx)

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewBadRequest("memo content is required")
	}

	memo := &models.Memo{Content: content}
	if err := s.db.WithContext(ctx).Create(memo).Error; err != nil {
		return nil, fmt.Errorf("memo service: create memo: %w", err)
	}

	return memo, nil
}

// CreateForGroup adds a memo to a group, attributed to the caller.
// Members only.
func (s *MemoService) CreateForGroup(ctx context.Context, groupID, authorID, content string) (*models.Memo, error) {
	ctx = ensureContext(ctx)

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewBadRequest("memo content is required")
	}

	if err := s.requireGroup(ctx, groupID); err != nil {
		return nil, err
	}
	if err := s.membership.RequireMember(ctx, groupID, authorID); err != nil {
		return nil, err
	}

	memo := &models.Memo{
		Content: content,
		GroupID: &groupID,
		UserID:  &authorID,
	}
	if err := s.db.WithContext(ctx).Create(memo).Error; err != nil {
		return nil, fmt.Errorf("memo service: create group memo: %w", err)
	}

	return memo, nil
}

// Get loads a memo by id.
func (s *MemoService) Get(ctx context.Context, memoID string) (*models.Memo, error) {
	ctx = ensureContext(ctx)

	var memo models.Memo
	err := s.db.WithContext(ctx).First(&memo, "id = ?", memoID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMemoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("memo service: load memo: %w", err)
	}

	return &memo, nil
}

// Update replaces a memo's content.
//
// Any caller who can reach the endpoint may edit any memo; there is no
// author check here. TODO: require group membership or authorship once the
// clients send credentials on memo edits.
func (s *MemoService) Update(ctx context.Context, memoID, content string) (*models.Memo, error) {
	ctx = ensureContext(ctx)

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewBadRequest("memo content is required")
	}

	memo, err := s.Get(ctx, memoID)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(memo).Update("content", content).Error; err != nil {
		return nil, fmt.Errorf("memo service: update memo: %w", err)
	}

	return memo, nil
}

// Delete removes a memo. Like Update, deletion carries no author check.
func (s *MemoService) Delete(ctx context.Context, memoID string) error {
	ctx = ensureContext(ctx)

	memo, err := s.Get(ctx, memoID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(memo).Error; err != nil {
		return fmt.Errorf("memo service: delete memo: %w", err)
	}

	return nil
}

func (s *MemoService) requireGroup(ctx context.Context, groupID string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Group{}).Where("id = ?", groupID).Count(&count).Error; err != nil {
		return fmt.Errorf("memo service: check group: %w", err)
	}
	if count == 0 {
		return ErrGroupNotFound
	}
	return nil
}
