package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wjy1814-droid/memos/internal/database/testutil"
	"github.com/wjy1814-droid/memos/internal/models"
)

type serviceFixture struct {
	db         *gorm.DB
	users      *UserService
	membership *MembershipService
	groups     *GroupService
	memos      *MemoService
	invites    *InviteService
}

func newFixture(t *testing.T, inviteOpts ...InviteOption) *serviceFixture {
	t.Helper()

	db := testutil.MustOpenTestDB(t)

	users, err := NewUserService(db)
	require.NoError(t, err)

	membership, err := NewMembershipService(db)
	require.NoError(t, err)

	groups, err := NewGroupService(db, membership)
	require.NoError(t, err)

	memos, err := NewMemoService(db, membership)
	require.NoError(t, err)

	invites, err := NewInviteService(db, membership, inviteOpts...)
	require.NoError(t, err)

	return &serviceFixture{
		db:         db,
		users:      users,
		membership: membership,
		groups:     groups,
		memos:      memos,
		invites:    invites,
	}
}

func (f *serviceFixture) createUser(t *testing.T, name string) *models.User {
	t.Helper()

	user, err := f.users.Register(context.Background(), RegisterInput{
		Username: name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	return user
}

func (f *serviceFixture) createGroup(t *testing.T, ownerID, name string) *models.Group {
	t.Helper()

	group, err := f.groups.Create(context.Background(), ownerID, CreateGroupInput{Name: name})
	require.NoError(t, err)
	return group
}

func (f *serviceFixture) setRole(t *testing.T, groupID, userID string, role models.Role) {
	t.Helper()

	err := f.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Update("role", role).Error
	require.NoError(t, err)
}
