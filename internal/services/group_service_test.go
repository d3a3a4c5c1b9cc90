package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wjy1814-droid/memos/internal/models"
)

func TestGroupServiceCreateAddsOwnerMembership(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "owner")

	group, err := f.groups.Create(context.Background(), owner.ID, CreateGroupInput{
		Name:        "  Book Club  ",
		Description: "weekly reads",
	})
	require.NoError(t, err)
	require.Equal(t, "Book Club", group.Name)
	require.Equal(t, owner.ID, group.OwnerID)

	role, err := f.membership.RoleOf(context.Background(), group.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, models.RoleOwner, role)
}

func TestGroupServiceCreateRequiresName(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "owner")

	_, err := f.groups.Create(context.Background(), owner.ID, CreateGroupInput{Name: "   "})
	require.Error(t, err)
}

func TestGroupServiceUpdateOwnerOnly(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "owner")
	member := f.createUser(t, "member")
	group := f.createGroup(t, owner.ID, "Original")

	_, err := f.groups.AddMember(context.Background(), group.ID, owner.ID, member.Email)
	require.NoError(t, err)

	newName := "Renamed"
	_, err = f.groups.Update(context.Background(), group.ID, member.ID, UpdateGroupInput{Name: &newName})
	require.ErrorIs(t, err, ErrRoleDenied)

	updated, err := f.groups.Update(context.Background(), group.ID, owner.ID, UpdateGroupInput{Name: &newName})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
}

func TestGroupServiceUpdatePartial(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "owner")
	group, err := f.groups.Create(context.Background(), owner.ID, CreateGroupInput{
		Name:        "Keep",
		Description: "old",
	})
	require.NoError(t, err)

	desc := "new description"
	updated, err := f.groups.Update(context.Background(), group.ID, owner.ID, UpdateGroupInput{Description: &desc})
	require.NoError(t, err)
	require.Equal(t, "Keep", updated.Name)
	require.Equal(t, "new description", updated.Description)
}

func TestGroupServiceDeleteCascades(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "owner")
	group := f.createGroup(t, owner.ID, "Doomed")

	_, err := f.memos.CreateForGroup(context.Background(), group.ID, owner.ID, "to be removed")
	require.NoError(t, err)

	require.NoError(t, f.groups.Delete(context.Background(), group.ID, owner.ID))

	_, err = f.groups.GetByID(context.Background(), group.ID, owner.ID)
	require.ErrorIs(t, err, ErrGroupNotFound)

	var memoCount int64
	require.NoError(t, f.db.Model(&models.Memo{}).Where("group_id = ?", group.ID).Count(&memoCount).Error)
	require.Zero(t, memoCount)
}

func TestGroupServiceDeleteOwnerOnly(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "owner")
	admin := f.createUser(t, "admin")
	group := f.createGroup(t, owner.ID, "Protected")

	_, err := f.groups.AddMember(context.Background(), group.ID, owner.ID, admin.Email)
	require.NoError(t, err)
	f.setRole(t, group.ID, admin.ID, models.RoleAdmin)

	require.ErrorIs(t, f.groups.Delete(context.Background(), group.ID, admin.ID), ErrRoleDenied)
}

func TestGroupServiceListShowsRoleAndCount(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "owner")
	member := f.createUser(t, "member")

	first := f.createGroup(t, owner.ID, "First")
	second := f.createGroup(t, owner.ID, "Second")

	_, err := f.groups.AddMember(context.Background(), second.ID, owner.ID, member.Email)
	require.NoError(t, err)

	mine, err := f.groups.List(context.Background(), member.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, second.ID, mine[0].ID)
	require.Equal(t, "member", mine[0].MyRole)
	require.Equal(t, 2, mine[0].MemberCount)
	require.Equal(t, "owner", mine[0].OwnerName)

	owners, err := f.groups.List(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Len(t, owners, 2)
	_ = first
}

func TestGroupServiceGetByIDMembersOnly(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "owner")
	outsider := f.createUser(t, "outsider")
	group := f.createGroup(t, owner.ID, "Private")

	_, err := f.groups.GetByID(context.Background(), group.ID, outsider.ID)
	require.ErrorIs(t, err, ErrNotAMember)

	detail, err := f.groups.GetByID(context.Background(), group.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, "owner", detail.MyRole)
	require.Len(t, detail.Members, 1)
	require.Equal(t, owner.Username, detail.Members[0].Username)
}

func TestGroupServiceAddMember(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "owner")
	joiner := f.createUser(t, "joiner")
	group := f.createGroup(t, owner.ID, "Open")

	added, err := f.groups.AddMember(context.Background(), group.ID, owner.ID, joiner.Email)
	require.NoError(t, err)
	require.Equal(t, joiner.ID, added.ID)

	_, err = f.groups.AddMember(context.Background(), group.ID, owner.ID, joiner.Email)
	require.ErrorIs(t, err, ErrMemberAlreadyExists)

	_, err = f.groups.AddMember(context.Background(), group.ID, owner.ID, "ghost@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.groups.AddMember(context.Background(), group.ID, joiner.ID, owner.Email)
	require.ErrorIs(t, err, ErrRoleDenied)
}

func TestGroupServiceRemoveMember(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "owner")
	admin := f.createUser(t, "admin")
	member := f.createUser(t, "member")
	group := f.createGroup(t, owner.ID, "Roster")

	for _, u := range []string{admin.Email, member.Email} {
		_, err := f.groups.AddMember(context.Background(), group.ID, owner.ID, u)
		require.NoError(t, err)
	}
	f.setRole(t, group.ID, admin.ID, models.RoleAdmin)

	require.ErrorIs(t, f.groups.RemoveMember(context.Background(), group.ID, member.ID, admin.ID), ErrRoleDenied)
	require.ErrorIs(t, f.groups.RemoveMember(context.Background(), group.ID, admin.ID, owner.ID), ErrOwnerProtected)

	require.NoError(t, f.groups.RemoveMember(context.Background(), group.ID, admin.ID, member.ID))
	_, err := f.membership.RoleOf(context.Background(), group.ID, member.ID)
	require.ErrorIs(t, err, ErrNotAMember)

	require.ErrorIs(t, f.groups.RemoveMember(context.Background(), group.ID, owner.ID, member.ID), ErrMemberNotFound)
}

func TestGroupServiceLeave(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "owner")
	member := f.createUser(t, "member")
	group := f.createGroup(t, owner.ID, "Revolving")

	_, err := f.groups.AddMember(context.Background(), group.ID, owner.ID, member.Email)
	require.NoError(t, err)

	require.ErrorIs(t, f.groups.Leave(context.Background(), group.ID, owner.ID), ErrOwnerProtected)
	require.NoError(t, f.groups.Leave(context.Background(), group.ID, member.ID))
	require.ErrorIs(t, f.groups.Leave(context.Background(), group.ID, member.ID), ErrMemberNotFound)
}
