package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoServicePersonalPool(t *testing.T) {
	f := newFixture(t)

	first, err := f.memos.CreatePersonal(context.Background(), "first note")
	require.NoError(t, err)
	require.Nil(t, first.GroupID)
	require.Nil(t, first.UserID)

	// created_at ordering needs distinct timestamps
	time.Sleep(5 * time.Millisecond)

	second, err := f.memos.CreatePersonal(context.Background(), "  second note  ")
	require.NoError(t, err)
	require.Equal(t, "second note", second.Content)

	memos, err := f.memos.ListPersonal(context.Background())
	require.NoError(t, err)
	require.Len(t, memos, 2)
	require.Equal(t, second.ID, memos[0].ID)
	require.Equal(t, first.ID, memos[1].ID)
}

func TestMemoServiceCreateRejectsEmptyContent(t *testing.T) {
	f := newFixture(t)

	_, err := f.memos.CreatePersonal(context.Background(), "   ")
	require.Error(t, err)
}

func TestMemoServiceGroupMemosScopedByMembership(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "owner")
	outsider := f.createUser(t, "outsider")
	group := f.createGroup(t, owner.ID, "Notes")

	memo, err := f.memos.CreateForGroup(context.Background(), group.ID, owner.ID, "group note")
	require.NoError(t, err)
	require.NotNil(t, memo.GroupID)
	require.Equal(t, group.ID, *memo.GroupID)

	_, err = f.memos.CreateForGroup(context.Background(), group.ID, outsider.ID, "sneaky")
	require.ErrorIs(t, err, ErrNotAMember)

	_, err = f.memos.ListForGroup(context.Background(), group.ID, outsider.ID)
	require.ErrorIs(t, err, ErrNotAMember)

	listed, err := f.memos.ListForGroup(context.Background(), group.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "owner", listed[0].AuthorName)
}

func TestMemoServiceGroupMemosExcludedFromPersonalPool(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "owner")
	group := f.createGroup(t, owner.ID, "Notes")

	_, err := f.memos.CreateForGroup(context.Background(), group.ID, owner.ID, "group only")
	require.NoError(t, err)

	personal, err := f.memos.ListPersonal(context.Background())
	require.NoError(t, err)
	require.Empty(t, personal)
}

func TestMemoServiceListForMissingGroup(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "owner")

	_, err := f.memos.ListForGroup(context.Background(), "no-such-group", owner.ID)
	require.ErrorIs(t, err, ErrGroupNotFound)
}

func TestMemoServiceUpdateAndDelete(t *testing.T) {
	f := newFixture(t)

	memo, err := f.memos.CreatePersonal(context.Background(), "draft")
	require.NoError(t, err)

	updated, err := f.memos.Update(context.Background(), memo.ID, "final")
	require.NoError(t, err)
	require.Equal(t, "final", updated.Content)

	_, err = f.memos.Update(context.Background(), memo.ID, "  ")
	require.Error(t, err)

	require.NoError(t, f.memos.Delete(context.Background(), memo.ID))
	_, err = f.memos.Get(context.Background(), memo.ID)
	require.ErrorIs(t, err, ErrMemoNotFound)

	require.ErrorIs(t, f.memos.Delete(context.Background(), memo.ID), ErrMemoNotFound)
}
