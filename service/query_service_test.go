package service_test

import (
	"context"
	"testing"

	"wanderlog/dao"
	"wanderlog/internal/apperr"
	"wanderlog/model"
	"wanderlog/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupQueryFixture 铺底数据：两篇过审、一篇待审、一篇被拒、一篇已删除的过审笔记。
func setupQueryFixture(t *testing.T) (*gorm.DB, *service.QueryService, *model.User, *model.User) {
	t.Helper()
	db := newTestDB(t)
	noteDAO := noteDAOFor(db)
	notes := service.NewNoteService(noteDAO)
	moderation := service.NewModerationService(noteDAO)
	queries := service.NewQueryService(dao.NewQueryDAO(db), nil)

	owner := seedUser(t, db, "writer", model.RoleUser)
	auditor := seedUser(t, db, "reviewer", model.RoleAuditor)

	mk := func(title, location string) *model.Note {
		n, err := notes.Create(principalFor(owner), title, "content", location, nil)
		require.NoError(t, err)
		return n
	}

	lijiang := mk("Lijiang old town", "Lijiang")
	dali := mk("Dali lake walk", "Dali")
	mk("Pending trip", "Lijiang") // 留在 pending
	rejectedNote := mk("Rejected trip", "Dali")
	deletedNote := mk("Deleted trip", "Lijiang")

	_, err := moderation.SetStatus(principalFor(auditor), lijiang.ID, model.StatusApproved, "")
	require.NoError(t, err)
	_, err = moderation.SetStatus(principalFor(auditor), dali.ID, model.StatusApproved, "")
	require.NoError(t, err)
	_, err = moderation.SetStatus(principalFor(auditor), rejectedNote.ID, model.StatusRejected, "dupe")
	require.NoError(t, err)
	_, err = moderation.SetStatus(principalFor(auditor), deletedNote.ID, model.StatusApproved, "")
	require.NoError(t, err)
	require.NoError(t, notes.SoftDelete(principalFor(owner), deletedNote.ID))

	return db, queries, owner, auditor
}

func TestListPublishedOnlyApprovedAndNotDeleted(t *testing.T) {
	_, queries, _, _ := setupQueryFixture(t)

	items, err := queries.ListPublished(10, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, n := range items {
		assert.Equal(t, model.StatusApproved, n.Status)
		assert.False(t, n.IsDeleted)
		assert.NotZero(t, n.User.ID) // owner 预加载
	}
	// 新的在前
	assert.Equal(t, "Dali lake walk", items[0].Title)
	assert.Equal(t, "Lijiang old town", items[1].Title)
}

func TestListForReviewRoleAndPagination(t *testing.T) {
	_, queries, owner, auditor := setupQueryFixture(t)

	_, err := queries.ListForReview(principalFor(owner), nil, "", 1, 10)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	// 全部未删除的：4 篇（2 过审 + 1 待审 + 1 被拒）
	page, err := queries.ListForReview(principalFor(auditor), nil, "", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.TotalItems)
	assert.Equal(t, int64(2), page.TotalPages)
	assert.Len(t, page.Items, 3)

	page2, err := queries.ListForReview(principalFor(auditor), nil, "", 2, 3)
	require.NoError(t, err)
	assert.Len(t, page2.Items, 1)
}

func TestListForReviewStatusFilterAndSearch(t *testing.T) {
	_, queries, _, auditor := setupQueryFixture(t)

	pending := model.StatusPending
	page, err := queries.ListForReview(principalFor(auditor), &pending, "", 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), page.TotalItems)
	assert.Equal(t, "Pending trip", page.Items[0].Title)

	// 标题子串
	page, err = queries.ListForReview(principalFor(auditor), nil, "Lijiang", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalItems)

	// 作者昵称子串也能命中
	page, err = queries.ListForReview(principalFor(auditor), nil, "writer-nick", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.TotalItems)
}

func TestPopularDestinations(t *testing.T) {
	_, queries, _, _ := setupQueryFixture(t)

	dests, err := queries.PopularDestinations(context.Background())
	require.NoError(t, err)
	// 只统计过审且未删除的：Lijiang 1、Dali 1
	require.Len(t, dests, 2)
	for _, d := range dests {
		assert.Equal(t, int64(1), d.Count)
	}
}

func TestPopularDestinationsGroupsEmptyLocation(t *testing.T) {
	db := newTestDB(t)
	noteDAO := noteDAOFor(db)
	notes := service.NewNoteService(noteDAO)
	moderation := service.NewModerationService(noteDAO)
	queries := service.NewQueryService(dao.NewQueryDAO(db), nil)
	owner := seedUser(t, db, "nomad", model.RoleUser)
	auditor := seedUser(t, db, "judge", model.RoleAuditor)

	for i := 0; i < 2; i++ {
		n, err := notes.Create(principalFor(owner), "untitled spot", "content", "", nil)
		require.NoError(t, err)
		_, err = moderation.SetStatus(principalFor(auditor), n.ID, model.StatusApproved, "")
		require.NoError(t, err)
	}

	dests, err := queries.PopularDestinations(context.Background())
	require.NoError(t, err)
	require.Len(t, dests, 1)
	assert.Equal(t, "", dests[0].Location)
	assert.Equal(t, int64(2), dests[0].Count)
}
