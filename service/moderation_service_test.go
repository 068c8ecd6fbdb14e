package service_test

import (
	"testing"

	"wanderlog/internal/apperr"
	"wanderlog/model"
	"wanderlog/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetStatusRequiresReviewerRole(t *testing.T) {
	db := newTestDB(t)
	noteDAO := noteDAOFor(db)
	notes := service.NewNoteService(noteDAO)
	moderation := service.NewModerationService(noteDAO)
	owner := seedUser(t, db, "alice", model.RoleUser)

	note, err := notes.Create(principalFor(owner), "t", "c", "", nil)
	require.NoError(t, err)

	// 普通用户（包括作者本人）不能审核
	_, err = moderation.SetStatus(principalFor(owner), note.ID, model.StatusApproved, "")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	got, err := noteDAO.GetByID(note.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
}

func TestRejectRequiresReason(t *testing.T) {
	db := newTestDB(t)
	noteDAO := noteDAOFor(db)
	notes := service.NewNoteService(noteDAO)
	moderation := service.NewModerationService(noteDAO)
	owner := seedUser(t, db, "bob", model.RoleUser)
	auditor := seedUser(t, db, "carol", model.RoleAuditor)

	note, err := notes.Create(principalFor(owner), "t", "c", "", nil)
	require.NoError(t, err)

	_, err = moderation.SetStatus(principalFor(auditor), note.ID, model.StatusRejected, "  ")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// 失败的调用不得改变状态
	got, err := noteDAO.GetByID(note.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Nil(t, got.RejectReason)

	// 带理由的驳回原样落库
	rejected, err := moderation.SetStatus(principalFor(auditor), note.ID, model.StatusRejected, "blurry photos")
	require.NoError(t, err)
	require.NotNil(t, rejected.RejectReason)
	assert.Equal(t, "blurry photos", *rejected.RejectReason)
}

func TestReReviewOverridesPriorDecision(t *testing.T) {
	db := newTestDB(t)
	noteDAO := noteDAOFor(db)
	notes := service.NewNoteService(noteDAO)
	moderation := service.NewModerationService(noteDAO)
	owner := seedUser(t, db, "dave", model.RoleUser)
	auditor := seedUser(t, db, "erin", model.RoleAuditor)
	admin := seedUser(t, db, "frank", model.RoleAdmin)

	note, err := notes.Create(principalFor(owner), "t", "c", "", nil)
	require.NoError(t, err)

	_, err = moderation.SetStatus(principalFor(auditor), note.ID, model.StatusRejected, "spam")
	require.NoError(t, err)

	// approved / pending 都要清空理由
	approved, err := moderation.SetStatus(principalFor(admin), note.ID, model.StatusApproved, "")
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, approved.Status)
	assert.Nil(t, approved.RejectReason)

	_, err = moderation.SetStatus(principalFor(auditor), note.ID, model.StatusRejected, "on second look, spam")
	require.NoError(t, err)
	pending, err := moderation.SetStatus(principalFor(auditor), note.ID, model.StatusPending, "")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, pending.Status)
	assert.Nil(t, pending.RejectReason)
}

func TestAdminSoftDelete(t *testing.T) {
	db := newTestDB(t)
	noteDAO := noteDAOFor(db)
	notes := service.NewNoteService(noteDAO)
	moderation := service.NewModerationService(noteDAO)
	owner := seedUser(t, db, "gina", model.RoleUser)
	auditor := seedUser(t, db, "hank", model.RoleAuditor)
	admin := seedUser(t, db, "iris", model.RoleAdmin)

	note, err := notes.Create(principalFor(owner), "t", "c", "", nil)
	require.NoError(t, err)

	// 审核员不够格
	err = moderation.SoftDelete(principalFor(auditor), note.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	require.NoError(t, moderation.SoftDelete(principalFor(admin), note.ID))
	// 幂等
	require.NoError(t, moderation.SoftDelete(principalFor(admin), note.ID))

	got, err := noteDAO.GetByID(note.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)

	err = moderation.SoftDelete(principalFor(admin), 9999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
