package service

import (
	"errors"
	"fmt"
	"strings"

	"wanderlog/dao"
	"wanderlog/internal/apperr"
	"wanderlog/internal/auth"
	"wanderlog/internal/metrics"
	"wanderlog/model"

	"gorm.io/gorm"
)

// ModerationService enforces who may drive a note's status transitions.
// 状态机：pending -> approved | rejected（审核员/管理员），approved <-> rejected
// 可直接互转（复审覆盖前次结论）；回到 pending 只能由作者编辑触发。
type ModerationService struct {
	notes *dao.NoteDAO
}

// NewModerationService 创建一个新的 ModerationService 实例
func NewModerationService(notes *dao.NoteDAO) *ModerationService {
	return &ModerationService{notes: notes}
}

// SetStatus applies a moderation decision. Rejection requires a reason;
// every other status forces the reason to null. The caller's role comes from
// the principal and is trusted outright.
func (s *ModerationService) SetStatus(p auth.Principal, noteID uint64, status model.NoteStatus, reason string) (*model.Note, error) {
	if !p.Role.CanReview() {
		return nil, fmt.Errorf("%w: reviewer role required", apperr.ErrForbidden)
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperr.ErrValidation, status)
	}

	var reasonPtr *string
	if status == model.StatusRejected {
		reason = strings.TrimSpace(reason)
		if reason == "" {
			return nil, fmt.Errorf("%w: rejection requires a reason", apperr.ErrValidation)
		}
		reasonPtr = &reason
	}

	err := s.notes.SetStatus(noteID, status, reasonPtr)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	metrics.IncModeration(string(status))
	return s.notes.GetByID(noteID)
}

// SoftDelete hides any note regardless of ownership. Admin only — an
// auditor may judge content but not remove it.
func (s *ModerationService) SoftDelete(p auth.Principal, noteID uint64) error {
	if !p.Role.CanAdminister() {
		return fmt.Errorf("%w: admin role required", apperr.ErrForbidden)
	}
	err := s.notes.SoftDelete(noteID, nil)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	return nil
}
