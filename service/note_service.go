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

// MediaAttachment is one caller-supplied attachment. A nil SortOrder means
// "use my position in the list".
type MediaAttachment struct {
	Kind      model.MediaKind
	URL       string
	SortOrder *int
}

// NoteService drives the note lifecycle on behalf of an explicit principal.
type NoteService struct {
	notes *dao.NoteDAO
}

// NewNoteService 创建一个新的 NoteService 实例
func NewNoteService(notes *dao.NoteDAO) *NoteService {
	return &NoteService{notes: notes}
}

func buildMediaRows(media []MediaAttachment) ([]model.NoteMedia, error) {
	rows := make([]model.NoteMedia, 0, len(media))
	for i, m := range media {
		if !m.Kind.Valid() {
			return nil, fmt.Errorf("%w: media kind %q", apperr.ErrValidation, m.Kind)
		}
		if strings.TrimSpace(m.URL) == "" {
			return nil, fmt.Errorf("%w: media url is required", apperr.ErrValidation)
		}
		order := i
		if m.SortOrder != nil {
			order = *m.SortOrder
		}
		rows = append(rows, model.NoteMedia{Kind: m.Kind, URL: m.URL, SortOrder: order})
	}
	return rows, nil
}

// Create inserts a new note with its attachments. The note always starts
// pending; there is no way for a caller to smuggle in another status.
func (s *NoteService) Create(p auth.Principal, title, content, location string, media []MediaAttachment) (*model.Note, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", apperr.ErrValidation)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", apperr.ErrValidation)
	}
	rows, err := buildMediaRows(media)
	if err != nil {
		return nil, err
	}

	note := &model.Note{
		UserID:   p.ID,
		Title:    title,
		Content:  content,
		Location: location,
	}
	if err := s.notes.Create(note, rows); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	metrics.IncNoteCreated()
	return s.notes.GetByID(note.ID)
}

// Get fetches one note and enforces the visibility rule: non-approved notes
// are visible only to their owner or an admin, soft-deleted notes only to an
// admin. p is nil for anonymous callers.
func (s *NoteService) Get(p *auth.Principal, id uint64) (*model.Note, error) {
	note, err := s.notes.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}

	isAdmin := p != nil && p.Role.CanAdminister()
	isOwner := p != nil && p.ID == note.UserID

	if note.IsDeleted && !isAdmin {
		// 对非管理员隐藏已删除笔记的存在
		return nil, apperr.ErrNotFound
	}
	if note.Status != model.StatusApproved && !isOwner && !isAdmin {
		return nil, fmt.Errorf("%w: note is not published", apperr.ErrForbidden)
	}
	return note, nil
}

// Update overwrites the note content and replaces its media wholesale; the
// edit always forces the note back into review.
func (s *NoteService) Update(p auth.Principal, id uint64, title, content, location string, media []MediaAttachment) (*model.Note, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", apperr.ErrValidation)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", apperr.ErrValidation)
	}
	rows, err := buildMediaRows(media)
	if err != nil {
		return nil, err
	}

	err = s.notes.Update(id, p.ID, title, content, location, rows)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	return s.notes.GetByID(id)
}

// SoftDelete hides the caller's own note. Idempotent.
func (s *NoteService) SoftDelete(p auth.Principal, id uint64) error {
	err := s.notes.SoftDelete(id, &p.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	return nil
}

// ListMine returns the caller's non-deleted notes, newest first.
func (s *NoteService) ListMine(p auth.Principal) ([]model.Note, error) {
	notes, err := s.notes.ListByOwner(p.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	return notes, nil
}
