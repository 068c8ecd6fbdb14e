package dao

import (
	"time"

	"wanderlog/model"

	"gorm.io/gorm"
)

// NoteDAO owns persistence for notes and their media. Every multi-row write
// runs inside one transaction so a note and its media are never observable
// half-written.
type NoteDAO struct {
	db *gorm.DB
}

// NewNoteDAO 创建一个新的 NoteDAO 实例
func NewNoteDAO(db *gorm.DB) *NoteDAO {
	return &NoteDAO{db: db}
}

// mediaOrdered 附件展示顺序：sort_order 升序，相同值按 id（插入顺序）
func mediaOrdered(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC, id ASC")
}

// Create inserts the note row plus one media row per attachment in a single
// transaction. The status is forced to pending no matter what the caller
// put on the struct.
func (dao *NoteDAO) Create(note *model.Note, media []model.NoteMedia) error {
	return dao.db.Transaction(func(tx *gorm.DB) error {
		note.Status = model.StatusPending
		note.RejectReason = nil
		note.Media = nil
		if err := tx.Create(note).Error; err != nil {
			return err
		}
		if len(media) > 0 {
			for i := range media {
				media[i].NoteID = note.ID
			}
			if err := tx.Create(&media).Error; err != nil {
				return err
			}
		}
		note.Media = media
		return nil
	})
}

// GetByID loads the note with its owner and ordered media in one call chain.
// No status filtering happens here; visibility is the service layer's job.
func (dao *NoteDAO) GetByID(id uint64) (*model.Note, error) {
	var note model.Note
	err := dao.db.
		Preload("User").
		Preload("Media", mediaOrdered).
		First(&note, id).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// Update overwrites title/content/location for a note owned by ownerID,
// forces the status back to pending, clears any rejection reason, and
// replaces the media set wholesale — all in one transaction.
// gorm.ErrRecordNotFound covers both a missing note and one owned by
// someone else.
func (dao *NoteDAO) Update(id, ownerID uint64, title, content, location string, media []model.NoteMedia) error {
	return dao.db.Transaction(func(tx *gorm.DB) error {
		var note model.Note
		if err := tx.Where("id = ? AND user_id = ?", id, ownerID).First(&note).Error; err != nil {
			return err
		}
		updates := map[string]interface{}{
			"title":         title,
			"content":       content,
			"location":      location,
			"status":        model.StatusPending, // 编辑后必须重新送审
			"reject_reason": nil,
			"updated_at":    time.Now(),
		}
		if err := tx.Model(&note).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("note_id = ?", id).Delete(&model.NoteMedia{}).Error; err != nil {
			return err
		}
		if len(media) > 0 {
			for i := range media {
				media[i].ID = 0
				media[i].NoteID = id
			}
			if err := tx.Create(&media).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SoftDelete marks the note hidden. Passing a non-nil ownerID scopes the
// lookup to that owner; the admin path passes nil. Deleting an already
// deleted note is a no-op success.
func (dao *NoteDAO) SoftDelete(id uint64, ownerID *uint64) error {
	return dao.db.Transaction(func(tx *gorm.DB) error {
		q := tx.Where("id = ?", id)
		if ownerID != nil {
			q = q.Where("user_id = ?", *ownerID)
		}
		var note model.Note
		if err := q.First(&note).Error; err != nil {
			return err
		}
		if note.IsDeleted {
			return nil
		}
		return tx.Model(&note).Update("is_deleted", true).Error
	})
}

// SetStatus applies a moderation decision. reason must be nil unless the
// status is rejected; the service layer guarantees that. Deleted notes are
// out of the review queue and cannot be re-moderated.
func (dao *NoteDAO) SetStatus(id uint64, status model.NoteStatus, reason *string) error {
	res := dao.db.Model(&model.Note{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"status":        status,
			"reject_reason": reason,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByOwner returns the owner's non-deleted notes, newest first, with
// ordered media eager-loaded.
func (dao *NoteDAO) ListByOwner(ownerID uint64) ([]model.Note, error) {
	var notes []model.Note
	err := dao.db.
		Preload("Media", mediaOrdered).
		Where("user_id = ? AND is_deleted = ?", ownerID, false).
		Order("created_at DESC, id DESC").
		Find(&notes).Error
	return notes, err
}
