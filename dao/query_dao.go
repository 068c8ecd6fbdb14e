package dao

import (
	"wanderlog/model"

	"gorm.io/gorm"
)

// QueryDAO is the read side: public feed, review queue and the destination
// aggregation. It never returns soft-deleted notes.
type QueryDAO struct {
	db *gorm.DB
}

// NewQueryDAO 创建一个新的 QueryDAO 实例
func NewQueryDAO(db *gorm.DB) *QueryDAO {
	return &QueryDAO{db: db}
}

// DestinationCount is one row of the popular-destinations aggregation.
type DestinationCount struct {
	Location string `json:"location"`
	Count    int64  `json:"count"`
}

// ListPublished returns approved, non-deleted notes newest first with owner
// and media eager-loaded. Anonymous browsing goes through here.
func (dao *QueryDAO) ListPublished(limit, offset int) ([]model.Note, error) {
	var notes []model.Note
	err := dao.db.
		Preload("User").
		Preload("Media", mediaOrdered).
		Where("status = ? AND is_deleted = ?", model.StatusApproved, false).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&notes).Error
	return notes, err
}

// reviewScope applies the shared review-queue filters so the count query and
// the page query always agree.
// search 大小写敏感性跟随底层 collation：MySQL 默认不敏感，SQLite 对 ASCII 敏感。
func reviewScope(status *model.NoteStatus, search string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Joins("JOIN users ON users.id = notes.user_id").
			Where("notes.is_deleted = ?", false)
		if status != nil {
			db = db.Where("notes.status = ?", *status)
		}
		if search != "" {
			like := "%" + search + "%"
			db = db.Where("notes.title LIKE ? OR users.nickname LIKE ?", like, like)
		}
		return db
	}
}

// ListForReview returns one page of the review queue plus the total row
// count for pagination metadata.
func (dao *QueryDAO) ListForReview(status *model.NoteStatus, search string, page, pageSize int) ([]model.Note, int64, error) {
	scope := reviewScope(status, search)

	var total int64
	if err := dao.db.Model(&model.Note{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notes []model.Note
	err := dao.db.Model(&model.Note{}).Scopes(scope).
		Select("notes.*").
		Preload("User").
		Preload("Media", mediaOrdered).
		Order("notes.created_at DESC, notes.id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&notes).Error
	if err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}

// PopularDestinations groups approved, non-deleted notes by location and
// returns the topN locations by note count, descending. An empty location
// forms its own group.
func (dao *QueryDAO) PopularDestinations(topN int) ([]DestinationCount, error) {
	var dests []DestinationCount
	err := dao.db.Model(&model.Note{}).
		Select("location, COUNT(*) AS count").
		Where("status = ? AND is_deleted = ?", model.StatusApproved, false).
		Group("location").
		Order("count DESC").
		Limit(topN).
		Scan(&dests).Error
	return dests, err
}
