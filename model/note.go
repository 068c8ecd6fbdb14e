package model

import "time"

// NoteStatus 笔记审核状态
type NoteStatus string

const (
	StatusPending  NoteStatus = "pending"
	StatusApproved NoteStatus = "approved"
	StatusRejected NoteStatus = "rejected"
)

// Valid reports whether the status is one of the known values.
func (s NoteStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// MediaKind 附件类型
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Valid reports whether the kind is one of the known values.
func (k MediaKind) Valid() bool {
	switch k {
	case MediaImage, MediaVideo:
		return true
	}
	return false
}

// Note 旅行笔记模型。RejectReason 仅在 status = rejected 时非空。
// IsDeleted 为软删除标记：置位后不得出现在任何公开或审核列表里。
type Note struct {
	ID           uint64      `gorm:"primarykey" json:"id"`
	UserID       uint64      `gorm:"not null;index" json:"user_id"`
	Title        string      `gorm:"not null;size:100" json:"title"`
	Content      string      `gorm:"type:text;not null" json:"content"`
	Location     string      `gorm:"size:100;index" json:"location"`
	Status       NoteStatus  `gorm:"not null;size:20;default:pending;index" json:"status"`
	RejectReason *string     `gorm:"size:255" json:"reject_reason,omitempty"`
	IsDeleted    bool        `gorm:"not null;default:false;index" json:"is_deleted"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	User         User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Media        []NoteMedia `gorm:"foreignKey:NoteID;constraint:OnDelete:CASCADE" json:"media"`
}

// NoteMedia 笔记附件。展示顺序按 sort_order 升序，相同值按 id 升序（即插入顺序）。
type NoteMedia struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	NoteID    uint64    `gorm:"not null;index" json:"note_id"`
	Kind      MediaKind `gorm:"not null;size:10" json:"kind"`
	URL       string    `gorm:"not null;size:255" json:"url"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

func (NoteMedia) TableName() string {
	return "note_media"
}
