package model

import "time"

// Role 用户角色（闭合枚举，授权检查处穷举匹配）
type Role string

const (
	RoleUser    Role = "user"
	RoleAuditor Role = "auditor"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAuditor, RoleAdmin:
		return true
	}
	return false
}

// CanReview reports whether the role may approve or reject notes.
func (r Role) CanReview() bool {
	switch r {
	case RoleAuditor, RoleAdmin:
		return true
	case RoleUser:
		return false
	}
	return false
}

// CanAdminister reports whether the role may delete arbitrary notes.
// Auditors can review but not delete.
func (r Role) CanAdminister() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleUser, RoleAuditor:
		return false
	}
	return false
}

// User 用户模型
type User struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Mobile    string    `gorm:"unique;not null;size:11" json:"mobile"`
	Username  string    `gorm:"unique;not null;size:50" json:"username"`
	Password  string    `gorm:"not null;size:100" json:"-"` // bcrypt 哈希
	Nickname  string    `gorm:"unique;not null;size:100" json:"nickname"`
	AvatarURL string    `gorm:"size:255" json:"avatar_url"`
	Bio       string    `gorm:"type:text" json:"bio"`
	Role      Role      `gorm:"not null;size:20;default:user" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
