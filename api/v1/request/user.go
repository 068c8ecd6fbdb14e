package request

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
	Nickname string `json:"nickname" binding:"required,min=2,max=100"`
	Mobile   string `json:"mobile" binding:"required,mobile"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UpdateProfileRequest struct {
	Nickname  string `json:"nickname" binding:"omitempty,min=2,max=100"`
	AvatarURL string `json:"avatar_url" binding:"omitempty,max=255"`
	Bio       string `json:"bio" binding:"omitempty,max=1000"`
}
