package request

// MediaEntry 笔记附件。SortOrder 缺省时按列表下标排序。
type MediaEntry struct {
	Kind      string `json:"kind" binding:"required,mediakind"`
	URL       string `json:"url" binding:"required,max=255"`
	SortOrder *int   `json:"sort_order"`
}

type CreateNoteRequest struct {
	Title    string       `json:"title" binding:"required,max=100"`
	Content  string       `json:"content" binding:"required"`
	Location string       `json:"location" binding:"omitempty,max=100"`
	Media    []MediaEntry `json:"media" binding:"omitempty,dive"`
}

type UpdateNoteRequest struct {
	Title    string       `json:"title" binding:"required,max=100"`
	Content  string       `json:"content" binding:"required"`
	Location string       `json:"location" binding:"omitempty,max=100"`
	Media    []MediaEntry `json:"media" binding:"omitempty,dive"`
}
