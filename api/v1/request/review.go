package request

type SetStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved rejected"`
	Reason string `json:"reason" binding:"omitempty,max=255"`
}

// ReviewListQuery 审核队列的查询参数
type ReviewListQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	Search   string `form:"search"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=10" binding:"omitempty,min=1,max=100"`
}
