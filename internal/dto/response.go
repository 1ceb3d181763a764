package dto

// ── pagination / listing ──

// PaginationRequest common paging parameters
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage page number with default
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize page size with default
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	if p.PageSize > 100 {
		return 100
	}
	return p.PageSize
}

// GetOffset row offset of the current page
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// ListQuery paging + keyword search + ordering shared by every list endpoint.
// Ordering takes a field name, "-" prefix for descending.
type ListQuery struct {
	PaginationRequest
	Search   string `form:"search"   binding:"omitempty,max=100"`
	Ordering string `form:"ordering" binding:"omitempty,max=50"`
}

// ── bulk ──

// BulkIDsRequest ids of a bulk action
type BulkIDsRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1,dive,min=1"`
}

// BulkResult rows touched by a bulk action
type BulkResult struct {
	Updated int64 `json:"updated"`
}

// ── statistics ──

// CountBy one row of a group-by count
type CountBy struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// DailyCount one day of a histogram
type DailyCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// MessageResponse plain message payload
type MessageResponse struct {
	Message string `json:"message"`
}
