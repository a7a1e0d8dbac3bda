package domain

// Page is one page of a paginated list.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// PageCount returns ceil(total/limit), or 0 when there is nothing to page.
func PageCount(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Consistent reports whether the pagination metadata satisfies
// pages = ceil(total/limit) and 1 <= page <= pages (pages = 0 when total = 0).
func (p Page[T]) Consistent() bool {
	if p.Limit <= 0 || p.Pages != PageCount(p.Total, p.Limit) {
		return false
	}
	if p.Total == 0 {
		return p.Pages == 0
	}
	return p.Page >= 1 && p.Page <= p.Pages
}

// Empty reports whether the page holds no rows.
func (p Page[T]) Empty() bool {
	return len(p.Items) == 0
}
