package persistence

import "gorm.io/gorm"

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

// paginate applies page and page size limits to a query.
// Page numbers start at 1; out-of-range values fall back to defaults.
func paginate(query *gorm.DB, page, pageSize int) *gorm.DB {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}
