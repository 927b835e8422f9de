package shared

// Filter carries the paging, ordering, and search options a caller may
// attach to a list query. Field filters are free-form key/value pairs;
// each repository interprets the keys it knows and ignores the rest.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}

// DefaultFilter returns the first page of twenty rows, newest first.
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
}

// Offset converts the page number into a row offset. Pages are 1-based;
// anything below that is treated as the first page.
func (f Filter) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.PageSize
}

// Limit returns the page size, or zero when paging is disabled.
func (f Filter) Limit() int {
	if f.Page > 0 && f.PageSize > 0 {
		return f.PageSize
	}
	return 0
}
