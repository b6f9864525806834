// Package paginate slices an in-memory list into dashboard pages
package paginate

// ItemsPerPage is the dashboard page size
const ItemsPerPage = 12

// Result is one page of items with the numbers the pager renders
type Result[T any] struct {
	Items      []T
	Page       int
	TotalPages int
	StartIndex int
	TotalItems int
}

// TotalPages is the number of pages total items fill, at least 1
func TotalPages(total, perPage int) int {
	if perPage <= 0 {
		perPage = ItemsPerPage
	}
	pages := (total + perPage - 1) / perPage
	if pages < 1 {
		return 1
	}
	return pages
}

// Page returns page (1-based) of items. page is clamped to [1, TotalPages] and a perPage <= 0
// uses ItemsPerPage.
func Page[T any](items []T, page, perPage int) Result[T] {
	if perPage <= 0 {
		perPage = ItemsPerPage
	}
	totalPages := TotalPages(len(items), perPage)
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, 0, end-start)
	if start < end {
		out = append(out, items[start:end]...)
	}
	return Result[T]{
		Items:      out,
		Page:       page,
		TotalPages: totalPages,
		StartIndex: start,
		TotalItems: len(items),
	}
}
